package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/basketstore"
	"github.com/niksmo/storefront/internal/adapter/checkoutapi"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/sanity"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sr"
)

type outbound struct {
	catalogSource   port.CatalogSource
	basketStore     port.BasketStore
	checkoutGateway port.CheckoutGateway
}

// broker components are nil when the broker is disabled.
type broker struct {
	ordersProducer port.OrdersProducer
	salesReader    port.ProductSalesReader
	salesProc      port.ProductSalesProcessor
	salesView      *kafka.ProductSalesView
	closeProducer  func()
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	closers    []func()
	outbound   outbound
	broker     broker
	service    *service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalogSource()
	app.initBasketStore()
	app.initCheckoutGateway()
	app.initBroker()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalogSource() {
	const op = "App.initCatalogSource"
	content := app.cfg.Content

	switch content.Backend {
	case config.BackendPostgres:
		db, err := storage.NewSQLDB(app.ctx, content.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		app.closers = append(app.closers, db.Close)
		app.outbound.catalogSource = storage.NewCatalogRepository(db)

	default:
		cl, err := sanity.NewClient(sanity.Config{
			ProjectID:  content.Sanity.ProjectID,
			Dataset:    content.Sanity.Dataset,
			APIVersion: content.Sanity.APIVersion,
			Token:      content.Sanity.Token,
			UseCDN:     content.Sanity.UseCDN,
			APIHost:    content.Sanity.APIHost,
		})
		if err != nil {
			app.fallDown(op, err)
		}
		app.outbound.catalogSource = sanity.NewCatalogSource(cl)
	}
}

func (app *App) initBasketStore() {
	const op = "App.initBasketStore"
	basket := app.cfg.Basket

	if basket.Store != config.StoreRedis {
		app.outbound.basketStore = basketstore.NewMemoryStore()
		return
	}

	redisCfg := basketstore.RedisConfig{
		Addr:     basket.Redis.Addr,
		Password: basket.Redis.Password,
		DB:       basket.Redis.DB,
		TTL:      basket.Redis.TTL,
	}
	if basket.Redis.TLS.Enabled() {
		tlsCfg, err := adapter.MakeTLSConfig(basket.Redis.TLS)
		if err != nil {
			app.fallDown(op, err)
		}
		redisCfg.TLS = tlsCfg
	}

	store, err := basketstore.NewRedisStore(app.ctx, redisCfg)
	if err != nil {
		app.fallDown(op, err)
	}
	app.closers = append(app.closers, store.Close)
	app.outbound.basketStore = store
}

func (app *App) initCheckoutGateway() {
	const op = "App.initCheckoutGateway"
	checkout := app.cfg.Checkout

	cl, err := checkoutapi.NewClient(checkoutapi.Config{
		BaseURL:    checkout.APIURL,
		APIKey:     checkout.APIKey,
		SuccessURL: checkout.SuccessURL,
		CancelURL:  checkout.CancelURL,
		Currency:   checkout.Currency,
	})
	if err != nil {
		app.fallDown(op, err)
	}
	app.outbound.checkoutGateway = cl
}

func (app *App) initBroker() {
	const op = "App.initBroker"
	brokerCfg := app.cfg.Broker
	ctx := app.ctx

	if !brokerCfg.Enabled {
		slog.Info("message broker is disabled")
		return
	}

	var (
		tlsCfg *tls.Config
		kopts  []kgo.Opt
		sropts = []sr.ClientOpt{sr.URLs(brokerCfg.SchemaRegistryURLs...)}
	)
	if brokerCfg.TLS.Enabled() {
		var err error
		tlsCfg, err = adapter.MakeTLSConfig(brokerCfg.TLS)
		if err != nil {
			app.fallDown(op, err)
		}
		kopts = append(kopts, kgo.DialTLSConfig(tlsCfg))
		sropts = append(sropts, sr.DialTLSConfig(tlsCfg))
	}

	srClient, err := sr.NewClient(sropts...)
	if err != nil {
		app.fallDown(op, err)
	}

	orderLinesTopic := brokerCfg.Topics.OrderLines
	orderLineSerde, err := schema.NewSerdeOrderLineV1(
		ctx,
		schema.SubjectOpt(orderLinesTopic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(ctx, brokerCfg.SeedBrokers, orderLinesTopic, kopts...),
		kafka.ProducerEncoderOpt(orderLineSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	group := brokerCfg.Consumers.ProductSalesGroup
	salesProc, err := kafka.NewProductSalesProcessor(
		brokerCfg.SeedBrokers, orderLinesTopic, group, orderLineSerde, tlsCfg,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	salesView, err := kafka.NewProductSalesView(brokerCfg.SeedBrokers, group, tlsCfg)
	if err != nil {
		app.fallDown(op, err)
	}

	app.broker = broker{
		ordersProducer: ordersProducer,
		salesReader:    salesView,
		salesProc:      salesProc,
		salesView:      &salesView,
		closeProducer:  ordersProducer.Close,
	}
}

func (app *App) initCoreService() {
	app.service = service.New(
		app.outbound.catalogSource,
		app.outbound.basketStore,
		app.outbound.checkoutGateway,
		app.broker.ordersProducer,
		app.broker.salesReader,
		app.broker.salesProc,
	)
}

func (app *App) initInboundAdapters() {
	metrics := httphandler.NewMetrics(prometheus.NewRegistry())
	router := httphandler.NewRouter(app.service, metrics)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, router)
}

func (app *App) Run(stopFn context.CancelFunc) {
	app.service.Run(app.ctx, stopFn)

	if app.broker.salesView != nil {
		go app.broker.salesView.Run(app.ctx)
	}

	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close()
	if app.broker.closeProducer != nil {
		app.broker.closeProducer()
	}
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
