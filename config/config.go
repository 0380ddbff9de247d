package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

const (
	BackendSanity   = "sanity"
	BackendPostgres = "postgres"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type sanity struct {
	ProjectID  string `mapstructure:"project_id"`
	Dataset    string `mapstructure:"dataset"`
	APIVersion string `mapstructure:"api_version"`
	Token      string `mapstructure:"token"`
	UseCDN     bool   `mapstructure:"use_cdn"`
	APIHost    string `mapstructure:"api_host"`
}

type content struct {
	Backend string `mapstructure:"backend"`
	SQLDB   string `mapstructure:"sql_db"`
	Sanity  sanity `mapstructure:"sanity"`
}

type redis struct {
	Addr     string           `mapstructure:"addr"`
	Password string           `mapstructure:"password"`
	DB       int              `mapstructure:"db"`
	TTL      time.Duration    `mapstructure:"ttl"`
	TLS      adapter.TLSFiles `mapstructure:"tls"`
}

type basket struct {
	Store string `mapstructure:"store"`
	Redis redis  `mapstructure:"redis"`
}

type checkout struct {
	APIURL     string `mapstructure:"api_url"`
	APIKey     string `mapstructure:"api_key"`
	SuccessURL string `mapstructure:"success_url"`
	CancelURL  string `mapstructure:"cancel_url"`
	Currency   string `mapstructure:"currency"`
}

type consumers struct {
	ProductSalesGroup string `mapstructure:"product_sales_group"`
}

type topics struct {
	OrderLines string `mapstructure:"order_lines"`
}

type broker struct {
	Enabled            bool             `mapstructure:"enabled"`
	SeedBrokers        []string         `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string         `mapstructure:"schema_registry_urls"`
	TLS                adapter.TLSFiles `mapstructure:"tls"`
	Topics             topics           `mapstructure:"topics"`
	Consumers          consumers        `mapstructure:"consumers"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	Content        content    `mapstructure:"content"`
	Basket         basket     `mapstructure:"basket"`
	Checkout       checkout   `mapstructure:"checkout"`
	Broker         broker     `mapstructure:"broker"`
}

func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadBroker loads the config for tools that only talk to the message
// broker. Sections other than the broker are not validated.
func LoadBroker() Config {
	cfg, err := LoadBrokerFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads and validates the YAML config file.
func LoadFile(path string) (Config, error) {
	return loadFile(path, Config.validate)
}

func LoadBrokerFile(path string) (Config, error) {
	return loadFile(path, Config.validateBroker)
}

func loadFile(path string, validate func(Config) error) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("content.backend", BackendSanity)
	v.SetDefault("content.sanity.api_version", "2024-11-28")
	v.SetDefault("basket.store", StoreMemory)
	v.SetDefault("basket.redis.ttl", "720h")
	v.SetDefault("checkout.currency", "usd")
	v.SetDefault("broker.topics.order_lines", "order-lines")
	v.SetDefault("broker.consumers.product_sales_group", "product-sales")
}

func (c Config) validate() error {
	var errs []error

	switch c.Content.Backend {
	case BackendSanity:
		if c.Content.Sanity.ProjectID == "" || c.Content.Sanity.Dataset == "" {
			errs = append(errs, errors.New(
				"content.sanity: project_id and dataset are required"))
		}
	case BackendPostgres:
		if c.Content.SQLDB == "" {
			errs = append(errs, errors.New("content.sql_db: required"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"content.backend: unknown %q", c.Content.Backend))
	}

	switch c.Basket.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Basket.Redis.Addr == "" {
			errs = append(errs, errors.New("basket.redis.addr: required"))
		}
	default:
		errs = append(errs, fmt.Errorf("basket.store: unknown %q", c.Basket.Store))
	}

	if c.Checkout.APIURL == "" || c.Checkout.APIKey == "" {
		errs = append(errs, errors.New("checkout: api_url and api_key are required"))
	}
	if c.Checkout.SuccessURL == "" || c.Checkout.CancelURL == "" {
		errs = append(errs, errors.New(
			"checkout: success_url and cancel_url are required"))
	}

	if c.Broker.Enabled {
		errs = append(errs, c.validateBroker())
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls: required"))
		}
	}

	return errors.Join(errs...)
}

func (c Config) validateBroker() error {
	var errs []error
	if len(c.Broker.SeedBrokers) == 0 {
		errs = append(errs, errors.New("broker.seed_brokers: required"))
	}
	if c.Broker.Topics.OrderLines == "" {
		errs = append(errs, errors.New("broker.topics.order_lines: required"))
	}
	if c.Broker.Consumers.ProductSalesGroup == "" {
		errs = append(errs, errors.New(
			"broker.consumers.product_sales_group: required"))
	}
	return errors.Join(errs...)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

// Print writes the loaded config to stdout, secrets are masked.
func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q

	Content:
	Backend=%q
	SQLDB=%q
	Sanity:
		ProjectID=%q
		Dataset=%q
		APIVersion=%q
		UseCDN=%t
		Token=%q

	Basket:
	Store=%q
	Redis:
		Addr=%q
		DB=%d
		TTL=%s
		TLS=%t

	Checkout:
	APIURL=%q
	APIKey=%q
	SuccessURL=%q
	CancelURL=%q
	Currency=%q

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		OrderLines=%q
	Consumers:
		ProductSalesGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.Content.Backend,
		mask(c.Content.SQLDB),
		c.Content.Sanity.ProjectID,
		c.Content.Sanity.Dataset,
		c.Content.Sanity.APIVersion,
		c.Content.Sanity.UseCDN,
		mask(c.Content.Sanity.Token),
		c.Basket.Store,
		c.Basket.Redis.Addr,
		c.Basket.Redis.DB,
		c.Basket.Redis.TTL,
		c.Basket.Redis.TLS.Enabled(),
		c.Checkout.APIURL,
		mask(c.Checkout.APIKey),
		c.Checkout.SuccessURL,
		c.Checkout.CancelURL,
		c.Checkout.Currency,
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.OrderLines,
		c.Broker.Consumers.ProductSalesGroup,
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
