package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

var _ port.ProductSalesProcessor = (*ProductSalesProcessor)(nil)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "runProc"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// An orderLineCodec used for serde [schema.OrderLineV1]
type orderLineCodec struct {
	serde Serde
}

func (c orderLineCodec) Encode(v any) ([]byte, error) {
	const op = "orderLineCodec.Encode"
	if _, ok := v.(schema.OrderLineV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c orderLineCodec) Decode(data []byte) (any, error) {
	const op = "orderLineCodec.Decode"
	var s schema.OrderLineV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// A soldUnits is the number of product units sold over all orders.
type soldUnits int64

// A soldUnitsCodec used for serde [soldUnits]
type soldUnitsCodec struct{}

func (soldUnitsCodec) Encode(v any) ([]byte, error) {
	const op = "soldUnitsCodec.Encode"
	n, ok := v.(soldUnits)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendInt(nil, int64(n), 10), nil
}

func (soldUnitsCodec) Decode(data []byte) (any, error) {
	const op = "soldUnitsCodec.Decode"
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return soldUnits(n), nil
}

// addSoldUnits accumulates quantity onto the table value,
// nil value means nothing sold yet.
func addSoldUnits(current any, quantity int) soldUnits {
	n, _ := current.(soldUnits)
	if quantity <= 0 {
		return n
	}
	return n + soldUnits(quantity)
}

// A ProductSalesProcessor counts sold units per product
// from the order lines stream into its group table.
//
// A nil tlsCfg connects in plaintext.
type ProductSalesProcessor struct {
	processor *processor
}

func NewProductSalesProcessor(
	seedBrokers []string,
	inputStream string,
	group string,
	orderLineSerde Serde,
	tlsCfg *tls.Config,
) (ProductSalesProcessor, error) {
	const op = "NewProductSalesProcessor"

	opPrefix := "ProductSalesProcessor"

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			orderLineCodec{orderLineSerde},
			processSoldUnits,
		),
		goka.Persist(soldUnitsCodec{}),
	)

	opts := append(withTLSProcOpts(tlsCfg), withNoLogProcOpt())
	gp, err := goka.NewProcessor(seedBrokers, gg, opts...)
	if err != nil {
		return ProductSalesProcessor{}, opErr(err, op)
	}

	return ProductSalesProcessor{
		processor: &processor{opPrefix: opPrefix, gp: gp},
	}, nil
}

func (p ProductSalesProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.processor.run(ctx, stopFn, wg)
}

func (p ProductSalesProcessor) Close() {
	p.processor.close()
}

func processSoldUnits(ctx goka.Context, msg any) {
	const op = "ProductSalesProcessor.processSoldUnits"
	log := slog.With("op", op)

	line, ok := msg.(schema.OrderLineV1)
	if !ok {
		log.Error("unexpected message type", "key", ctx.Key())
		return
	}

	v := addSoldUnits(ctx.Value(), line.Quantity)
	ctx.SetValue(v)
	log.Debug(
		"sold units updated",
		"productID", ctx.Key(),
		"orderNumber", line.OrderNumber,
		"soldUnits", v,
	)
}
