package kafka

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ProductSalesReader = (*ProductSalesView)(nil)

// A ProductSalesView reads the [ProductSalesProcessor] group table.
type ProductSalesView struct {
	gv gokaView
}

type gokaView interface {
	Run(ctx context.Context) error
	Get(key string) (any, error)
}

func NewProductSalesView(
	seedBrokers []string, group string, tlsCfg *tls.Config,
) (ProductSalesView, error) {
	const op = "NewProductSalesView"

	opts := append(withTLSViewOpts(tlsCfg), withNoLogViewOpt())
	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		soldUnitsCodec{},
		opts...,
	)
	if err != nil {
		return ProductSalesView{}, opErr(err, op)
	}

	return ProductSalesView{gv}, nil
}

func (v ProductSalesView) Run(ctx context.Context) {
	const op = "ProductSalesView.Run"
	log := slog.With("op", op)

	log.Info("running")
	if err := v.gv.Run(ctx); err != nil {
		log.Error("unexpected fail on run", "err", err)
		return
	}
	log.Info("stopped")
}

func (v ProductSalesView) SoldUnits(productID string) (int, error) {
	const op = "ProductSalesView.SoldUnits"

	value, err := v.gv.Get(productID)
	if err != nil {
		return 0, opErr(err, op)
	}

	if value == nil {
		return 0, nil
	}

	n, ok := value.(soldUnits)
	if !ok {
		return 0, opErr(
			fmt.Errorf("%w: %T", ErrInvalidValueType, value), op,
		)
	}
	return int(n), nil
}
