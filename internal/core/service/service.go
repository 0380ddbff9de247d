package service

import (
	"context"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.Catalog = (*Service)(nil)
var _ port.Sales = (*Service)(nil)
var _ port.Baskets = (*Service)(nil)
var _ port.Checkout = (*Service)(nil)

type Service struct {
	catalogSource   port.CatalogSource
	basketStore     port.BasketStore
	checkoutGateway port.CheckoutGateway
	ordersProducer  port.OrdersProducer
	salesReader     port.ProductSalesReader
	salesProc       port.ProductSalesProcessor
	now             func() time.Time
}

// New returns the storefront service.
//
// ordersProducer, salesReader and salesProc are optional and may be nil
// when the message broker is disabled.
func New(
	catalogSource port.CatalogSource,
	basketStore port.BasketStore,
	checkoutGateway port.CheckoutGateway,
	ordersProducer port.OrdersProducer,
	salesReader port.ProductSalesReader,
	salesProc port.ProductSalesProcessor,
) *Service {
	return &Service{
		catalogSource:   catalogSource,
		basketStore:     basketStore,
		checkoutGateway: checkoutGateway,
		ordersProducer:  ordersProducer,
		salesReader:     salesReader,
		salesProc:       salesProc,
		now:             time.Now,
	}
}

// Run runs the background components in separate goroutines.
//
// Blocks current goroutine while components is preparing to ready state.
func (s *Service) Run(ctx context.Context, stopFn context.CancelFunc) {
	if s.salesProc == nil {
		return
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go s.salesProc.Run(ctx, stopFn, &wg)
	wg.Wait()
}

func (s *Service) Close() {
	if s.salesProc == nil {
		return
	}
	s.salesProc.Close()
}
