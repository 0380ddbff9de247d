package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
)

// Checkout hands the basket to the checkout gateway and returns
// the session the customer is redirected to.
func (s *Service) Checkout(
	ctx context.Context, basketID string, m domain.CheckoutMetadata,
) (domain.CheckoutSession, error) {
	const op = "Service.Checkout"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("%s: %w", op, err)
	}

	b, err := s.basketStore.LoadBasket(ctx, basketID)
	if err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("%s: %w", op, err)
	}

	if b.IsEmpty() {
		return domain.CheckoutSession{}, fmt.Errorf(
			"%s: %w", op, domain.ErrEmptyBasket,
		)
	}

	if m.OrderNumber == "" {
		m.OrderNumber = uuid.NewString()
	}

	items := b.GroupedItems()
	session, err := s.checkoutGateway.CreateSession(
		ctx, domain.CheckoutRequest{Metadata: m, Items: items},
	)
	if err != nil {
		log.Error(
			"failed to create checkout session",
			"basketID", basketID,
			"orderNumber", m.OrderNumber,
			"err", err,
		)
		return domain.CheckoutSession{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrCheckoutFailed, err,
		)
	}

	s.publishOrder(ctx, m, items)

	log.Info(
		"checkout session created",
		"basketID", basketID,
		"orderNumber", m.OrderNumber,
		"sessionID", session.SessionID,
		"nItems", len(items),
	)
	return session, nil
}

func (s *Service) publishOrder(
	ctx context.Context, m domain.CheckoutMetadata, items []domain.BasketItem,
) {
	const op = "Service.publishOrder"
	log := slog.With("op", op)

	if s.ordersProducer == nil {
		return
	}

	lines := domain.NewOrderLines(m, items, s.now())
	if err := s.ordersProducer.ProduceOrderLines(ctx, lines); err != nil {
		log.Error(
			"failed to publish order lines",
			"orderNumber", m.OrderNumber,
			"err", err,
		)
	}
}
