package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
)

func (s *Service) Basket(
	ctx context.Context, basketID string,
) (domain.Basket, error) {
	const op = "Service.Basket"

	if err := ctx.Err(); err != nil {
		return domain.Basket{}, fmt.Errorf("%s: %w", op, err)
	}

	b, err := s.basketStore.LoadBasket(ctx, basketID)
	if err != nil {
		return domain.Basket{}, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func (s *Service) AddToBasket(
	ctx context.Context, basketID, productID string,
) (domain.Basket, error) {
	const op = "Service.AddToBasket"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Basket{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.catalogSource.ProductByID(ctx, productID)
	if err != nil {
		return domain.Basket{}, fmt.Errorf("%s: %w", op, err)
	}

	b, err := s.basketStore.UpdateBasket(ctx, basketID,
		func(b *domain.Basket) error { return b.Add(p) },
	)
	if err != nil {
		return domain.Basket{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug(
		"product added",
		"basketID", basketID,
		"productID", productID,
		"quantity", b.ItemCount(productID),
	)
	return b, nil
}

func (s *Service) RemoveFromBasket(
	ctx context.Context, basketID, productID string,
) (domain.Basket, error) {
	const op = "Service.RemoveFromBasket"

	if err := ctx.Err(); err != nil {
		return domain.Basket{}, fmt.Errorf("%s: %w", op, err)
	}

	b, err := s.basketStore.UpdateBasket(ctx, basketID,
		func(b *domain.Basket) error {
			b.Remove(productID)
			return nil
		},
	)
	if err != nil {
		return domain.Basket{}, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func (s *Service) ClearBasket(ctx context.Context, basketID string) error {
	const op = "Service.ClearBasket"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.basketStore.DeleteBasket(ctx, basketID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
