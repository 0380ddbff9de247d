package service

import (
	"context"
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
)

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.catalogSource.AllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nonNil(ps), nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "Service.ListCategories"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cs, err := s.catalogSource.AllCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nonNil(cs), nil
}

// SearchProducts returns products whose name words start with the
// query words. A query without words gives no results.
func (s *Service) SearchProducts(
	ctx context.Context, query string,
) ([]domain.Product, error) {
	const op = "Service.SearchProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	terms := domain.SearchTerms(query)
	if len(terms) == 0 {
		return []domain.Product{}, nil
	}

	ps, err := s.catalogSource.SearchProductsByName(ctx, terms)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nonNil(ps), nil
}

func (s *Service) ProductBySlug(
	ctx context.Context, slug string,
) (domain.Product, error) {
	const op = "Service.ProductBySlug"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.catalogSource.ProductBySlug(ctx, slug)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *Service) ProductByID(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "Service.ProductByID"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.catalogSource.ProductByID(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *Service) ProductsByCategory(
	ctx context.Context, slug string,
) ([]domain.Product, error) {
	const op = "Service.ProductsByCategory"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.catalogSource.ProductsByCategory(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nonNil(ps), nil
}

func (s *Service) SelectCategory(
	ctx context.Context, query string,
) (domain.Category, error) {
	const op = "Service.SelectCategory"

	cs, err := s.ListCategories(ctx)
	if err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := domain.SelectCategory(cs, query)
	if err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *Service) ProductSales(
	ctx context.Context, productID string,
) (int, error) {
	const op = "Service.ProductSales"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if s.salesReader == nil {
		return 0, fmt.Errorf("%s: %w", op, domain.ErrUnavailable)
	}

	if _, err := s.ProductByID(ctx, productID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := s.salesReader.SoldUnits(productID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *Service) ActiveSale(
	ctx context.Context, couponCode string,
) (domain.Sale, error) {
	const op = "Service.ActiveSale"

	if err := ctx.Err(); err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}

	code, err := domain.ParseCouponCode(couponCode)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	sale, err := s.catalogSource.ActiveSaleByCouponCode(ctx, code, now)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}

	if !sale.ActiveAt(now) {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return sale, nil
}

func nonNil[T any](vs []T) []T {
	if vs == nil {
		return []T{}
	}
	return vs
}
