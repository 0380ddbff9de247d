package httphandler

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockStorefront struct {
	mock.Mock
}

func (m *MockStorefront) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockStorefront) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockStorefront) SearchProducts(
	ctx context.Context, query string,
) ([]domain.Product, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockStorefront) ProductBySlug(
	ctx context.Context, slug string,
) (domain.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockStorefront) ProductByID(
	ctx context.Context, productID string,
) (domain.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockStorefront) ProductsByCategory(
	ctx context.Context, slug string,
) ([]domain.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockStorefront) SelectCategory(
	ctx context.Context, query string,
) (domain.Category, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockStorefront) ProductSales(ctx context.Context, productID string) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockStorefront) ActiveSale(
	ctx context.Context, couponCode string,
) (domain.Sale, error) {
	args := m.Called(ctx, couponCode)
	return args.Get(0).(domain.Sale), args.Error(1)
}

func (m *MockStorefront) Basket(
	ctx context.Context, basketID string,
) (domain.Basket, error) {
	args := m.Called(ctx, basketID)
	return args.Get(0).(domain.Basket), args.Error(1)
}

func (m *MockStorefront) AddToBasket(
	ctx context.Context, basketID, productID string,
) (domain.Basket, error) {
	args := m.Called(ctx, basketID, productID)
	return args.Get(0).(domain.Basket), args.Error(1)
}

func (m *MockStorefront) RemoveFromBasket(
	ctx context.Context, basketID, productID string,
) (domain.Basket, error) {
	args := m.Called(ctx, basketID, productID)
	return args.Get(0).(domain.Basket), args.Error(1)
}

func (m *MockStorefront) ClearBasket(ctx context.Context, basketID string) error {
	args := m.Called(ctx, basketID)
	return args.Error(0)
}

func (m *MockStorefront) Checkout(
	ctx context.Context, basketID string, md domain.CheckoutMetadata,
) (domain.CheckoutSession, error) {
	args := m.Called(ctx, basketID, md)
	return args.Get(0).(domain.CheckoutSession), args.Error(1)
}
