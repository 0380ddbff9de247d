package service

import (
	"context"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) AllProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogSource) AllCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCatalogSource) SearchProductsByName(
	ctx context.Context, terms []string,
) ([]domain.Product, error) {
	args := m.Called(ctx, terms)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogSource) ProductBySlug(
	ctx context.Context, slug string,
) (domain.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalogSource) ProductByID(
	ctx context.Context, productID string,
) (domain.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalogSource) ProductsByCategory(
	ctx context.Context, slug string,
) ([]domain.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogSource) ActiveSaleByCouponCode(
	ctx context.Context, code domain.CouponCode, at time.Time,
) (domain.Sale, error) {
	args := m.Called(ctx, code, at)
	return args.Get(0).(domain.Sale), args.Error(1)
}

type MockBasketStore struct {
	mock.Mock
}

func (m *MockBasketStore) LoadBasket(
	ctx context.Context, basketID string,
) (domain.Basket, error) {
	args := m.Called(ctx, basketID)
	return args.Get(0).(domain.Basket), args.Error(1)
}

// UpdateBasket applies fn to a copy of the basket set up for basketID.
func (m *MockBasketStore) UpdateBasket(
	ctx context.Context, basketID string, fn func(*domain.Basket) error,
) (domain.Basket, error) {
	args := m.Called(ctx, basketID)
	if err := args.Error(1); err != nil {
		return domain.Basket{}, err
	}
	b := args.Get(0).(domain.Basket)
	b.Items = append([]domain.BasketItem(nil), b.Items...)
	if err := fn(&b); err != nil {
		return domain.Basket{}, err
	}
	return b, nil
}

func (m *MockBasketStore) DeleteBasket(ctx context.Context, basketID string) error {
	args := m.Called(ctx, basketID)
	return args.Error(0)
}

type MockCheckoutGateway struct {
	mock.Mock
}

func (m *MockCheckoutGateway) CreateSession(
	ctx context.Context, r domain.CheckoutRequest,
) (domain.CheckoutSession, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(domain.CheckoutSession), args.Error(1)
}

type MockOrdersProducer struct {
	mock.Mock
}

func (m *MockOrdersProducer) ProduceOrderLines(
	ctx context.Context, lines []domain.OrderLine,
) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

type MockSalesReader struct {
	mock.Mock
}

func (m *MockSalesReader) SoldUnits(productID string) (int, error) {
	args := m.Called(productID)
	return args.Int(0), args.Error(1)
}

type MockSalesProcessor struct {
	mock.Mock
}

func (m *MockSalesProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	defer wg.Done()
	m.Called(ctx)
}

func (m *MockSalesProcessor) Close() {
	m.Called()
}
