package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testProduct(id string, stock int) domain.Product {
	return domain.Product{
		ProductID: id,
		Name:      "name-" + id,
		Slug:      "slug-" + id,
		Price:     decimal.RequireFromString("9.99"),
		Stock:     stock,
	}
}

func TestServiceListProducts(t *testing.T) {
	t.Run("Products", func(t *testing.T) {
		src := new(MockCatalogSource)
		ps := []domain.Product{testProduct("p1", 1), testProduct("p2", 1)}
		src.On("AllProducts", mock.Anything).Return(ps, nil)

		s := New(src, nil, nil, nil, nil, nil)
		got, err := s.ListProducts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, ps, got)
	})

	t.Run("EmptyIsNotNil", func(t *testing.T) {
		src := new(MockCatalogSource)
		src.On("AllProducts", mock.Anything).Return([]domain.Product(nil), nil)

		s := New(src, nil, nil, nil, nil, nil)
		got, err := s.ListProducts(t.Context())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("SourceError", func(t *testing.T) {
		src := new(MockCatalogSource)
		srcErr := errors.New("backend down")
		src.On("AllProducts", mock.Anything).Return([]domain.Product(nil), srcErr)

		s := New(src, nil, nil, nil, nil, nil)
		_, err := s.ListProducts(t.Context())
		assert.ErrorIs(t, err, srcErr)
	})
}

func TestServiceSearchProducts(t *testing.T) {
	t.Run("BlankQuery", func(t *testing.T) {
		src := new(MockCatalogSource)
		s := New(src, nil, nil, nil, nil, nil)

		got, err := s.SearchProducts(t.Context(), "   ")
		require.NoError(t, err)
		assert.Empty(t, got)
		src.AssertNotCalled(t, "SearchProductsByName", mock.Anything, mock.Anything)
	})

	t.Run("NoWords", func(t *testing.T) {
		src := new(MockCatalogSource)
		s := New(src, nil, nil, nil, nil, nil)

		got, err := s.SearchProducts(t.Context(), "%*")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		src.AssertNotCalled(t, "SearchProductsByName", mock.Anything, mock.Anything)
	})

	t.Run("Terms", func(t *testing.T) {
		src := new(MockCatalogSource)
		ps := []domain.Product{testProduct("p1", 1)}
		src.On("SearchProductsByName", mock.Anything, []string{"desk", "lamp"}).
			Return(ps, nil)

		s := New(src, nil, nil, nil, nil, nil)
		got, err := s.SearchProducts(t.Context(), " Desk lamp ")
		require.NoError(t, err)
		assert.Equal(t, ps, got)
	})
}

func TestServiceSelectCategory(t *testing.T) {
	src := new(MockCatalogSource)
	cs := []domain.Category{
		{CategoryID: "c1", Title: "Shoes", Slug: "shoes"},
		{CategoryID: "c2", Title: "Shirts", Slug: "shirts"},
	}
	src.On("AllCategories", mock.Anything).Return(cs, nil)

	s := New(src, nil, nil, nil, nil, nil)

	c, err := s.SelectCategory(t.Context(), "SHI")
	require.NoError(t, err)
	assert.Equal(t, "c2", c.CategoryID)

	_, err = s.SelectCategory(t.Context(), "hats")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// saleSchedule answers sale lookups like the content backends do:
// the latest started active sale whose period contains the time.
type saleSchedule struct {
	MockCatalogSource
	sales []domain.Sale
}

func (s *saleSchedule) ActiveSaleByCouponCode(
	_ context.Context, code domain.CouponCode, at time.Time,
) (domain.Sale, error) {
	var found *domain.Sale
	for i, sale := range s.sales {
		if sale.CouponCode != code || !sale.ActiveAt(at) {
			continue
		}
		if found == nil || sale.ValidFrom.After(found.ValidFrom) {
			found = &s.sales[i]
		}
	}
	if found == nil {
		return domain.Sale{}, domain.ErrNotFound
	}
	return *found, nil
}

func TestServiceActiveSale(t *testing.T) {
	now := time.Date(2024, 11, 30, 12, 0, 0, 0, time.UTC)
	sale := domain.Sale{
		SaleID:     "s1",
		Title:      "Black Friday",
		CouponCode: domain.CouponBlackFriday,
		ValidFrom:  now.Add(-24 * time.Hour),
		ValidUntil: now.Add(24 * time.Hour),
		IsActive:   true,
	}

	t.Run("Active", func(t *testing.T) {
		src := new(MockCatalogSource)
		src.On("ActiveSaleByCouponCode", mock.Anything, domain.CouponBlackFriday, now).
			Return(sale, nil)

		s := New(src, nil, nil, nil, nil, nil)
		s.now = func() time.Time { return now }

		got, err := s.ActiveSale(t.Context(), "bfriday")
		require.NoError(t, err)
		assert.Equal(t, sale, got)
		src.AssertExpectations(t)
	})

	t.Run("RunningBeforeScheduled", func(t *testing.T) {
		scheduled := sale
		scheduled.SaleID = "s2"
		scheduled.ValidFrom = now.Add(7 * 24 * time.Hour)
		scheduled.ValidUntil = now.Add(8 * 24 * time.Hour)
		src := &saleSchedule{sales: []domain.Sale{sale, scheduled}}

		s := New(src, nil, nil, nil, nil, nil)
		s.now = func() time.Time { return now }

		got, err := s.ActiveSale(t.Context(), "BFRIDAY")
		require.NoError(t, err)
		assert.Equal(t, "s1", got.SaleID)

		s.now = func() time.Time { return scheduled.ValidFrom.Add(time.Hour) }
		got, err = s.ActiveSale(t.Context(), "BFRIDAY")
		require.NoError(t, err)
		assert.Equal(t, "s2", got.SaleID)
	})

	t.Run("InactiveResult", func(t *testing.T) {
		inactive := sale
		inactive.IsActive = false
		src := new(MockCatalogSource)
		src.On("ActiveSaleByCouponCode", mock.Anything, domain.CouponBlackFriday, now).
			Return(inactive, nil)

		s := New(src, nil, nil, nil, nil, nil)
		s.now = func() time.Time { return now }

		_, err := s.ActiveSale(t.Context(), "BFRIDAY")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UnknownCoupon", func(t *testing.T) {
		src := new(MockCatalogSource)
		s := New(src, nil, nil, nil, nil, nil)

		_, err := s.ActiveSale(t.Context(), "FREE")
		assert.ErrorIs(t, err, domain.ErrInvalidCoupon)
		src.AssertNotCalled(t, "ActiveSaleByCouponCode",
			mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestServiceProductSales(t *testing.T) {
	t.Run("BrokerDisabled", func(t *testing.T) {
		s := New(new(MockCatalogSource), nil, nil, nil, nil, nil)
		_, err := s.ProductSales(t.Context(), "p1")
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		src := new(MockCatalogSource)
		src.On("ProductByID", mock.Anything, "p1").
			Return(domain.Product{}, domain.ErrNotFound)
		reader := new(MockSalesReader)

		s := New(src, nil, nil, nil, reader, nil)
		_, err := s.ProductSales(t.Context(), "p1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		reader.AssertNotCalled(t, "SoldUnits", mock.Anything)
	})

	t.Run("SoldUnits", func(t *testing.T) {
		src := new(MockCatalogSource)
		src.On("ProductByID", mock.Anything, "p1").Return(testProduct("p1", 1), nil)
		reader := new(MockSalesReader)
		reader.On("SoldUnits", "p1").Return(42, nil)

		s := New(src, nil, nil, nil, reader, nil)
		n, err := s.ProductSales(t.Context(), "p1")
		require.NoError(t, err)
		assert.Equal(t, 42, n)
	})
}

func TestServiceRunClose(t *testing.T) {
	proc := new(MockSalesProcessor)
	proc.On("Run", mock.Anything).Return()
	proc.On("Close").Return()

	s := New(nil, nil, nil, nil, nil, proc)
	s.Run(t.Context(), func() {})
	s.Close()

	proc.AssertExpectations(t)
}

func TestServiceListCategories(t *testing.T) {
	src := new(MockCatalogSource)
	src.On("AllCategories", mock.Anything).Return([]domain.Category(nil), nil)

	s := New(src, nil, nil, nil, nil, nil)
	got, err := s.ListCategories(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestServiceProductLookups(t *testing.T) {
	t.Run("BySlug", func(t *testing.T) {
		src := new(MockCatalogSource)
		src.On("ProductBySlug", mock.Anything, "slug-p1").Return(testProduct("p1", 1), nil)

		s := New(src, nil, nil, nil, nil, nil)
		p, err := s.ProductBySlug(t.Context(), "slug-p1")
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ProductID)
	})

	t.Run("ByIDNotFound", func(t *testing.T) {
		src := new(MockCatalogSource)
		src.On("ProductByID", mock.Anything, "p9").
			Return(domain.Product{}, domain.ErrNotFound)

		s := New(src, nil, nil, nil, nil, nil)
		_, err := s.ProductByID(t.Context(), "p9")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ByCategory", func(t *testing.T) {
		src := new(MockCatalogSource)
		src.On("ProductsByCategory", mock.Anything, "desks").
			Return([]domain.Product(nil), nil)

		s := New(src, nil, nil, nil, nil, nil)
		ps, err := s.ProductsByCategory(t.Context(), "desks")
		require.NoError(t, err)
		assert.NotNil(t, ps)
	})
}
