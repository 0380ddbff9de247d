package domain_test

import (
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSale() domain.Sale {
	return domain.Sale{
		SaleID:         "s1",
		Title:          "Black Friday",
		Description:    "Everything must go",
		DiscountAmount: 30,
		CouponCode:     domain.CouponBlackFriday,
		ValidFrom:      time.Date(2024, 11, 29, 0, 0, 0, 0, time.UTC),
		ValidUntil:     time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
}

func TestParseCouponCode(t *testing.T) {
	code, err := domain.ParseCouponCode(" bfriday ")
	require.NoError(t, err)
	assert.Equal(t, domain.CouponBlackFriday, code)

	_, err = domain.ParseCouponCode("FREESTUFF")
	assert.ErrorIs(t, err, domain.ErrInvalidCoupon)
}

func TestSaleActiveAt(t *testing.T) {
	s := testSale()

	assert.True(t, s.ActiveAt(s.ValidFrom))
	assert.True(t, s.ActiveAt(s.ValidUntil))
	assert.True(t, s.ActiveAt(s.ValidFrom.Add(time.Hour)))
	assert.False(t, s.ActiveAt(s.ValidFrom.Add(-time.Second)))
	assert.False(t, s.ActiveAt(s.ValidUntil.Add(time.Second)))

	s.IsActive = false
	assert.False(t, s.ActiveAt(s.ValidFrom.Add(time.Hour)))
}

func TestSaleValidate(t *testing.T) {
	require.NoError(t, testSale().Validate())

	t.Run("ShortTitle", func(t *testing.T) {
		s := testSale()
		s.Title = "BF"
		assert.ErrorIs(t, s.Validate(), domain.ErrInvalidSale)
	})

	t.Run("NegativeDiscount", func(t *testing.T) {
		s := testSale()
		s.DiscountAmount = -1
		assert.ErrorIs(t, s.Validate(), domain.ErrInvalidSale)
	})

	t.Run("ReversedPeriod", func(t *testing.T) {
		s := testSale()
		s.ValidFrom, s.ValidUntil = s.ValidUntil, s.ValidFrom
		assert.ErrorIs(t, s.Validate(), domain.ErrInvalidSale)
	})
}

func TestSaleSummary(t *testing.T) {
	s := testSale()
	assert.Equal(t, "30% off - Code: BFRIDAY - Active", s.Summary())
}
