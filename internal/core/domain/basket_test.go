package domain_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id, price string, stock int) domain.Product {
	return domain.Product{
		ProductID: id,
		Name:      "name-" + id,
		Slug:      "slug-" + id,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
	}
}

func TestBasketAdd(t *testing.T) {
	t.Run("NewLine", func(t *testing.T) {
		b := domain.NewBasket("b1")
		require.NoError(t, b.Add(testProduct("p1", "10.50", 3)))

		require.Len(t, b.Items, 1)
		assert.Equal(t, 1, b.ItemCount("p1"))
	})

	t.Run("IncrementExisting", func(t *testing.T) {
		b := domain.NewBasket("b1")
		p := testProduct("p1", "10.50", 3)
		require.NoError(t, b.Add(p))
		require.NoError(t, b.Add(p))

		require.Len(t, b.Items, 1)
		assert.Equal(t, 2, b.ItemCount("p1"))
	})

	t.Run("StockExceeded", func(t *testing.T) {
		b := domain.NewBasket("b1")
		p := testProduct("p1", "10.50", 1)
		require.NoError(t, b.Add(p))

		err := b.Add(p)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 1, b.ItemCount("p1"))
	})

	t.Run("OutOfStock", func(t *testing.T) {
		b := domain.NewBasket("b1")
		err := b.Add(testProduct("p1", "1", 0))
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.True(t, b.IsEmpty())
	})

	t.Run("InvalidProduct", func(t *testing.T) {
		b := domain.NewBasket("b1")
		p := testProduct("p1", "-1", 5)
		err := b.Add(p)
		assert.ErrorIs(t, err, domain.ErrInvalidProduct)
		assert.True(t, b.IsEmpty())
	})

	t.Run("KeepsInsertionOrder", func(t *testing.T) {
		b := domain.NewBasket("b1")
		require.NoError(t, b.Add(testProduct("p2", "1", 5)))
		require.NoError(t, b.Add(testProduct("p1", "1", 5)))
		require.NoError(t, b.Add(testProduct("p2", "1", 5)))

		items := b.GroupedItems()
		require.Len(t, items, 2)
		assert.Equal(t, "p2", items[0].Product.ProductID)
		assert.Equal(t, "p1", items[1].Product.ProductID)
	})
}

func TestBasketRemove(t *testing.T) {
	t.Run("Decrement", func(t *testing.T) {
		b := domain.NewBasket("b1")
		p := testProduct("p1", "2", 5)
		require.NoError(t, b.Add(p))
		require.NoError(t, b.Add(p))

		b.Remove("p1")
		assert.Equal(t, 1, b.ItemCount("p1"))
	})

	t.Run("DropLastUnit", func(t *testing.T) {
		b := domain.NewBasket("b1")
		require.NoError(t, b.Add(testProduct("p1", "2", 5)))
		require.NoError(t, b.Add(testProduct("p2", "2", 5)))

		b.Remove("p1")
		assert.Equal(t, 0, b.ItemCount("p1"))
		require.Len(t, b.Items, 1)
		assert.Equal(t, "p2", b.Items[0].Product.ProductID)
	})

	t.Run("Unknown", func(t *testing.T) {
		b := domain.NewBasket("b1")
		require.NoError(t, b.Add(testProduct("p1", "2", 5)))

		b.Remove("unknown")
		assert.Equal(t, 1, b.TotalQuantity())
	})

	t.Run("AddThenRemoveIsEmpty", func(t *testing.T) {
		b := domain.NewBasket("b1")
		require.NoError(t, b.Add(testProduct("p1", "2", 5)))
		b.Remove("p1")
		assert.True(t, b.IsEmpty())
	})
}

func TestBasketTotals(t *testing.T) {
	b := domain.NewBasket("b1")
	a := testProduct("a", "19.99", 10)
	c := testProduct("c", "0.10", 10)

	require.NoError(t, b.Add(a))
	require.NoError(t, b.Add(a))
	for range 3 {
		require.NoError(t, b.Add(c))
	}

	assert.Equal(t, 5, b.TotalQuantity())
	assert.True(
		t,
		decimal.RequireFromString("40.28").Equal(b.TotalPrice()),
		"got %s", b.TotalPrice(),
	)

	b.Clear()
	assert.True(t, b.IsEmpty())
	assert.True(t, b.TotalPrice().IsZero())
}

func TestBasketGroupedItemsIsCopy(t *testing.T) {
	b := domain.NewBasket("b1")
	require.NoError(t, b.Add(testProduct("p1", "1", 5)))

	items := b.GroupedItems()
	items[0].Quantity = 100

	assert.Equal(t, 1, b.ItemCount("p1"))
}
