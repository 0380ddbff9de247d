package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type BasketItem struct {
	Product  Product
	Quantity int
}

// Subtotal is the line price: unit price times quantity.
func (i BasketItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// A Basket holds the products a customer selected before checkout.
//
// Lines are unique by product and keep insertion order.
type Basket struct {
	BasketID string
	Items    []BasketItem
}

func NewBasket(basketID string) Basket {
	return Basket{BasketID: basketID}
}

// Add puts one unit of the product into the basket.
func (b *Basket) Add(p Product) error {
	const op = "Basket.Add"

	if err := p.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	idx := b.indexOf(p.ProductID)
	quantity := 1
	if idx >= 0 {
		quantity = b.Items[idx].Quantity + 1
	}

	if quantity > p.Stock {
		return fmt.Errorf(
			"%s: %w: %q has %d in stock",
			op, ErrInsufficientStock, p.ProductID, p.Stock,
		)
	}

	if idx < 0 {
		b.Items = append(b.Items, BasketItem{Product: p, Quantity: quantity})
		return nil
	}

	// refresh product data, price may have changed since the line was added
	b.Items[idx] = BasketItem{Product: p, Quantity: quantity}
	return nil
}

// Remove takes one unit of the product out of the basket.
// The line is dropped when its last unit is removed.
func (b *Basket) Remove(productID string) {
	idx := b.indexOf(productID)
	if idx < 0 {
		return
	}

	if b.Items[idx].Quantity > 1 {
		b.Items[idx].Quantity--
		return
	}

	b.Items = append(b.Items[:idx], b.Items[idx+1:]...)
}

func (b *Basket) Clear() {
	b.Items = nil
}

func (b Basket) IsEmpty() bool {
	return len(b.Items) == 0
}

func (b Basket) ItemCount(productID string) int {
	idx := b.indexOf(productID)
	if idx < 0 {
		return 0
	}
	return b.Items[idx].Quantity
}

func (b Basket) TotalQuantity() (n int) {
	for _, item := range b.Items {
		n += item.Quantity
	}
	return n
}

func (b Basket) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// GroupedItems returns a copy of the basket lines.
func (b Basket) GroupedItems() []BasketItem {
	items := make([]BasketItem, len(b.Items))
	copy(items, b.Items)
	return items
}

func (b Basket) indexOf(productID string) int {
	for i := range b.Items {
		if b.Items[i].Product.ProductID == productID {
			return i
		}
	}
	return -1
}
