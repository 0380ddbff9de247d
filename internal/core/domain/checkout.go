package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutMetadata struct {
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	UserID        string
}

type CheckoutRequest struct {
	Metadata CheckoutMetadata
	Items    []BasketItem
}

type CheckoutSession struct {
	SessionID string
	URL       string
}

// An OrderLine is a basket line flattened with its order metadata.
type OrderLine struct {
	OrderNumber string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	UserID      string
	CreatedAt   time.Time
}

func NewOrderLines(
	m CheckoutMetadata, items []BasketItem, createdAt time.Time,
) []OrderLine {
	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLine{
			OrderNumber: m.OrderNumber,
			ProductID:   item.Product.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Price,
			UserID:      m.UserID,
			CreatedAt:   createdAt,
		})
	}
	return lines
}

// ExpandOrderURL substitutes the order number placeholder in
// success and cancel URL templates.
func ExpandOrderURL(template, orderNumber string) string {
	return strings.ReplaceAll(template, "{ORDER_NUMBER}", orderNumber)
}

// MinorUnits converts a price to the smallest currency unit, e.g. cents.
func MinorUnits(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}
