package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	Product struct {
		ProductID   string
		Name        string
		Slug        string
		ImageURL    string
		Description string
		Price       decimal.Decimal
		Stock       int
		Categories  []CategoryRef
	}

	CategoryRef struct {
		CategoryID string
		Title      string
		Slug       string
	}
)

// Validate reports whether the product can be sold.
func (p Product) Validate() error {
	const op = "Product.Validate"

	var problems []string
	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(p.Slug) == "" {
		problems = append(problems, "slug is required")
	}
	if p.Price.IsNegative() {
		problems = append(problems, "price must not be negative")
	}
	if p.Stock < 0 {
		problems = append(problems, "stock must not be negative")
	}

	if len(problems) != 0 {
		return fmt.Errorf(
			"%s: %w: %s", op, ErrInvalidProduct, strings.Join(problems, ", "),
		)
	}
	return nil
}
