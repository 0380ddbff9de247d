package httphandler

import (
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

type (
	Product struct {
		ProductID   string          `json:"product_id"`
		Name        string          `json:"name"`
		Slug        string          `json:"slug"`
		ImageURL    string          `json:"image_url,omitempty"`
		Description string          `json:"description,omitempty"`
		Price       decimal.Decimal `json:"price"`
		Stock       int             `json:"stock"`
		InStock     bool            `json:"in_stock"`
		Categories  []CategoryRef   `json:"categories"`
	}

	CategoryRef struct {
		CategoryID string `json:"category_id"`
		Title      string `json:"title"`
		Slug       string `json:"slug"`
	}

	Category struct {
		CategoryID  string `json:"category_id"`
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description,omitempty"`
	}

	SearchResult struct {
		Query    string    `json:"query"`
		Products []Product `json:"products"`
	}

	CategorySelection struct {
		Category Category `json:"category"`
		Redirect string   `json:"redirect"`
	}

	ProductSales struct {
		ProductID string `json:"product_id"`
		SoldUnits int    `json:"sold_units"`
	}

	Sale struct {
		SaleID         string    `json:"sale_id"`
		Title          string    `json:"title"`
		Description    string    `json:"description"`
		DiscountAmount float64   `json:"discount_amount"`
		CouponCode     string    `json:"coupon_code"`
		ValidFrom      time.Time `json:"valid_from"`
		ValidUntil     time.Time `json:"valid_until"`
		Summary        string    `json:"summary"`
	}

	BasketItem struct {
		Product  Product         `json:"product"`
		Quantity int             `json:"quantity"`
		Subtotal decimal.Decimal `json:"subtotal"`
	}

	Basket struct {
		BasketID   string          `json:"basket_id"`
		Items      []BasketItem    `json:"items"`
		ItemCount  int             `json:"item_count"`
		TotalPrice decimal.Decimal `json:"total_price"`
	}

	CheckoutSession struct {
		SessionID string `json:"session_id"`
		URL       string `json:"url"`
	}

	ErrorResponse struct {
		Error   string            `json:"error"`
		Details []ValidationError `json:"details,omitempty"`
	}

	ValidationError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
)

type (
	AddItemRequest struct {
		ProductID string `json:"product_id" validate:"required,max=128"`
	}

	CheckoutRequest struct {
		CustomerName  string `json:"customer_name" validate:"required,max=200"`
		CustomerEmail string `json:"customer_email" validate:"required,email"`
		UserID        string `json:"user_id" validate:"required,max=128"`
		OrderNumber   string `json:"order_number" validate:"omitempty,max=64"`
	}
)

func (r CheckoutRequest) toDomain() domain.CheckoutMetadata {
	return domain.CheckoutMetadata{
		OrderNumber:   r.OrderNumber,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		UserID:        r.UserID,
	}
}

func fromProduct(p domain.Product) Product {
	dto := Product{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Slug:        p.Slug,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		InStock:     p.Stock > 0,
		Categories:  make([]CategoryRef, 0, len(p.Categories)),
	}
	for _, c := range p.Categories {
		dto.Categories = append(dto.Categories, CategoryRef(c))
	}
	return dto
}

func fromProducts(ps []domain.Product) []Product {
	dtos := make([]Product, 0, len(ps))
	for _, p := range ps {
		dtos = append(dtos, fromProduct(p))
	}
	return dtos
}

func fromCategory(c domain.Category) Category {
	return Category(c)
}

func fromCategories(cs []domain.Category) []Category {
	dtos := make([]Category, 0, len(cs))
	for _, c := range cs {
		dtos = append(dtos, fromCategory(c))
	}
	return dtos
}

func fromSale(s domain.Sale) Sale {
	return Sale{
		SaleID:         s.SaleID,
		Title:          s.Title,
		Description:    s.Description,
		DiscountAmount: s.DiscountAmount,
		CouponCode:     string(s.CouponCode),
		ValidFrom:      s.ValidFrom,
		ValidUntil:     s.ValidUntil,
		Summary:        s.Summary(),
	}
}

func fromBasket(b domain.Basket) Basket {
	grouped := b.GroupedItems()
	dto := Basket{
		BasketID:   b.BasketID,
		Items:      make([]BasketItem, 0, len(grouped)),
		ItemCount:  b.TotalQuantity(),
		TotalPrice: b.TotalPrice(),
	}
	for _, item := range grouped {
		dto.Items = append(dto.Items, BasketItem{
			Product:  fromProduct(item.Product),
			Quantity: item.Quantity,
			Subtotal: item.Subtotal(),
		})
	}
	return dto
}
