package port

import (
	"context"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// Inbound ports

type Catalog interface {
	ListProducts(context.Context) ([]domain.Product, error)
	ListCategories(context.Context) ([]domain.Category, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	ProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	ProductByID(ctx context.Context, productID string) (domain.Product, error)
	ProductsByCategory(ctx context.Context, slug string) ([]domain.Product, error)
	SelectCategory(ctx context.Context, query string) (domain.Category, error)
	ProductSales(ctx context.Context, productID string) (int, error)
}

type Sales interface {
	ActiveSale(ctx context.Context, couponCode string) (domain.Sale, error)
}

type Baskets interface {
	Basket(ctx context.Context, basketID string) (domain.Basket, error)
	AddToBasket(ctx context.Context, basketID, productID string) (domain.Basket, error)
	RemoveFromBasket(ctx context.Context, basketID, productID string) (domain.Basket, error)
	ClearBasket(ctx context.Context, basketID string) error
}

type Checkout interface {
	Checkout(
		ctx context.Context, basketID string, m domain.CheckoutMetadata,
	) (domain.CheckoutSession, error)
}

// Outbound ports

// A CatalogSource is the headless content backend.
//
// List methods return an empty slice and no error when nothing matches.
type CatalogSource interface {
	AllProducts(context.Context) ([]domain.Product, error)
	AllCategories(context.Context) ([]domain.Category, error)
	// SearchProductsByName returns products where every term prefixes
	// a word of the name, ignoring case. See [domain.SearchTerms].
	SearchProductsByName(ctx context.Context, terms []string) ([]domain.Product, error)
	ProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	ProductByID(ctx context.Context, productID string) (domain.Product, error)
	ProductsByCategory(ctx context.Context, slug string) ([]domain.Product, error)
	// ActiveSaleByCouponCode returns the latest started active sale
	// whose validity period contains at.
	ActiveSaleByCouponCode(
		ctx context.Context, code domain.CouponCode, at time.Time,
	) (domain.Sale, error)
}

// A BasketStore keeps baskets by id, an unknown id is an empty basket.
//
// UpdateBasket applies fn to the stored basket atomically. The basket is
// saved only when fn returns nil, an empty result deletes it.
type BasketStore interface {
	LoadBasket(ctx context.Context, basketID string) (domain.Basket, error)
	UpdateBasket(
		ctx context.Context, basketID string, fn func(*domain.Basket) error,
	) (domain.Basket, error)
	DeleteBasket(ctx context.Context, basketID string) error
}

type CheckoutGateway interface {
	CreateSession(context.Context, domain.CheckoutRequest) (domain.CheckoutSession, error)
}

type OrdersProducer interface {
	ProduceOrderLines(context.Context, []domain.OrderLine) error
}

type ProductSalesReader interface {
	SoldUnits(productID string) (int, error)
}

type ProductSalesProcessor interface {
	runnerContextWg
	closer
}
