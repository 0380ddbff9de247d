package sanity

import (
	"context"
	"fmt"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.CatalogSource = (*CatalogSource)(nil)

const productProjection = `{
	"id": _id,
	name,
	"slug": slug.current,
	"imageUrl": image.asset->url,
	"description": pt::text(description),
	price,
	stock,
	"categories": categories[]->{"id": _id, title, "slug": slug.current}
}`

const (
	allProductsQuery = `*[_type == "product"] | order(name asc) ` +
		productProjection

	searchProductsQuery = `*[_type == "product" && name match $searchParam] | order(name asc) ` +
		productProjection

	productBySlugQuery = `*[_type == "product" && slug.current == $slug] | order(name asc) [0] ` +
		productProjection

	productByIDQuery = `*[_type == "product" && _id == $id][0] ` +
		productProjection

	productsByCategoryQuery = `*[_type == "product" && references(*[_type == "category" && slug.current == $categorySlug]._id)] | order(name asc) ` +
		productProjection

	allCategoriesQuery = `*[_type == "category"] | order(title asc) {
	"id": _id, title, "slug": slug.current, description
}`

	activeSaleQuery = `*[_type == "sale" && isActive == true && couponCode == $couponCode && dateTime(validFrom) <= dateTime($now) && dateTime(validUntil) >= dateTime($now)] | order(validFrom desc) [0] {
	"id": _id, title, description, discountAmount, couponCode, validFrom, validUntil, isActive
}`
)

type (
	productDoc struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Slug        string          `json:"slug"`
		ImageURL    string          `json:"imageUrl"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		Stock       int             `json:"stock"`
		Categories  []categoryDoc   `json:"categories"`
	}

	categoryDoc struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}

	saleDoc struct {
		ID             string    `json:"id"`
		Title          string    `json:"title"`
		Description    string    `json:"description"`
		DiscountAmount float64   `json:"discountAmount"`
		CouponCode     string    `json:"couponCode"`
		ValidFrom      time.Time `json:"validFrom"`
		ValidUntil     time.Time `json:"validUntil"`
		IsActive       bool      `json:"isActive"`
	}
)

type querier interface {
	Query(ctx context.Context, query string, params map[string]any, v any) (bool, error)
}

// A CatalogSource maps content documents to the catalog domain.
type CatalogSource struct {
	q querier
}

func NewCatalogSource(q querier) CatalogSource {
	return CatalogSource{q}
}

func (s CatalogSource) AllProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "CatalogSource.AllProducts"
	ps, err := s.products(ctx, allProductsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// SearchProductsByName passes one wildcard pattern per term, GROQ
// match requires all of them to prefix a word of the name.
func (s CatalogSource) SearchProductsByName(
	ctx context.Context, terms []string,
) ([]domain.Product, error) {
	const op = "CatalogSource.SearchProductsByName"

	if len(terms) == 0 {
		return []domain.Product{}, nil
	}

	patterns := make([]string, 0, len(terms))
	for _, term := range terms {
		patterns = append(patterns, term+"*")
	}
	ps, err := s.products(ctx, searchProductsQuery, map[string]any{
		"searchParam": patterns,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s CatalogSource) ProductBySlug(
	ctx context.Context, slug string,
) (domain.Product, error) {
	const op = "CatalogSource.ProductBySlug"
	p, err := s.product(ctx, productBySlugQuery, map[string]any{"slug": slug})
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s CatalogSource) ProductByID(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "CatalogSource.ProductByID"
	p, err := s.product(ctx, productByIDQuery, map[string]any{"id": productID})
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s CatalogSource) ProductsByCategory(
	ctx context.Context, slug string,
) ([]domain.Product, error) {
	const op = "CatalogSource.ProductsByCategory"
	ps, err := s.products(ctx, productsByCategoryQuery, map[string]any{
		"categorySlug": slug,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s CatalogSource) AllCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "CatalogSource.AllCategories"

	var docs []categoryDoc
	if _, err := s.q.Query(ctx, allCategoriesQuery, nil, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cs := make([]domain.Category, 0, len(docs))
	for _, d := range docs {
		cs = append(cs, domain.Category{
			CategoryID:  d.ID,
			Title:       d.Title,
			Slug:        d.Slug,
			Description: d.Description,
		})
	}
	return cs, nil
}

func (s CatalogSource) ActiveSaleByCouponCode(
	ctx context.Context, code domain.CouponCode, at time.Time,
) (domain.Sale, error) {
	const op = "CatalogSource.ActiveSaleByCouponCode"

	var d saleDoc
	found, err := s.q.Query(ctx, activeSaleQuery, map[string]any{
		"couponCode": string(code),
		"now":        at.UTC().Format(time.RFC3339),
	}, &d)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	sale := domain.Sale{
		SaleID:         d.ID,
		Title:          d.Title,
		Description:    d.Description,
		DiscountAmount: d.DiscountAmount,
		CouponCode:     domain.CouponCode(d.CouponCode),
		ValidFrom:      d.ValidFrom,
		ValidUntil:     d.ValidUntil,
		IsActive:       d.IsActive,
	}
	if err := sale.Validate(); err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}
	return sale, nil
}

func (s CatalogSource) products(
	ctx context.Context, query string, params map[string]any,
) ([]domain.Product, error) {
	var docs []productDoc
	if _, err := s.q.Query(ctx, query, params, &docs); err != nil {
		return nil, err
	}

	ps := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		ps = append(ps, d.toDomain())
	}
	return ps, nil
}

func (s CatalogSource) product(
	ctx context.Context, query string, params map[string]any,
) (domain.Product, error) {
	var d productDoc
	found, err := s.q.Query(ctx, query, params, &d)
	if err != nil {
		return domain.Product{}, err
	}
	if !found {
		return domain.Product{}, domain.ErrNotFound
	}
	return d.toDomain(), nil
}

func (d productDoc) toDomain() domain.Product {
	p := domain.Product{
		ProductID:   d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		ImageURL:    d.ImageURL,
		Description: d.Description,
		Price:       d.Price,
		Stock:       d.Stock,
	}
	for _, c := range d.Categories {
		p.Categories = append(p.Categories, domain.CategoryRef{
			CategoryID: c.ID,
			Title:      c.Title,
			Slug:       c.Slug,
		})
	}
	return p
}
