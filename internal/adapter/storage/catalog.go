package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogSource = (*CatalogRepository)(nil)

const selectProducts = `
	SELECT
		p.product_id, p.name, p.slug, p.image_url, p.description,
		p.price::text, p.stock,
		c.category_id, c.title, c.slug
	FROM products p
	LEFT JOIN product_categories pc ON pc.product_id = p.product_id
	LEFT JOIN categories c ON c.category_id = pc.category_id`

const orderProducts = `
	ORDER BY p.name ASC, p.product_id ASC, c.title ASC`

// A CatalogRepository reads the catalog from postgres.
type CatalogRepository struct {
	sqldb sqldb
}

func NewCatalogRepository(sqldb sqldb) CatalogRepository {
	return CatalogRepository{sqldb}
}

func (r CatalogRepository) AllProducts(
	ctx context.Context,
) ([]domain.Product, error) {
	const op = "CatalogRepository.AllProducts"

	ps, err := r.queryProducts(ctx, selectProducts+orderProducts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// SearchProductsByName matches each term against the start of a word
// of the product name, \m is the word start of postgres regexps.
func (r CatalogRepository) SearchProductsByName(
	ctx context.Context, terms []string,
) ([]domain.Product, error) {
	const op = "CatalogRepository.SearchProductsByName"

	if len(terms) == 0 {
		return []domain.Product{}, nil
	}

	conds := make([]string, 0, len(terms))
	args := make([]any, 0, len(terms))
	for i, term := range terms {
		conds = append(conds, fmt.Sprintf(`p.name ~* ('\m' || $%d)`, i+1))
		args = append(args, regexp.QuoteMeta(term))
	}

	q := selectProducts + `
	WHERE ` + strings.Join(conds, " AND ") + orderProducts

	ps, err := r.queryProducts(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r CatalogRepository) ProductBySlug(
	ctx context.Context, slug string,
) (domain.Product, error) {
	const op = "CatalogRepository.ProductBySlug"

	q := selectProducts + `
	WHERE p.slug = $1` + orderProducts

	p, err := r.queryProduct(ctx, q, slug)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r CatalogRepository) ProductByID(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "CatalogRepository.ProductByID"

	q := selectProducts + `
	WHERE p.product_id = $1` + orderProducts

	p, err := r.queryProduct(ctx, q, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r CatalogRepository) ProductsByCategory(
	ctx context.Context, slug string,
) ([]domain.Product, error) {
	const op = "CatalogRepository.ProductsByCategory"

	q := selectProducts + `
	WHERE p.product_id IN (
		SELECT fpc.product_id
		FROM product_categories fpc
		JOIN categories fc ON fc.category_id = fpc.category_id
		WHERE fc.slug = $1
	)` + orderProducts

	ps, err := r.queryProducts(ctx, q, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r CatalogRepository) AllCategories(
	ctx context.Context,
) ([]domain.Category, error) {
	const op = "CatalogRepository.AllCategories"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT category_id, title, slug, description
		FROM categories
		ORDER BY title ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	cs := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		err := rows.Scan(&c.CategoryID, &c.Title, &c.Slug, &c.Description)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cs = append(cs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cs, nil
}

func (r CatalogRepository) ActiveSaleByCouponCode(
	ctx context.Context, code domain.CouponCode, at time.Time,
) (domain.Sale, error) {
	const op = "CatalogRepository.ActiveSaleByCouponCode"

	if err := ctx.Err(); err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT
			sale_id, title, description, discount_amount,
			coupon_code, valid_from, valid_until, is_active
		FROM sales
		WHERE coupon_code = $1 AND is_active
			AND valid_from <= $2 AND valid_until >= $2
		ORDER BY valid_from DESC
		LIMIT 1;`

	var s domain.Sale
	var coupon string
	err := r.sqldb.QueryRowContext(ctx, query, string(code), at).Scan(
		&s.SaleID, &s.Title, &s.Description, &s.DiscountAmount,
		&coupon, &s.ValidFrom, &s.ValidUntil, &s.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Sale{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}
	s.CouponCode = domain.CouponCode(coupon)
	if err := s.Validate(); err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (r CatalogRepository) queryProduct(
	ctx context.Context, query string, args ...any,
) (domain.Product, error) {
	ps, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return domain.Product{}, err
	}
	if len(ps) == 0 {
		return domain.Product{}, domain.ErrNotFound
	}
	return ps[0], nil
}

// queryProducts folds product rows joined with their categories.
// Rows of one product must be adjacent.
func (r CatalogRepository) queryProducts(
	ctx context.Context, query string, args ...any,
) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ps := []domain.Product{}
	for rows.Next() {
		var (
			p                        domain.Product
			catID, catTitle, catSlug sql.NullString
		)
		err := rows.Scan(
			&p.ProductID, &p.Name, &p.Slug, &p.ImageURL, &p.Description,
			&p.Price, &p.Stock,
			&catID, &catTitle, &catSlug,
		)
		if err != nil {
			return nil, err
		}

		n := len(ps)
		if n == 0 || ps[n-1].ProductID != p.ProductID {
			ps = append(ps, p)
			n++
		}

		if catID.Valid {
			ps[n-1].Categories = append(ps[n-1].Categories, domain.CategoryRef{
				CategoryID: catID.String,
				Title:      catTitle.String,
				Slug:       catSlug.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ps, nil
}
