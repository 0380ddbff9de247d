package domain

import (
	"fmt"
	"strings"
)

const categoriesPathPrefix = "/categories/"

type Category struct {
	CategoryID  string
	Title       string
	Slug        string
	Description string
}

// Path is the storefront location of the category products page.
func (c Category) Path() string {
	return categoriesPathPrefix + c.Slug
}

// SelectCategory returns the first category whose title contains
// the query, ignoring case. When that category has no slug there is
// nowhere to navigate and nothing is selected.
func SelectCategory(categories []Category, query string) (Category, error) {
	const op = "SelectCategory"

	q := strings.ToLower(query)
	for _, c := range categories {
		if !strings.Contains(strings.ToLower(c.Title), q) {
			continue
		}
		if c.Slug == "" {
			return Category{}, fmt.Errorf(
				"%s: %w: category %q has no slug", op, ErrNotFound, c.CategoryID,
			)
		}
		return c, nil
	}
	return Category{}, fmt.Errorf("%s: %w", op, ErrNotFound)
}
