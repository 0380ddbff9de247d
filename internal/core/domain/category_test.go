package domain_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectCategory(t *testing.T) {
	categories := []domain.Category{
		{CategoryID: "c1", Title: "Laptops", Slug: "laptops"},
		{CategoryID: "c0", Title: "Drafts"},
		{CategoryID: "c2", Title: "Gaming Laptops", Slug: "gaming-laptops"},
		{CategoryID: "c3", Title: "Phones", Slug: "phones"},
	}

	tests := []struct {
		name   string
		query  string
		wantID string
		path   string
	}{
		{"FirstMatchWins", "laptop", "c1", "/categories/laptops"},
		{"IgnoresCase", "PHONES", "c3", "/categories/phones"},
		{"Substring", "ming", "c2", "/categories/gaming-laptops"},
		{"EmptyQueryMatchesFirst", "", "c1", "/categories/laptops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := domain.SelectCategory(categories, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, c.CategoryID)
			assert.Equal(t, tt.path, c.Path())
		})
	}

	t.Run("NoSlugNotSelectable", func(t *testing.T) {
		_, err := domain.SelectCategory(categories, "drafts")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("FirstMatchWithoutSlugStops", func(t *testing.T) {
		cs := []domain.Category{
			{CategoryID: "c1", Title: "Laptops"},
			{CategoryID: "c2", Title: "Gaming Laptops", Slug: "gaming-laptops"},
		}
		_, err := domain.SelectCategory(cs, "laptop")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("QueryNotTrimmed", func(t *testing.T) {
		_, err := domain.SelectCategory(categories, " phones")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("NoMatch", func(t *testing.T) {
		_, err := domain.SelectCategory(categories, "tablets")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
