package domain_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestSearchTerms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"SingleWord", "Lap", []string{"lap"}},
		{"Words", "  Oak   Desk ", []string{"oak", "desk"}},
		{"Punctuation", "oak-desk, 50%", []string{"oak", "desk", "50"}},
		{"Unicode", "Stühle", []string{"stühle"}},
		{"Blank", "   ", nil},
		{"OnlyPunctuation", "%_*", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.SearchTerms(tt.query)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
