package domain

import (
	"strings"
	"unicode"
)

// SearchTerms splits a product search query into lower case words.
//
// A product matches when every term is a prefix of some word of its
// name, so "lap" finds "Gaming Laptop" and "top" does not.
func SearchTerms(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
