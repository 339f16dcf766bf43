// Package product defines catalog products and keyword matching.
package product

import (
	"strings"

	"golang.org/x/text/cases"
)

// Product is a single catalog entry. Prices are integer minor currency
// units. Products are immutable once the catalog is loaded.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Brand       string
	Price       int64
	ImageURLs   []string
}

var foldCaser = cases.Fold()

// Matches reports whether the product matches the keyword query.
//
// Every whitespace-separated token must appear as a case-folded substring
// of the name, description, category, or brand. An empty query matches
// every product.
func (p Product) Matches(query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return true
	}

	haystack := foldCaser.String(p.Name + " " + p.Description + " " + p.Category + " " + p.Brand)
	for _, token := range tokens {
		if !strings.Contains(haystack, foldCaser.String(token)) {
			return false
		}
	}
	return true
}

// Search filters products by query, preserving the input order. An empty
// query returns all products.
func Search(products []Product, query string) []Product {
	if len(strings.Fields(query)) == 0 {
		return products
	}

	var matched []Product
	for _, p := range products {
		if p.Matches(query) {
			matched = append(matched, p)
		}
	}
	return matched
}
