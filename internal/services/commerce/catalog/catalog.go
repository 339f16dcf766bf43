// Package catalog loads the built-in product catalog.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/product"
)

//go:embed products.json
var productsJSON []byte

type productEntry struct {
	ProductID   string   `json:"product_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Price       int64    `json:"price"`
	ImageURLs   []string `json:"image_urls"`
}

// Default returns the built-in catalog in file order.
func Default() ([]product.Product, error) {
	return Parse(productsJSON)
}

// Parse decodes a JSON catalog file into products in file order.
func Parse(data []byte) ([]product.Product, error) {
	var entries []productEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]product.Product, 0, len(entries))
	for _, entry := range entries {
		if entry.ProductID == "" {
			return nil, fmt.Errorf("catalog entry %q has no product id", entry.Name)
		}
		products = append(products, product.Product{
			ID:          entry.ProductID,
			Name:        entry.Name,
			Description: entry.Description,
			Category:    entry.Category,
			Brand:       entry.Brand,
			Price:       entry.Price,
			ImageURLs:   entry.ImageURLs,
		})
	}
	return products, nil
}
