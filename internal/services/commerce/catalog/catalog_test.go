package catalog

import (
	"testing"

	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/product"
)

func TestDefaultCatalogLoads(t *testing.T) {
	t.Parallel()

	products, err := Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(products) == 0 {
		t.Fatal("expected a non-empty catalog")
	}

	seen := make(map[string]struct{})
	for _, p := range products {
		if p.ID == "" {
			t.Fatalf("product %q has no id", p.Name)
		}
		if p.Price <= 0 {
			t.Fatalf("product %s has non-positive price %d", p.ID, p.Price)
		}
		if _, ok := seen[p.ID]; ok {
			t.Fatalf("duplicate product id %s", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
}

func TestDefaultCatalogIncludesCookies(t *testing.T) {
	t.Parallel()

	products, err := Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	matched := product.Search(products, "Cookies")
	if len(matched) == 0 {
		t.Fatal("expected at least one cookie product")
	}
}
