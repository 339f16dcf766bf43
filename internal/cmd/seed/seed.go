// Package seed loads a product catalog into a local database.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/louisbranch/ucp.shop/internal/platform/config"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/app"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/catalog"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	StorePath string `env:"UCP_SHOP_DB_PATH" envDefault:"commerce.db"`
	// CatalogPath points at an external catalog JSON file. Empty selects the
	// built-in catalog.
	CatalogPath string `env:"UCP_SHOP_CATALOG_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.StorePath, "store", cfg.StorePath, "sqlite database path")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "catalog JSON file (default: built-in catalog)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run seeds the catalog into the configured database.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	store, err := sqlite.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if cfg.CatalogPath != "" {
		data, err := os.ReadFile(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		products, err := catalog.Parse(data)
		if err != nil {
			return err
		}
		if err := app.SeedProducts(ctx, store, products); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	} else if err := app.SeedCatalog(ctx, store); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	count, err := store.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	fmt.Fprintf(out, "seeded catalog: %d products in %s\n", count, cfg.StorePath)
	return nil
}
