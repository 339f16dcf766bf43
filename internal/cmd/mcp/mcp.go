// Package mcp parses MCP command flags and runs the shopping MCP server.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/ucp.shop/internal/platform/config"
	"github.com/louisbranch/ucp.shop/internal/platform/otel"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/app"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/order"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/storage/sqlite"
	"github.com/louisbranch/ucp.shop/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	StorePath    string `env:"UCP_SHOP_DB_PATH"           envDefault:"commerce.db"`
	Transport    string `env:"UCP_SHOP_MCP_TRANSPORT"     envDefault:"stdio"`
	HTTPAddr     string `env:"UCP_SHOP_MCP_HTTP_ADDR"     envDefault:"localhost:8081"`
	AllowedHosts string `env:"UCP_SHOP_MCP_ALLOWED_HOSTS"`
	AuthToken    string `env:"UCP_SHOP_MCP_AUTH_TOKEN"`
	SellerName   string `env:"UCP_SHOP_SELLER_NAME"       envDefault:"UCP Shop"`
	SellerDomain string `env:"UCP_SHOP_SELLER_DOMAIN"     envDefault:"ucp.shop"`
	// TaxRateBP and ShippingFlat are pricing overrides in basis points and
	// minor units. Zero selects the engine defaults.
	TaxRateBP    int64 `env:"UCP_SHOP_TAX_RATE_BP"`
	ShippingFlat int64 `env:"UCP_SHOP_SHIPPING_FLAT"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.StorePath, "store", cfg.StorePath, "sqlite database path")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP shopping server.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	engine, err := app.NewEngine(ctx, store, app.Config{
		Seller:             order.Seller{Name: cfg.SellerName, Domain: cfg.SellerDomain},
		TaxRateBasisPoints: cfg.TaxRateBP,
		ShippingFlatRate:   cfg.ShippingFlat,
	})
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	server, err := service.New(engine)
	if err != nil {
		return fmt.Errorf("init MCP server: %w", err)
	}

	return server.Run(ctx, service.Config{
		Transport:    service.TransportKind(cfg.Transport),
		HTTPAddr:     cfg.HTTPAddr,
		AllowedHosts: splitHosts(cfg.AllowedHosts),
		AuthToken:    cfg.AuthToken,
	})
}

func splitHosts(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	hosts := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			hosts = append(hosts, trimmed)
		}
	}
	return hosts
}
