package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/louisbranch/ucp.shop/internal/services/commerce/app"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/order"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/storage/sqlite"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestEngine(t *testing.T) *app.Engine {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "commerce.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})

	engine, err := app.NewEngine(context.Background(), store, app.Config{
		Seller: order.Seller{Name: "UCP Shop", Domain: "ucp.shop"},
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestNewRegistersModules(t *testing.T) {
	t.Parallel()

	server, err := New(newTestEngine(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if server.mcpServer == nil {
		t.Fatal("New() mcpServer is nil")
	}
}

func TestNewRequiresEngine(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) error = nil, want error")
	}
}

func TestAddMCPToolRejectsUnknownHandler(t *testing.T) {
	t.Parallel()

	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0.0.0"}, nil)
	err := addMCPTool(server, &mcp.Tool{Name: "bogus"}, func() {})
	if err == nil {
		t.Fatal("addMCPTool() error = nil, want error for unsupported handler")
	}
}

func TestRunRejectsUnknownTransport(t *testing.T) {
	t.Parallel()

	server, err := New(newTestEngine(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := server.Run(context.Background(), Config{Transport: "carrier-pigeon"}); err == nil {
		t.Fatal("Run() error = nil, want error for unknown transport")
	}
}
