package mcp

import (
	"flag"
	"reflect"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.StorePath != "commerce.db" {
		t.Fatalf("expected default store path, got %q", cfg.StorePath)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
	if cfg.HTTPAddr != "localhost:8081" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.SellerName != "UCP Shop" {
		t.Fatalf("expected default seller name, got %q", cfg.SellerName)
	}
	if cfg.SellerDomain != "ucp.shop" {
		t.Fatalf("expected default seller domain, got %q", cfg.SellerDomain)
	}
}

func TestParseConfigEnvAndFlagOverrides(t *testing.T) {
	t.Setenv("UCP_SHOP_DB_PATH", "env.db")
	t.Setenv("UCP_SHOP_MCP_HTTP_ADDR", "env-host:9000")
	t.Setenv("UCP_SHOP_MCP_AUTH_TOKEN", "env-token")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	args := []string{"-store", "flag.db", "-transport", "http", "-http-addr", "flag-host:9001"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.StorePath != "flag.db" {
		t.Fatalf("expected flag store path, got %q", cfg.StorePath)
	}
	if cfg.Transport != "http" {
		t.Fatalf("expected transport http, got %q", cfg.Transport)
	}
	if cfg.HTTPAddr != "flag-host:9001" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.AuthToken != "env-token" {
		t.Fatalf("expected env auth token, got %q", cfg.AuthToken)
	}
}

func TestSplitHosts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  []string
	}{
		{"", nil},
		{"  ", nil},
		{"shop.example.com", []string{"shop.example.com"}},
		{"a.example.com, b.example.com ,,", []string{"a.example.com", "b.example.com"}},
	}
	for _, tt := range tests {
		if got := splitHosts(tt.value); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitHosts(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
