package config

import "testing"

type sampleConfig struct {
	Addr  string `env:"UCP_SHOP_TEST_ADDR" envDefault:"localhost:7000"`
	Token string `env:"UCP_SHOP_TEST_TOKEN"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg sampleConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "localhost:7000" {
		t.Fatalf("addr = %q, want default", cfg.Addr)
	}
}

func TestParseEnvReadsValues(t *testing.T) {
	t.Setenv("UCP_SHOP_TEST_ADDR", "example.com:9000")
	t.Setenv("UCP_SHOP_TEST_TOKEN", "secret")

	var cfg sampleConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "example.com:9000" {
		t.Fatalf("addr = %q, want env override", cfg.Addr)
	}
	if cfg.Token != "secret" {
		t.Fatalf("token = %q, want env value", cfg.Token)
	}
}
