package mcp

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Storage != "sqlite" || cfg.DBPath != "data/kniffel.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("KNIFFEL_DB_PATH", "env.db")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-storage", "memory", "-seed", "9"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Storage != "memory" || cfg.Seed != "9" || cfg.DBPath != "env.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestNewServerMemory(t *testing.T) {
	srv, closeStore, err := newServer(Config{Storage: "memory", Seed: "1"})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer closeStore()
	if srv == nil {
		t.Fatal("expected server")
	}
}

func TestNewServerRejectsBadInput(t *testing.T) {
	if _, _, err := newServer(Config{Storage: "memory", Seed: "x"}); err == nil {
		t.Fatal("expected error for bad seed")
	}
	if _, _, err := newServer(Config{Storage: "redis"}); err == nil {
		t.Fatal("expected error for unknown storage")
	}
}
