// Package mcp parses MCP command flags and serves the kniffel tools on stdio.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"

	entrypoint "github.com/louisbranch/kniffel/internal/platform/cmd"
	"github.com/louisbranch/kniffel/internal/platform/random"
	mcpapi "github.com/louisbranch/kniffel/internal/services/kniffel/api/mcp"
	server "github.com/louisbranch/kniffel/internal/services/kniffel/app"
	"github.com/louisbranch/kniffel/internal/services/kniffel/dice"
	"github.com/louisbranch/kniffel/internal/services/kniffel/service"
)

// Config holds MCP command configuration.
type Config struct {
	Storage string `env:"STORAGE" envDefault:"sqlite"`
	DBPath  string `env:"DB_PATH" envDefault:"data/kniffel.db"`
	Seed    string `env:"SEED"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Game storage: sqlite or memory")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.Seed, "seed", cfg.Seed, "Fixed dice seed (random when empty)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		srv, closeStore, err := newServer(cfg)
		if err != nil {
			return err
		}
		defer closeStore()
		return srv.Serve(ctx)
	})
}

func newServer(cfg Config) (*mcpapi.Server, func(), error) {
	seed, _, err := random.ResolveSeed(cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	store, err := server.OpenStore(cfg.Storage, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			log.Printf("close kniffel store: %v", err)
		}
	}
	srv, err := mcpapi.NewServer(service.NewService(store, dice.NewSeeded(seed)))
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("init MCP server: %w", err)
	}
	return srv, closeStore, nil
}
