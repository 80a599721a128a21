// Package kniffel parses game server flags and launches the service.
package kniffel

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/kniffel/internal/platform/cmd"
	server "github.com/louisbranch/kniffel/internal/services/kniffel/app"
)

// Config holds game server command configuration.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"GRPC_ADDR" envDefault:":8081"`
	Storage  string `env:"STORAGE"   envDefault:"sqlite"`
	DBPath   string `env:"DB_PATH"   envDefault:"data/kniffel.db"`
	Seed     string `env:"SEED"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP API listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC health listen address")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Game storage: sqlite or memory")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.Seed, "seed", cfg.Seed, "Fixed dice seed (random when empty)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceKniffel, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			HTTPAddr: cfg.HTTPAddr,
			GRPCAddr: cfg.GRPCAddr,
			Storage:  cfg.Storage,
			DBPath:   cfg.DBPath,
			Seed:     cfg.Seed,
		})
	})
}
