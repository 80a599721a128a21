// Package play parses hot-seat flags and runs a terminal game.
package play

import (
	"context"
	"flag"
	"os"
	"strings"

	entrypoint "github.com/louisbranch/kniffel/internal/platform/cmd"
	"github.com/louisbranch/kniffel/internal/platform/random"
	"github.com/louisbranch/kniffel/internal/services/kniffel/dice"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/game"
	"github.com/louisbranch/kniffel/internal/services/kniffel/terminal"
)

// Config holds terminal game configuration.
type Config struct {
	Players []string
	Seed    string `env:"SEED"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	players := fs.String("players", "player1,player2", "Comma separated player names in turn order")
	fs.StringVar(&cfg.Seed, "seed", cfg.Seed, "Fixed dice seed (random when empty)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	for _, name := range strings.Split(*players, ",") {
		if name = strings.TrimSpace(name); name != "" {
			cfg.Players = append(cfg.Players, name)
		}
	}
	return cfg, nil
}

// Run plays one hot-seat game in the terminal.
func Run(ctx context.Context, cfg Config) error {
	return run(ctx, cfg, terminal.InteractivePrompter{})
}

func run(ctx context.Context, cfg Config, prompter terminal.Prompter) error {
	seed, _, err := random.ResolveSeed(cfg.Seed)
	if err != nil {
		return err
	}
	g, err := game.New(cfg.Players, dice.NewSeeded(seed), nil)
	if err != nil {
		return err
	}
	return terminal.Play(ctx, g, prompter, os.Stdout)
}
