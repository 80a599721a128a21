package play

import (
	"context"
	"errors"
	"flag"
	"reflect"
	"testing"

	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/game"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/scoring"
	"github.com/louisbranch/kniffel/internal/services/kniffel/terminal"
)

func TestParseConfigPlayers(t *testing.T) {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-players", " ann, ,bob ", "-seed", "3"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !reflect.DeepEqual(cfg.Players, []string{"ann", "bob"}) {
		t.Fatalf("players = %v", cfg.Players)
	}
	if cfg.Seed != "3" {
		t.Fatalf("seed = %q, want 3", cfg.Seed)
	}
}

func TestParseConfigDefaultPlayers(t *testing.T) {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if len(cfg.Players) != 2 {
		t.Fatalf("players = %v, want two defaults", cfg.Players)
	}
}

type stopPrompter struct{ err error }

func (p stopPrompter) ChooseKeep(string, scoring.Hand, int) ([]int, bool, error) {
	return nil, false, nil
}

func (p stopPrompter) ChooseCategory(string, scoring.Hand, []terminal.Option) (scoring.Category, error) {
	return 0, p.err
}

func TestRunRejectsInvalidPlayers(t *testing.T) {
	err := run(context.Background(), Config{Players: []string{"ann", "ann"}, Seed: "1"}, stopPrompter{})
	if !errors.Is(err, game.ErrInvalidPlayerList) {
		t.Fatalf("err = %v, want ErrInvalidPlayerList", err)
	}
}

func TestRunSurfacesPromptErrors(t *testing.T) {
	quit := errors.New("quit")
	err := run(context.Background(), Config{Players: []string{"ann"}, Seed: "1"}, stopPrompter{err: quit})
	if !errors.Is(err, quit) {
		t.Fatalf("err = %v, want %v", err, quit)
	}
}
