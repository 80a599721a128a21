package terminal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/louisbranch/kniffel/internal/services/kniffel/dice"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/game"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/scoring"
)

// scriptedPrompter holds fixed keeps per turn and books the first open option.
type scriptedPrompter struct {
	keeps      [][]int
	keepCalls  int
	bookCalls  int
	firstBook  *scoring.Category
	failOnBook error
}

func (p *scriptedPrompter) ChooseKeep(_ string, _ scoring.Hand, _ int) ([]int, bool, error) {
	if p.keepCalls >= len(p.keeps) {
		return nil, false, nil
	}
	keep := p.keeps[p.keepCalls]
	p.keepCalls++
	return keep, true, nil
}

func (p *scriptedPrompter) ChooseCategory(_ string, _ scoring.Hand, options []Option) (scoring.Category, error) {
	if p.failOnBook != nil {
		return 0, p.failOnBook
	}
	p.bookCalls++
	if p.firstBook != nil {
		c := *p.firstBook
		p.firstBook = nil
		return c, nil
	}
	return options[0].Category, nil
}

func newGame(t *testing.T, names ...string) *game.Game {
	t.Helper()
	g, err := game.New(names, dice.NewScripted(6, 6, 6, 6, 6), func() (string, error) { return "t1", nil })
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func TestPlayRunsGameToTheEnd(t *testing.T) {
	t.Parallel()

	g := newGame(t, "ann", "bob")
	prompter := &scriptedPrompter{}
	var out bytes.Buffer

	if err := Play(context.Background(), g, prompter, &out); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !g.Ended() {
		t.Fatal("expected game to end")
	}
	if prompter.bookCalls != 2*scoring.CategoryCount {
		t.Fatalf("book calls = %d, want %d", prompter.bookCalls, 2*scoring.CategoryCount)
	}
	text := out.String()
	for _, want := range []string{"FINAL STANDINGS", "ann", "bob", "Winner: ann, bob"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q", want)
		}
	}
}

func TestPlayRetriesRejectedMoves(t *testing.T) {
	t.Parallel()

	g := newGame(t, "solo")
	chance := scoring.Chance
	prompter := &scriptedPrompter{
		keeps: [][]int{{1}, {6, 6}},
	}
	var out bytes.Buffer

	// First turn: keep [1] is rejected, keep [6,6] rerolls, then book.
	if err := playTurn(g, prompter, &out); err != nil {
		t.Fatalf("play turn: %v", err)
	}
	if g.RollRound() != 1 || g.Players()[0].UsedCount() != 1 {
		t.Fatalf("after turn: round %d used %d", g.RollRound(), g.Players()[0].UsedCount())
	}
	if !strings.Contains(out.String(), "face not available") {
		t.Fatalf("expected rejection message, got %q", out.String())
	}

	prompter.firstBook = &chance
	if err := playTurn(g, prompter, &out); err != nil {
		t.Fatalf("second turn: %v", err)
	}
	prompter.firstBook = &chance
	prompter.bookCalls = 0
	if err := playTurn(g, prompter, &out); err != nil {
		t.Fatalf("third turn: %v", err)
	}
	if prompter.bookCalls != 2 {
		t.Fatalf("book calls = %d, want a retry after the used category", prompter.bookCalls)
	}
}

func TestPlayStopsOnPromptError(t *testing.T) {
	t.Parallel()

	g := newGame(t, "ann")
	boom := errors.New("interrupted")
	err := Play(context.Background(), g, &scriptedPrompter{failOnBook: boom}, &bytes.Buffer{})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestPlayHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Play(ctx, newGame(t, "ann"), &scriptedPrompter{}, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestOptionsFollowScorecardOrder(t *testing.T) {
	t.Parallel()

	g := newGame(t, "ann")
	opts := Options(g)
	if len(opts) != scoring.CategoryCount {
		t.Fatalf("options = %d, want %d", len(opts), scoring.CategoryCount)
	}
	if opts[0].Category != scoring.Ones || opts[len(opts)-1].Category != scoring.Chance {
		t.Fatalf("options order = %v .. %v", opts[0].Category, opts[len(opts)-1].Category)
	}
	if got := opts[5].Label(); got != "SIXES (30)" {
		t.Fatalf("label = %q, want SIXES (30)", got)
	}
}

func TestScoreboardMarksCurrentPlayer(t *testing.T) {
	t.Parallel()

	board := Scoreboard(newGame(t, "ann", "bob"))
	if !strings.Contains(board, "> ann") || strings.Contains(board, "> bob") {
		t.Fatalf("scoreboard = %q", board)
	}
}
