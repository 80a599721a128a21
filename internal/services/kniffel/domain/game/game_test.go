package game

import (
	"errors"
	"testing"

	"github.com/louisbranch/kniffel/internal/services/kniffel/dice"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/scoring"
)

func fixedID(value string) func() (string, error) {
	return func() (string, error) { return value, nil }
}

func newTestGame(t *testing.T, names []string, faces ...int) *Game {
	t.Helper()
	g, err := New(names, dice.NewScripted(faces...), fixedID("game-1"))
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func TestNewGameStartsRolling(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"ann", "bob"}, 3, 1, 4, 1, 5)

	if g.ID() != "game-1" {
		t.Fatalf("ID() = %q, want game-1", g.ID())
	}
	if g.Phase() != PhaseRolling {
		t.Fatalf("Phase() = %s, want Roll", g.Phase())
	}
	if g.RollRound() != 1 {
		t.Fatalf("RollRound() = %d, want 1", g.RollRound())
	}
	if want := (scoring.Hand{1, 1, 3, 4, 5}); g.Dice() != want {
		t.Fatalf("Dice() = %v, want %v", g.Dice(), want)
	}
	current, err := g.CurrentPlayer()
	if err != nil {
		t.Fatalf("current player: %v", err)
	}
	if current.Name() != "ann" {
		t.Fatalf("current player = %q, want ann", current.Name())
	}
}

func TestNewGameWithSeededDice(t *testing.T) {
	t.Parallel()

	g, err := New([]string{"ann", "bob"}, dice.NewSeeded(99), nil)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if len(g.ID()) != 26 {
		t.Fatalf("expected generated id, got %q", g.ID())
	}
	for i, d := range g.Dice() {
		if d < 1 || d > 6 {
			t.Fatalf("die %d = %d, want 1..6", i, d)
		}
		if i > 0 && g.Dice()[i-1] > d {
			t.Fatalf("dice not sorted: %v", g.Dice())
		}
	}
}

func TestNewGameRejectsInvalidPlayerLists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		names []string
	}{
		{name: "nil", names: nil},
		{name: "empty", names: []string{}},
		{name: "blank", names: []string{"ann", "  "}},
		{name: "duplicate", names: []string{"ann", "bob", "ann"}},
		{name: "duplicate after trim", names: []string{"ann", " ann "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.names, dice.NewScripted(1), fixedID("x"))
			if !errors.Is(err, ErrInvalidPlayerList) {
				t.Fatalf("err = %v, want ErrInvalidPlayerList", err)
			}
		})
	}
}

func TestNewGameRequiresSource(t *testing.T) {
	t.Parallel()

	if _, err := New([]string{"ann"}, nil, fixedID("x")); err == nil {
		t.Fatal("expected error for missing dice source")
	}
}

func TestNewGamePropagatesIDError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := New([]string{"ann"}, dice.NewScripted(1), func() (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestRerollKeepsRequestedFaces(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"ann", "bob"}, 2, 2, 3, 4, 5, 6, 6, 6)

	if err := g.Reroll([]int{2, 2}); err != nil {
		t.Fatalf("reroll: %v", err)
	}
	if want := (scoring.Hand{2, 2, 6, 6, 6}); g.Dice() != want {
		t.Fatalf("Dice() = %v, want %v", g.Dice(), want)
	}
	if g.RollRound() != 2 {
		t.Fatalf("RollRound() = %d, want 2", g.RollRound())
	}
	if g.Phase() != PhaseRolling {
		t.Fatalf("Phase() = %s, want Roll", g.Phase())
	}
}

func TestRerollRejectsInvalidSelections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		keep []int
	}{
		{name: "more copies than present", keep: []int{2, 2, 2}},
		{name: "face not in hand", keep: []int{6}},
		{name: "face out of range", keep: []int{0}},
		{name: "too many dice", keep: []int{2, 2, 3, 4, 5, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newTestGame(t, []string{"ann"}, 2, 2, 3, 4, 5)
			before := g.Snapshot()

			err := g.Reroll(tt.keep)
			if !errors.Is(err, ErrInvalidDiceSelection) {
				t.Fatalf("err = %v, want ErrInvalidDiceSelection", err)
			}
			if after := g.Snapshot(); !snapshotsEqual(before, after) {
				t.Fatalf("game mutated on rejected reroll: %+v -> %+v", before, after)
			}
		})
	}
}

func TestThirdRollMovesToBooking(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"ann", "bob"}, 1, 2, 3, 4, 5, 6)

	if err := g.Reroll([]int{1, 2, 3, 4, 5}); err != nil {
		t.Fatalf("second roll: %v", err)
	}
	if g.Phase() != PhaseRolling {
		t.Fatalf("Phase() after second roll = %s, want Roll", g.Phase())
	}
	if err := g.Reroll(nil); err != nil {
		t.Fatalf("third roll: %v", err)
	}
	if g.Phase() != PhaseBooking {
		t.Fatalf("Phase() after third roll = %s, want Book", g.Phase())
	}
	if g.RollRound() != MaxRolls {
		t.Fatalf("RollRound() = %d, want %d", g.RollRound(), MaxRolls)
	}

	err := g.Reroll(nil)
	if !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("reroll in Booking err = %v, want ErrInvalidPhase", err)
	}
}

func TestBookFromBookingEndsTurn(t *testing.T) {
	t.Parallel()

	// Opening roll, two rerolls of everything, then bob's opening roll.
	g := newTestGame(t, []string{"ann", "bob"},
		1, 1, 1, 1, 1,
		5, 5, 5, 5, 5,
		6, 6, 6, 2, 2,
		4, 4, 4, 4, 4,
	)
	mustReroll(t, g, nil)
	mustReroll(t, g, nil)
	if g.Phase() != PhaseBooking {
		t.Fatalf("Phase() = %s, want Book", g.Phase())
	}

	if err := g.Book(scoring.FullHouse); err != nil {
		t.Fatalf("book: %v", err)
	}

	ann := g.Players()[0]
	if ann.Score() != 25 {
		t.Fatalf("ann score = %d, want 25", ann.Score())
	}
	if !ann.HasUsed(scoring.FullHouse) {
		t.Fatal("expected FULL_HOUSE to be used")
	}
	current, _ := g.CurrentPlayer()
	if current.Name() != "bob" {
		t.Fatalf("current player = %q, want bob", current.Name())
	}
	if g.Phase() != PhaseRolling || g.RollRound() != 1 {
		t.Fatalf("phase/round = %s/%d, want Roll/1", g.Phase(), g.RollRound())
	}
	if want := (scoring.Hand{4, 4, 4, 4, 4}); g.Dice() != want {
		t.Fatalf("Dice() = %v, want %v", g.Dice(), want)
	}
}

func TestBookFromRollingEndsTurn(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"ann", "bob"}, 6, 6, 6, 6, 6, 1, 2, 3, 4, 5)

	if err := g.Book(scoring.Kniffel); err != nil {
		t.Fatalf("book: %v", err)
	}
	players := g.Players()
	if players[0].Score() != 50 {
		t.Fatalf("ann score = %d, want 50", players[0].Score())
	}
	current, _ := g.CurrentPlayer()
	if current.Name() != "bob" {
		t.Fatalf("current player = %q, want bob", current.Name())
	}
	if g.Phase() != PhaseRolling || g.RollRound() != 1 {
		t.Fatalf("phase/round = %s/%d, want Roll/1", g.Phase(), g.RollRound())
	}
	if want := (scoring.Hand{1, 2, 3, 4, 5}); g.Dice() != want {
		t.Fatalf("Dice() = %v, want %v", g.Dice(), want)
	}
}

func TestBookUsedCategoryLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"ann"}, 3, 3, 3, 3, 3)
	if err := g.Book(scoring.Chance); err != nil {
		t.Fatalf("first book: %v", err)
	}
	before := g.Snapshot()

	err := g.Book(scoring.Chance)
	if !errors.Is(err, ErrCategoryAlreadyUsed) {
		t.Fatalf("err = %v, want ErrCategoryAlreadyUsed", err)
	}
	if after := g.Snapshot(); !snapshotsEqual(before, after) {
		t.Fatalf("game mutated on rejected booking: %+v -> %+v", before, after)
	}
	ann := g.Players()[0]
	if ann.Score() != 15 || ann.UsedCount() != 1 {
		t.Fatalf("ann = score %d used %d, want 15 and 1", ann.Score(), ann.UsedCount())
	}
}

func TestBookRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"ann"}, 1, 2, 3, 4, 5)
	if err := g.Book(scoring.Category(42)); !errors.Is(err, scoring.ErrInvalidCategory) {
		t.Fatalf("err = %v, want ErrInvalidCategory", err)
	}
}

func TestBookReportsMissingCurrentPlayer(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"ann"}, 1, 2, 3, 4, 5)
	g.current = 3

	if err := g.Book(scoring.Chance); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestGameEndsAfterLastPlayersFinalBooking(t *testing.T) {
	t.Parallel()

	for _, names := range [][]string{{"ann"}, {"ann", "bob"}, {"ann", "bob", "cy"}} {
		g, err := New(names, dice.NewSeeded(int64(len(names))), fixedID("g"))
		if err != nil {
			t.Fatalf("new game: %v", err)
		}
		lastScores := make([]int, len(names))

		for round := range scoring.CategoryCount {
			for seat := range names {
				if g.Ended() {
					t.Fatalf("%d players: ended early at round %d seat %d", len(names), round, seat)
				}
				current, _ := g.CurrentPlayer()
				if current.Name() != names[seat] {
					t.Fatalf("round %d: current = %q, want %q", round, current.Name(), names[seat])
				}
				if err := g.Book(current.OpenCategories()[0]); err != nil {
					t.Fatalf("round %d seat %d book: %v", round, seat, err)
				}
				for i, p := range g.Players() {
					if p.Score() < lastScores[i] {
						t.Fatalf("score of %s decreased", p.Name())
					}
					lastScores[i] = p.Score()
					if p.UsedCount() > scoring.CategoryCount {
						t.Fatalf("%s used %d categories", p.Name(), p.UsedCount())
					}
				}
			}
		}

		if g.Phase() != PhaseEnded {
			t.Fatalf("%d players: Phase() = %s, want Ended", len(names), g.Phase())
		}
		if err := g.Reroll(nil); !errors.Is(err, ErrInvalidPhase) {
			t.Fatalf("reroll after end err = %v, want ErrInvalidPhase", err)
		}
		if err := g.Book(scoring.Chance); !errors.Is(err, ErrInvalidPhase) {
			t.Fatalf("book after end err = %v, want ErrInvalidPhase", err)
		}
		for _, p := range g.Players() {
			if !p.Finished() {
				t.Fatalf("%s not finished", p.Name())
			}
		}
	}
}

func TestWinnersReportsTies(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"ann", "bob", "cy"}, 1, 1, 1, 1, 1)
	g.players[0].score = 10
	g.players[1].score = 30
	g.players[2].score = 30

	winners := g.Winners()
	if len(winners) != 2 || winners[0].Name() != "bob" || winners[1].Name() != "cy" {
		t.Fatalf("Winners() = %v, want bob and cy", winners)
	}
}

func TestPreviewUsesOpenCategories(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"ann"}, 2, 3, 4, 5, 6, 2, 3, 4, 5, 6)
	if got := g.Preview()[scoring.LargeStraight]; got != 40 {
		t.Fatalf("preview LARGE_STRAIGHT = %d, want 40", got)
	}
	if err := g.Book(scoring.LargeStraight); err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, ok := g.Preview()[scoring.LargeStraight]; ok {
		t.Fatal("expected booked category to be absent from preview")
	}
}

func mustReroll(t *testing.T, g *Game, keep []int) {
	t.Helper()
	if err := g.Reroll(keep); err != nil {
		t.Fatalf("reroll %v: %v", keep, err)
	}
}

func snapshotsEqual(a, b Snapshot) bool {
	if a.ID != b.ID || a.RollRound != b.RollRound || a.Phase != b.Phase || a.Dice != b.Dice || a.CurrentPlayer != b.CurrentPlayer {
		return false
	}
	if len(a.Players) != len(b.Players) {
		return false
	}
	for i := range a.Players {
		if a.Players[i] != b.Players[i] {
			return false
		}
	}
	return true
}
