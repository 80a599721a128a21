// Package storagetest holds the behaviour every storage.GameStore must share.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/game"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage/filter"
)

// NewStoreFunc returns an empty store owned by t.
type NewStoreFunc func(t *testing.T) storage.GameStore

// Record builds a two-seat record with deterministic content.
func Record(id string, created time.Time, names ...string) storage.GameRecord {
	if len(names) == 0 {
		names = []string{"ann", "bob"}
	}
	players := make([]game.PlayerSnapshot, len(names))
	for i, name := range names {
		players[i] = game.PlayerSnapshot{Name: name}
	}
	return storage.GameRecord{
		Snapshot: game.Snapshot{
			ID:            id,
			RollRound:     1,
			Phase:         "Roll",
			Dice:          "1,2,3,4,5",
			CurrentPlayer: names[0],
			Players:       players,
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// Run exercises a GameStore implementation.
func Run(t *testing.T, newStore NewStoreFunc) {
	t.Helper()

	base := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("create and get round trip", func(t *testing.T) {
		store := newStore(t)
		input := Record("g-1", base, "ann", "bob", "cy")
		input.Snapshot.Players[1].Score = 25
		input.Snapshot.Players[1].UsedCategories = "FULL_HOUSE"

		created, err := store.CreateGame(ctx, input)
		if err != nil {
			t.Fatalf("create game: %v", err)
		}
		if created.Version != 1 {
			t.Fatalf("created version = %d, want 1", created.Version)
		}

		got, err := store.GetGame(ctx, "g-1")
		if err != nil {
			t.Fatalf("get game: %v", err)
		}
		if got.Version != 1 {
			t.Fatalf("version = %d, want 1", got.Version)
		}
		if !got.CreatedAt.Equal(base) {
			t.Fatalf("created_at = %v, want %v", got.CreatedAt, base)
		}
		if err := sameSnapshot(got.Snapshot, input.Snapshot); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("duplicate create", func(t *testing.T) {
		store := newStore(t)
		if _, err := store.CreateGame(ctx, Record("g-1", base)); err != nil {
			t.Fatalf("create game: %v", err)
		}
		_, err := store.CreateGame(ctx, Record("g-1", base))
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Fatalf("err = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("missing game", func(t *testing.T) {
		store := newStore(t)
		if _, err := store.GetGame(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		if _, err := store.UpdateGame(ctx, Record("nope", base), 1); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("update err = %v, want ErrNotFound", err)
		}
	})

	t.Run("update bumps version", func(t *testing.T) {
		store := newStore(t)
		created, err := store.CreateGame(ctx, Record("g-1", base))
		if err != nil {
			t.Fatalf("create game: %v", err)
		}

		next := created
		next.Snapshot.Phase = "Book"
		next.Snapshot.RollRound = 3
		next.Snapshot.Dice = "6,6,6,6,6"
		next.Snapshot.Players[0].Score = 30
		next.Snapshot.Players[0].UsedCategories = "SIXES"
		next.UpdatedAt = base.Add(time.Minute)

		updated, err := store.UpdateGame(ctx, next, created.Version)
		if err != nil {
			t.Fatalf("update game: %v", err)
		}
		if updated.Version != 2 {
			t.Fatalf("updated version = %d, want 2", updated.Version)
		}

		got, err := store.GetGame(ctx, "g-1")
		if err != nil {
			t.Fatalf("get game: %v", err)
		}
		if got.Version != 2 {
			t.Fatalf("stored version = %d, want 2", got.Version)
		}
		if !got.UpdatedAt.Equal(base.Add(time.Minute)) {
			t.Fatalf("updated_at = %v, want %v", got.UpdatedAt, base.Add(time.Minute))
		}
		if !got.CreatedAt.Equal(base) {
			t.Fatalf("created_at = %v, want %v", got.CreatedAt, base)
		}
		if err := sameSnapshot(got.Snapshot, next.Snapshot); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("stale update conflicts", func(t *testing.T) {
		store := newStore(t)
		created, err := store.CreateGame(ctx, Record("g-1", base))
		if err != nil {
			t.Fatalf("create game: %v", err)
		}
		if _, err := store.UpdateGame(ctx, created, created.Version); err != nil {
			t.Fatalf("first update: %v", err)
		}
		stale := created
		stale.Snapshot.Dice = "2,2,2,2,2"
		if _, err := store.UpdateGame(ctx, stale, created.Version); !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("err = %v, want ErrConflict", err)
		}
		got, err := store.GetGame(ctx, "g-1")
		if err != nil {
			t.Fatalf("get game: %v", err)
		}
		if got.Snapshot.Dice != "1,2,3,4,5" {
			t.Fatalf("stale write leaked: dice = %q", got.Snapshot.Dice)
		}
	})

	t.Run("list pages in id order", func(t *testing.T) {
		store := newStore(t)
		for i := 5; i >= 1; i-- {
			if _, err := store.CreateGame(ctx, Record(fmt.Sprintf("g-%d", i), base)); err != nil {
				t.Fatalf("create game %d: %v", i, err)
			}
		}

		first, err := store.ListGames(ctx, 2, "", filter.Condition{})
		if err != nil {
			t.Fatalf("list first page: %v", err)
		}
		if ids(first) != "g-1,g-2" || first.NextPageToken != "g-2" {
			t.Fatalf("first page = %s next %q", ids(first), first.NextPageToken)
		}
		if len(first.Games[0].Snapshot.Players) != 2 {
			t.Fatalf("expected roster on listed game, got %d players", len(first.Games[0].Snapshot.Players))
		}

		second, err := store.ListGames(ctx, 2, first.NextPageToken, filter.Condition{})
		if err != nil {
			t.Fatalf("list second page: %v", err)
		}
		if ids(second) != "g-3,g-4" || second.NextPageToken != "g-4" {
			t.Fatalf("second page = %s next %q", ids(second), second.NextPageToken)
		}

		last, err := store.ListGames(ctx, 2, second.NextPageToken, filter.Condition{})
		if err != nil {
			t.Fatalf("list last page: %v", err)
		}
		if ids(last) != "g-5" || last.NextPageToken != "" {
			t.Fatalf("last page = %s next %q", ids(last), last.NextPageToken)
		}

		if _, err := store.ListGames(ctx, 0, "", filter.Condition{}); err == nil {
			t.Fatal("expected page size error")
		}
	})

	t.Run("list applies filters", func(t *testing.T) {
		store := newStore(t)
		a := Record("g-a", base, "ann", "bob")
		b := Record("g-b", base.Add(time.Hour), "cy", "dee")
		b.Snapshot.Phase = "Ended"
		c := Record("g-c", base.Add(2*time.Hour), "bob", "eve")
		c.Snapshot.RollRound = 3
		c.Snapshot.Phase = "Book"
		for _, r := range []storage.GameRecord{a, b, c} {
			if _, err := store.CreateGame(ctx, r); err != nil {
				t.Fatalf("create %s: %v", r.ID(), err)
			}
		}

		tests := []struct {
			filter string
			want   string
		}{
			{filter: `player = "bob"`, want: "g-a,g-c"},
			{filter: `phase = "ENDED"`, want: "g-b"},
			{filter: `NOT phase = "ENDED"`, want: "g-a,g-c"},
			{filter: `roll_round >= 2`, want: "g-c"},
			{filter: `current_player = "cy" OR current_player = "bob"`, want: "g-b,g-c"},
			{filter: `created_at > timestamp("2026-03-14T09:30:00Z")`, want: "g-b,g-c"},
			{filter: `player = "bob" AND phase = "ROLL"`, want: "g-a"},
		}
		for _, tt := range tests {
			cond, err := filter.Parse(tt.filter)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.filter, err)
			}
			page, err := store.ListGames(ctx, 10, "", cond)
			if err != nil {
				t.Fatalf("list %q: %v", tt.filter, err)
			}
			if got := ids(page); got != tt.want {
				t.Fatalf("filter %q = %s, want %s", tt.filter, got, tt.want)
			}
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		store := newStore(t)
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := store.GetGame(cancelled, "g-1"); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	})
}

func ids(page storage.GamePage) string {
	out := ""
	for i, g := range page.Games {
		if i > 0 {
			out += ","
		}
		out += g.ID()
	}
	return out
}

func sameSnapshot(got, want game.Snapshot) error {
	if got.ID != want.ID || got.RollRound != want.RollRound || got.Phase != want.Phase ||
		got.Dice != want.Dice || got.CurrentPlayer != want.CurrentPlayer {
		return fmt.Errorf("snapshot = %+v, want %+v", got, want)
	}
	if len(got.Players) != len(want.Players) {
		return fmt.Errorf("players = %+v, want %+v", got.Players, want.Players)
	}
	for i := range want.Players {
		if got.Players[i] != want.Players[i] {
			return fmt.Errorf("player %d = %+v, want %+v", i, got.Players[i], want.Players[i])
		}
	}
	return nil
}
