// Package storage defines persistence contracts for kniffel games.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/game"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage/filter"
)

var (
	// ErrNotFound indicates a requested game record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a game with the same id is already stored.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrConflict indicates the stored version moved past the expected one.
	ErrConflict = errors.New("record version conflict")
)

// GameRecord stores one persisted game and its optimistic-lock version.
type GameRecord struct {
	Snapshot  game.Snapshot
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ID returns the game id of the record.
func (r GameRecord) ID() string { return r.Snapshot.ID }

// FilterFields projects the record onto the fields list filters understand.
func (r GameRecord) FilterFields() filter.Fields {
	names := make([]string, len(r.Snapshot.Players))
	for i, p := range r.Snapshot.Players {
		names[i] = p.Name
	}
	return filter.Fields{
		Phase:         r.Snapshot.Phase,
		CurrentPlayer: r.Snapshot.CurrentPlayer,
		RollRound:     int64(r.Snapshot.RollRound),
		Players:       names,
		CreatedAt:     r.CreatedAt,
	}
}

// GamePage stores one page of game records ordered by game id.
type GamePage struct {
	Games         []GameRecord
	NextPageToken string
}

// GameStore persists game records.
type GameStore interface {
	// CreateGame inserts record at version 1.
	CreateGame(ctx context.Context, record GameRecord) (GameRecord, error)
	GetGame(ctx context.Context, gameID string) (GameRecord, error)
	// UpdateGame replaces the stored game when its version equals
	// expectedVersion and returns the record at the next version.
	UpdateGame(ctx context.Context, record GameRecord, expectedVersion int64) (GameRecord, error)
	ListGames(ctx context.Context, pageSize int, pageToken string, cond filter.Condition) (GamePage, error)
	Close() error
}
