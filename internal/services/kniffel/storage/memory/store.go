// Package memory provides an in-process game store for tests and throwaway
// servers.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/kniffel/internal/services/kniffel/storage"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage/filter"
)

// Store keeps game records in a map guarded by a RWMutex.
type Store struct {
	mu    sync.RWMutex
	games map[string]storage.GameRecord
	now   func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		games: make(map[string]storage.GameRecord),
		now:   time.Now,
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// CreateGame stores record at version 1.
func (s *Store) CreateGame(ctx context.Context, record storage.GameRecord) (storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRecord{}, err
	}
	id := strings.TrimSpace(record.ID())
	if id == "" {
		return storage.GameRecord{}, fmt.Errorf("game id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; ok {
		return storage.GameRecord{}, storage.ErrAlreadyExists
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}
	record.Version = 1
	s.games[id] = clone(record)
	return clone(record), nil
}

// GetGame returns a copy of the stored game.
func (s *Store) GetGame(ctx context.Context, gameID string) (storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.games[strings.TrimSpace(gameID)]
	if !ok {
		return storage.GameRecord{}, storage.ErrNotFound
	}
	return clone(record), nil
}

// UpdateGame replaces the game when expectedVersion is current.
func (s *Store) UpdateGame(ctx context.Context, record storage.GameRecord, expectedVersion int64) (storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.games[record.ID()]
	if !ok {
		return storage.GameRecord{}, storage.ErrNotFound
	}
	if current.Version != expectedVersion {
		return storage.GameRecord{}, storage.ErrConflict
	}
	record.Version = expectedVersion + 1
	record.CreatedAt = current.CreatedAt
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = s.now().UTC()
	}
	s.games[record.ID()] = clone(record)
	return clone(record), nil
}

// ListGames returns games ordered by id that satisfy cond.
func (s *Store) ListGames(ctx context.Context, pageSize int, pageToken string, cond filter.Condition) (storage.GamePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.GamePage{}, err
	}
	if pageSize <= 0 {
		return storage.GamePage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	s.mu.RLock()
	ids := make([]string, 0, len(s.games))
	for id, record := range s.games {
		if pageToken != "" && id <= pageToken {
			continue
		}
		if !cond.Matches(record.FilterFields()) {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	page := storage.GamePage{Games: make([]storage.GameRecord, 0, min(pageSize, len(ids)))}
	for _, id := range ids {
		if len(page.Games) == pageSize {
			page.NextPageToken = page.Games[pageSize-1].ID()
			break
		}
		page.Games = append(page.Games, clone(s.games[id]))
	}
	s.mu.RUnlock()
	return page, nil
}

func clone(record storage.GameRecord) storage.GameRecord {
	record.Snapshot.Players = slices.Clone(record.Snapshot.Players)
	return record
}

var _ storage.GameStore = (*Store)(nil)
