// Package service owns the load, mutate and persist cycle for kniffel games.
//
// Every mutation of one game runs under that game's lock and is written back
// with an optimistic version check, so concurrent moves in one process queue up
// and concurrent moves from another process surface as GAME_CONFLICT.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/kniffel/internal/platform/errors"
	"github.com/louisbranch/kniffel/internal/services/kniffel/dice"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/game"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/scoring"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage/filter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	// ErrGameNotFound indicates the requested game does not exist.
	ErrGameNotFound = apperrors.New(apperrors.CodeGameNotFound, "game not found")
	// ErrGameConflict indicates another writer changed the game first.
	ErrGameConflict = apperrors.New(apperrors.CodeGameConflict, "game was modified concurrently")
)

// Service coordinates the rules engine with a game store.
type Service struct {
	store       storage.GameStore
	source      dice.Source
	now         func() time.Time
	idGenerator func() (string, error)
	locks       *keyedMutex
	hub         *watchHub
	tracer      trace.Tracer
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides game id generation.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.idGenerator = gen
		}
	}
}

// NewService returns a service backed by store that rolls dice from source.
func NewService(store storage.GameStore, source dice.Source, opts ...Option) *Service {
	s := &Service{
		store:  store,
		source: source,
		now:    time.Now,
		locks:  newKeyedMutex(),
		hub:    newWatchHub(),
		tracer: otel.Tracer("github.com/louisbranch/kniffel/internal/services/kniffel/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListGamesRequest selects one page of games.
type ListGamesRequest struct {
	PageSize  int
	PageToken string
	Filter    string
}

// CreateGame starts and stores a new game.
func (s *Service) CreateGame(ctx context.Context, names []string) (record storage.GameRecord, err error) {
	ctx, span := s.tracer.Start(ctx, "kniffel.CreateGame", trace.WithAttributes(
		attribute.Int("kniffel.player_count", len(names)),
	))
	defer func() { endSpan(span, err) }()

	if err := s.ready(); err != nil {
		return storage.GameRecord{}, err
	}
	g, err := game.New(names, s.source, s.idGenerator)
	if err != nil {
		return storage.GameRecord{}, err
	}
	span.SetAttributes(attribute.String("kniffel.game_id", g.ID()))

	now := s.now().UTC()
	record, err = s.store.CreateGame(ctx, storage.GameRecord{
		Snapshot:  g.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("create game: %w", err)
	}
	s.hub.publish(record)
	return record, nil
}

// GetGame loads one game.
func (s *Service) GetGame(ctx context.Context, gameID string) (record storage.GameRecord, err error) {
	ctx, span := s.tracer.Start(ctx, "kniffel.GetGame", trace.WithAttributes(
		attribute.String("kniffel.game_id", gameID),
	))
	defer func() { endSpan(span, err) }()

	if err := s.ready(); err != nil {
		return storage.GameRecord{}, err
	}
	return s.load(ctx, gameID)
}

// ListGames returns one page of games matching req.Filter.
func (s *Service) ListGames(ctx context.Context, req ListGamesRequest) (page storage.GamePage, err error) {
	ctx, span := s.tracer.Start(ctx, "kniffel.ListGames", trace.WithAttributes(
		attribute.String("kniffel.filter", req.Filter),
	))
	defer func() { endSpan(span, err) }()

	if err := s.ready(); err != nil {
		return storage.GamePage{}, err
	}
	cond, err := filter.Parse(req.Filter)
	if err != nil {
		return storage.GamePage{}, err
	}
	pageSize := req.PageSize
	switch {
	case pageSize <= 0:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}
	page, err = s.store.ListGames(ctx, pageSize, req.PageToken, cond)
	if err != nil {
		return storage.GamePage{}, fmt.Errorf("list games: %w", err)
	}
	return page, nil
}

// Reroll keeps the listed faces of the current hand and rolls the rest.
func (s *Service) Reroll(ctx context.Context, gameID string, keep []int) (storage.GameRecord, error) {
	return s.mutate(ctx, "kniffel.Reroll", gameID, func(g *game.Game) error {
		return g.Reroll(keep)
	})
}

// Book scores the current hand in the category named by tag.
func (s *Service) Book(ctx context.Context, gameID string, tag string) (storage.GameRecord, error) {
	category, err := scoring.ParseCategory(tag)
	if err != nil {
		return storage.GameRecord{}, err
	}
	return s.mutate(ctx, "kniffel.Book", gameID, func(g *game.Game) error {
		return g.Book(category)
	})
}

// Watch subscribes to every stored change of gameID. The returned function
// cancels the subscription and closes the channel.
func (s *Service) Watch(gameID string) (<-chan storage.GameRecord, func()) {
	return s.hub.subscribe(strings.TrimSpace(gameID))
}

func (s *Service) mutate(ctx context.Context, spanName, gameID string, move func(*game.Game) error) (record storage.GameRecord, err error) {
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("kniffel.game_id", gameID),
	))
	defer func() { endSpan(span, err) }()

	if err := s.ready(); err != nil {
		return storage.GameRecord{}, err
	}
	gameID = strings.TrimSpace(gameID)

	unlock := s.locks.lock(gameID)
	defer unlock()

	current, err := s.load(ctx, gameID)
	if err != nil {
		return storage.GameRecord{}, err
	}
	g, err := game.FromSnapshot(current.Snapshot, s.source)
	if err != nil {
		return storage.GameRecord{}, err
	}
	if err := move(g); err != nil {
		return storage.GameRecord{}, err
	}

	next := current
	next.Snapshot = g.Snapshot()
	next.UpdatedAt = s.now().UTC()
	record, err = s.store.UpdateGame(ctx, next, current.Version)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			return storage.GameRecord{}, conflict(gameID, err)
		case errors.Is(err, storage.ErrNotFound):
			return storage.GameRecord{}, notFound(gameID)
		}
		return storage.GameRecord{}, fmt.Errorf("update game: %w", err)
	}
	span.SetAttributes(
		attribute.String("kniffel.phase", record.Snapshot.Phase),
		attribute.Int64("kniffel.version", record.Version),
	)
	s.hub.publish(record)
	return record, nil
}

func (s *Service) load(ctx context.Context, gameID string) (storage.GameRecord, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return storage.GameRecord{}, notFound(gameID)
	}
	record, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.GameRecord{}, notFound(gameID)
		}
		return storage.GameRecord{}, fmt.Errorf("get game: %w", err)
	}
	return record, nil
}

func (s *Service) ready() error {
	if s == nil || s.store == nil {
		return errors.New("game service is not configured")
	}
	return nil
}

func notFound(gameID string) error {
	return ErrGameNotFound.With("game "+gameID+" not found", map[string]string{"GameID": gameID})
}

func conflict(gameID string, cause error) error {
	err := ErrGameConflict.With("game "+gameID+" was modified concurrently", map[string]string{"GameID": gameID})
	err.Cause = cause
	return err
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if code := apperrors.GetCode(err); code != apperrors.CodeUnknown {
			span.SetAttributes(attribute.String("kniffel.error_code", string(code)))
		}
	}
	span.End()
}
