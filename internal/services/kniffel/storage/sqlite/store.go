// Package sqlite provides a SQLite-backed game storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/kniffel/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/game"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage/filter"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists games in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite game store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateGame inserts a new game and its roster in one transaction.
func (s *Store) CreateGame(ctx context.Context, record storage.GameRecord) (storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GameRecord{}, fmt.Errorf("storage is not configured")
	}
	if err := validateRecord(record); err != nil {
		return storage.GameRecord{}, err
	}

	createdAt := record.CreatedAt.UTC()
	updatedAt := record.UpdatedAt.UTC()
	if createdAt.IsZero() && updatedAt.IsZero() {
		createdAt = time.Now().UTC()
		updatedAt = createdAt
	} else {
		if createdAt.IsZero() {
			createdAt = updatedAt
		}
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}
	}
	record.CreatedAt = createdAt
	record.UpdatedAt = updatedAt
	record.Version = 1

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("begin create game: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	snap := record.Snapshot
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO games (
		   game_id,
		   roll_round,
		   stage,
		   dice_rolls,
		   current_player,
		   version,
		   created_at,
		   updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID,
		snap.RollRound,
		snap.Phase,
		snap.Dice,
		snap.CurrentPlayer,
		record.Version,
		toMillis(createdAt),
		toMillis(updatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.GameRecord{}, storage.ErrAlreadyExists
		}
		return storage.GameRecord{}, fmt.Errorf("create game: %w", err)
	}
	if err := insertPlayers(ctx, tx, snap); err != nil {
		return storage.GameRecord{}, err
	}
	if err := tx.Commit(); err != nil {
		return storage.GameRecord{}, fmt.Errorf("commit create game: %w", err)
	}
	return record, nil
}

// GetGame returns one game by id.
func (s *Store) GetGame(ctx context.Context, gameID string) (storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GameRecord{}, fmt.Errorf("storage is not configured")
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return storage.GameRecord{}, fmt.Errorf("game id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT game_id, roll_round, stage, dice_rolls, current_player,
		        version, created_at, updated_at
		   FROM games
		  WHERE game_id = ?`,
		gameID,
	)
	record, err := scanGame(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.GameRecord{}, storage.ErrNotFound
		}
		return storage.GameRecord{}, fmt.Errorf("get game: %w", err)
	}

	players, err := s.loadPlayers(ctx, []string{gameID})
	if err != nil {
		return storage.GameRecord{}, err
	}
	record.Snapshot.Players = players[gameID]
	return record, nil
}

// UpdateGame writes a new state for an existing game if nobody else has
// written since expectedVersion was read.
func (s *Store) UpdateGame(ctx context.Context, record storage.GameRecord, expectedVersion int64) (storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GameRecord{}, fmt.Errorf("storage is not configured")
	}
	if err := validateRecord(record); err != nil {
		return storage.GameRecord{}, err
	}
	updatedAt := record.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("begin update game: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	snap := record.Snapshot
	res, err := tx.ExecContext(
		ctx,
		`UPDATE games
		    SET roll_round = ?,
		        stage = ?,
		        dice_rolls = ?,
		        current_player = ?,
		        version = version + 1,
		        updated_at = ?
		  WHERE game_id = ? AND version = ?`,
		snap.RollRound,
		snap.Phase,
		snap.Dice,
		snap.CurrentPlayer,
		toMillis(updatedAt),
		snap.ID,
		expectedVersion,
	)
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("update game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("update game: %w", err)
	}
	if affected == 0 {
		var createdAt int64
		err := tx.QueryRowContext(ctx, `SELECT created_at FROM games WHERE game_id = ?`, snap.ID).Scan(&createdAt)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.GameRecord{}, storage.ErrNotFound
		}
		if err != nil {
			return storage.GameRecord{}, fmt.Errorf("update game: %w", err)
		}
		return storage.GameRecord{}, storage.ErrConflict
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM players WHERE game_id = ?`, snap.ID); err != nil {
		return storage.GameRecord{}, fmt.Errorf("replace players: %w", err)
	}
	if err := insertPlayers(ctx, tx, snap); err != nil {
		return storage.GameRecord{}, err
	}

	var createdAt int64
	if err := tx.QueryRowContext(ctx, `SELECT created_at FROM games WHERE game_id = ?`, snap.ID).Scan(&createdAt); err != nil {
		return storage.GameRecord{}, fmt.Errorf("update game: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return storage.GameRecord{}, fmt.Errorf("commit update game: %w", err)
	}

	record.Version = expectedVersion + 1
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(toMillis(updatedAt))
	return record, nil
}

// ListGames returns one page of games ordered by id, restricted by cond.
func (s *Store) ListGames(ctx context.Context, pageSize int, pageToken string, cond filter.Condition) (storage.GamePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.GamePage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GamePage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.GamePage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	var (
		where  []string
		params []any
	)
	if !cond.Empty() {
		where = append(where, cond.SQL.Clause)
		params = append(params, cond.SQL.Params...)
	}
	if pageToken != "" {
		where = append(where, "game_id > ?")
		params = append(params, pageToken)
	}
	query := `SELECT game_id, roll_round, stage, dice_rolls, current_player,
	                 version, created_at, updated_at
	            FROM games`
	if len(where) > 0 {
		query += "\n WHERE " + strings.Join(where, " AND ")
	}
	query += "\n ORDER BY game_id ASC\n LIMIT ?"
	params = append(params, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return storage.GamePage{}, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	page := storage.GamePage{Games: make([]storage.GameRecord, 0, pageSize)}
	for rows.Next() {
		record, err := scanGame(rows)
		if err != nil {
			return storage.GamePage{}, fmt.Errorf("list games: %w", err)
		}
		page.Games = append(page.Games, record)
	}
	if err := rows.Err(); err != nil {
		return storage.GamePage{}, fmt.Errorf("list games: %w", err)
	}
	if len(page.Games) > pageSize {
		page.NextPageToken = page.Games[pageSize-1].ID()
		page.Games = page.Games[:pageSize]
	}
	if len(page.Games) == 0 {
		return page, nil
	}

	ids := make([]string, len(page.Games))
	for i, g := range page.Games {
		ids[i] = g.ID()
	}
	players, err := s.loadPlayers(ctx, ids)
	if err != nil {
		return storage.GamePage{}, err
	}
	for i := range page.Games {
		page.Games[i].Snapshot.Players = players[page.Games[i].ID()]
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (storage.GameRecord, error) {
	var (
		record    storage.GameRecord
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(
		&record.Snapshot.ID,
		&record.Snapshot.RollRound,
		&record.Snapshot.Phase,
		&record.Snapshot.Dice,
		&record.Snapshot.CurrentPlayer,
		&record.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.GameRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func (s *Store) loadPlayers(ctx context.Context, gameIDs []string) (map[string][]game.PlayerSnapshot, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(gameIDs)), ",")
	args := make([]any, len(gameIDs))
	for i, id := range gameIDs {
		args[i] = id
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT game_id, name, score, used_booking_types
		   FROM players
		  WHERE game_id IN (`+placeholders+`)
		  ORDER BY game_id ASC, seat ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]game.PlayerSnapshot, len(gameIDs))
	for rows.Next() {
		var (
			gameID string
			p      game.PlayerSnapshot
		)
		if err := rows.Scan(&gameID, &p.Name, &p.Score, &p.UsedCategories); err != nil {
			return nil, fmt.Errorf("load players: %w", err)
		}
		out[gameID] = append(out[gameID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	return out, nil
}

func insertPlayers(ctx context.Context, tx *sql.Tx, snap game.Snapshot) error {
	for seat, p := range snap.Players {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO players (game_id, seat, name, score, used_booking_types)
			 VALUES (?, ?, ?, ?, ?)`,
			snap.ID,
			seat,
			p.Name,
			p.Score,
			p.UsedCategories,
		); err != nil {
			return fmt.Errorf("insert player %s: %w", p.Name, err)
		}
	}
	return nil
}

func validateRecord(record storage.GameRecord) error {
	if strings.TrimSpace(record.Snapshot.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	if len(record.Snapshot.Players) == 0 {
		return fmt.Errorf("at least one player is required")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "games.game_id")
}

var _ storage.GameStore = (*Store)(nil)
