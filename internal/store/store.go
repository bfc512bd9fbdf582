// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/verte-zerg/typerace/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// DefaultTimerDuration is the countdown used when no preference is stored.
const DefaultTimerDuration = 30

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps SQLite access for players, results and shares.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			name TEXT PRIMARY KEY,
			timer_duration INTEGER NOT NULL DEFAULT 30 CHECK (timer_duration IN (15, 30)),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS game_results (
			id INTEGER PRIMARY KEY,
			player TEXT,
			wpm INTEGER NOT NULL CHECK (wpm >= 0 AND wpm <= 350),
			accuracy INTEGER NOT NULL CHECK (accuracy >= 0 AND accuracy <= 100),
			duration INTEGER NOT NULL CHECK (duration >= 0 AND duration <= 300),
			text_excerpt TEXT NOT NULL,
			wpm_history TEXT,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS shareable_results (
			short_id TEXT PRIMARY KEY,
			game_result_id INTEGER NOT NULL REFERENCES game_results(id) ON DELETE CASCADE,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_game_results_wpm ON game_results(wpm DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_game_results_player ON game_results(player, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// TimerDuration returns the player's saved countdown, or ErrNotFound.
func (s *Store) TimerDuration(ctx context.Context, player string) (int, error) {
	var d int
	err := s.db.QueryRowContext(ctx, `SELECT timer_duration FROM players WHERE name = ?`, player).Scan(&d)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return d, nil
}

// SetTimerDuration saves the player's countdown preference.
func (s *Store) SetTimerDuration(ctx context.Context, player string, duration int) error {
	now := s.now().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (name, timer_duration, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET timer_duration = excluded.timer_duration, updated_at = excluded.updated_at`,
		player, duration, now, now)
	return err
}

// InsertResult stores a submission and returns its id. A non-empty
// ShortID is stored as a share in the same transaction.
func (s *Store) InsertResult(ctx context.Context, sub model.Submission) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	id, err = insertResult(ctx, tx, sub, s.now())
	if err != nil {
		return 0, err
	}
	if sub.ShortID != "" {
		if err = insertShare(ctx, tx, sub.ShortID, id, s.now()); err != nil {
			return 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ShareResult links shortID to an existing result.
func (s *Store) ShareResult(ctx context.Context, resultID int64, shortID string) error {
	return insertShare(ctx, s.db, shortID, resultID, s.now())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertResult(ctx context.Context, ex execer, sub model.Submission, now time.Time) (int64, error) {
	var history any
	if len(sub.WPMHistory) > 0 {
		raw, err := json.Marshal(sub.WPMHistory)
		if err != nil {
			return 0, fmt.Errorf("failed to encode wpm history: %w", err)
		}
		history = string(raw)
	}
	var player any
	if sub.Player != nil {
		player = *sub.Player
	}
	res, err := ex.ExecContext(ctx,
		`INSERT INTO game_results (player, wpm, accuracy, duration, text_excerpt, wpm_history, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		player, sub.WPM, sub.Accuracy, sub.Duration, sub.Excerpt, history, now.Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertShare(ctx context.Context, ex execer, shortID string, resultID int64, now time.Time) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO shareable_results (short_id, game_result_id, created_at) VALUES (?, ?, ?)`,
		shortID, resultID, now.Format(time.RFC3339Nano))
	return err
}

// TopEntry returns the fastest result, or ErrNotFound when there is none.
func (s *Store) TopEntry(ctx context.Context) (model.LeaderboardEntry, error) {
	entries, err := s.TopResults(ctx, 1)
	if err != nil {
		return model.LeaderboardEntry{}, err
	}
	if len(entries) == 0 {
		return model.LeaderboardEntry{}, ErrNotFound
	}
	return entries[0], nil
}

// TopResults returns up to limit results ordered by WPM.
func (s *Store) TopResults(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player, wpm, accuracy, duration, created_at
		 FROM game_results
		 ORDER BY wpm DESC, created_at ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		var player sql.NullString
		var createdAt string
		if err := rows.Scan(&e.ResultID, &player, &e.WPM, &e.Accuracy, &e.Duration, &createdAt); err != nil {
			return nil, err
		}
		if player.Valid {
			e.PlayerName = &player.String
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SharedResult resolves a share identifier.
func (s *Store) SharedResult(ctx context.Context, shortID string) (model.SharedResult, error) {
	var out model.SharedResult
	var player, history sql.NullString
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT sr.short_id, gr.player, gr.wpm, gr.accuracy, gr.duration, gr.text_excerpt, gr.wpm_history, sr.created_at
		 FROM shareable_results sr
		 JOIN game_results gr ON gr.id = sr.game_result_id
		 WHERE sr.short_id = ?`, shortID).
		Scan(&out.ShortID, &player, &out.WPM, &out.Accuracy, &out.Duration, &out.Excerpt, &history, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SharedResult{}, ErrNotFound
	}
	if err != nil {
		return model.SharedResult{}, err
	}
	if player.Valid {
		out.PlayerName = &player.String
	}
	if history.Valid && history.String != "" {
		if err := json.Unmarshal([]byte(history.String), &out.WPMHistory); err != nil {
			return model.SharedResult{}, fmt.Errorf("failed to decode wpm history: %w", err)
		}
	}
	if out.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return model.SharedResult{}, err
	}
	return out, nil
}

// ListResults returns results in chronological order. An empty player
// matches every player; last > 0 keeps only the most recent results.
func (s *Store) ListResults(ctx context.Context, player string, last int) ([]model.LeaderboardEntry, error) {
	limit := -1
	if last > 0 {
		limit = last
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player, wpm, accuracy, duration, created_at FROM (
			SELECT id, player, wpm, accuracy, duration, created_at
			FROM game_results
			WHERE (? = '' OR player = ?)
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		) ORDER BY created_at ASC, id ASC`, player, player, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		var p sql.NullString
		var createdAt string
		if err := rows.Scan(&e.ResultID, &p, &e.WPM, &e.Accuracy, &e.Duration, &createdAt); err != nil {
			return nil, err
		}
		if p.Valid {
			e.PlayerName = &p.String
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
