// Package storage provides SQLite-based persistence for the leaderboard.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/neon-snake/internal/leaderboard"
)

const highScoreKey = "high_score"

// busyTimeout lets a writer wait for another process holding the database
// lock instead of failing with SQLITE_BUSY.
const busyTimeout = "?_pragma=busy_timeout(5000)"

// Store manages the SQLite database holding the score list and high score.
type Store struct {
	db       *sql.DB
	capacity int
}

// Stats contains aggregated statistics over the stored scores.
type Stats struct {
	Games      int
	Best       int
	Average    float64
	LastPlayed string // Timestamp of the most recent entry, empty if none
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+busyTimeout)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, capacity: leaderboard.DefaultCapacity}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT,
			score INTEGER NOT NULL,
			ts TEXT NOT NULL,
			run_id TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, ts ASC);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_scores_run ON scores(run_id);

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadHighScore returns the stored high score, 0 if none was saved.
func (s *Store) LoadHighScore() (int, error) {
	var score int
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", highScoreKey).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	return score, nil
}

// SaveHighScore stores score unless a higher value is already stored.
func (s *Store) SaveHighScore(score int) error {
	_, err := s.db.Exec(
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = MAX(value, excluded.value)`,
		highScoreKey, score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save high score: %w", err)
	}
	return nil
}

// LoadScores returns the stored list in rank order.
func (s *Store) LoadScores() ([]leaderboard.Entry, error) {
	return s.TopScores(s.capacity)
}

// SaveScores replaces the stored list with entries in a single transaction.
func (s *Store) SaveScores(entries []leaderboard.Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.Exec("DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}

	stmt, err := tx.Prepare(insertScore)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(nullable(e.Name), e.Score, e.Timestamp, nullable(e.RunID)); err != nil {
			return fmt.Errorf("storage: cannot save score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit scores: %w", err)
	}
	return nil
}

// AppendScore inserts e and trims the list to capacity in one transaction.
// Rows written by other connections are kept. An entry whose run is already
// stored is ignored.
func (s *Store) AppendScore(e leaderboard.Entry, capacity int) error {
	if capacity <= 0 {
		capacity = s.capacity
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.Exec(insertScore+" ON CONFLICT DO NOTHING",
		nullable(e.Name), e.Score, e.Timestamp, nullable(e.RunID)); err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}

	_, err = tx.Exec(
		`DELETE FROM scores WHERE id NOT IN (
			SELECT id FROM scores ORDER BY score DESC, ts ASC, id ASC LIMIT ?
		)`,
		capacity,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot trim scores: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit score: %w", err)
	}
	return nil
}

// TopScores retrieves the top N entries ordered by score descending, then
// timestamp ascending.
func (s *Store) TopScores(limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 {
		limit = leaderboard.DefaultLimit
	}

	rows, err := s.db.Query(
		`SELECT name, score, ts, run_id
		 FROM scores
		 ORDER BY score DESC, ts ASC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry
		var name, runID sql.NullString
		if err := rows.Scan(&name, &e.Score, &e.Timestamp, &runID); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Name = name.String
		e.RunID = runID.String
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best known score: the stored high score or the best
// entry, whichever is higher.
func (s *Store) HighScore() (int, error) {
	var best sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM scores").Scan(&best); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	stored, err := s.LoadHighScore()
	if err != nil {
		return 0, err
	}
	if best.Valid && int(best.Int64) > stored {
		return int(best.Int64), nil
	}
	return stored, nil
}

// ClearScores deletes all entries and the stored high score.
func (s *Store) ClearScores() error {
	if _, err := s.db.Exec("DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM meta WHERE key = ?", highScoreKey); err != nil {
		return fmt.Errorf("storage: cannot clear high score: %w", err)
	}
	return nil
}

// Stats returns aggregated statistics over the stored entries.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	var lastPlayed sql.NullString
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), MAX(ts)
		 FROM scores`,
	).Scan(&stats.Games, &stats.Best, &stats.Average, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	if lastPlayed.Valid {
		stats.LastPlayed = lastPlayed.String
	}

	high, err := s.LoadHighScore()
	if err != nil {
		return nil, err
	}
	stats.Best = max(stats.Best, high)

	return stats, nil
}

const insertScore = "INSERT INTO scores (name, score, ts, run_id) VALUES (?, ?, ?, ?)"

// nullable stores empty strings as NULL.
func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

// Ensure Store can back a leaderboard.Board
var (
	_ leaderboard.Persistence = (*Store)(nil)
	_ leaderboard.Appender    = (*Store)(nil)
)
