// Package store persists scored runs to SQLite so a ranking can be
// reloaded without re-invoking the model. Plain write/read pairs, no
// versioning or migrations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"fundmatch/internal/fund"
)

// Store manages the fundmatch results database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open creates or opens the results store at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		company TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS scores (
		run_id TEXT NOT NULL REFERENCES runs(id),
		position INTEGER NOT NULL,
		fund_name TEXT NOT NULL,
		score REAL NOT NULL,
		reason TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scores_run ON scores(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RunSummary describes one persisted run.
type RunSummary struct {
	ID        string
	Company   string
	CreatedAt time.Time
	Funds     int
}

// SaveRun stores a scored run and returns its generated ID. Score order
// is preserved on load.
func (s *Store) SaveRun(ctx context.Context, company string, scores []fund.Score) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, company, created_at) VALUES (?, ?, ?)`,
		runID, company, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scores (run_id, position, fund_name, score, reason) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, sc := range scores {
		if _, err := stmt.ExecContext(ctx, runID, i, sc.FundName, sc.Score, sc.Reason); err != nil {
			return "", fmt.Errorf("failed to insert score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return runID, nil
}

// LoadRun returns the scores of a persisted run in their saved order.
func (s *Store) LoadRun(ctx context.Context, runID string) ([]fund.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT fund_name, score, reason FROM scores WHERE run_id = ? ORDER BY position`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []fund.Score
	for rows.Next() {
		var sc fund.Score
		if err := rows.Scan(&sc.FundName, &sc.Score, &sc.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}
	if scores == nil {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	return scores, nil
}

// ListRuns returns summaries of all persisted runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.company, r.created_at, COUNT(s.run_id)
		FROM runs r
		LEFT JOIN scores s ON s.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Company, &r.CreatedAt, &r.Funds); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}
