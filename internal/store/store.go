// Package store handles SQLite persistence of finished quizzes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuivoc/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for quiz results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS quiz_results (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			source TEXT NOT NULL,
			total INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			score INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_results_ended_at ON quiz_results(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_results_source ON quiz_results(source);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertResult stores a completed quiz and returns its ID.
// A new UUID is assigned when the result has none.
func (s *Store) InsertResult(ctx context.Context, result model.QuizResult) (string, error) {
	id := result.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_results (id, started_at, ended_at, source, total, correct, skipped, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		result.StartedAt.Format(time.RFC3339Nano),
		result.EndedAt.Format(time.RFC3339Nano),
		result.Source,
		result.Total,
		result.Correct,
		result.Skipped,
		result.Score,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert result: %w", err)
	}
	return id, nil
}

// ListResults returns quiz results filtered by the history config, oldest first.
func (s *Store) ListResults(ctx context.Context, cfg model.HistoryConfig) ([]model.QuizResult, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, cfg.Source)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, source, total, correct, skipped, score
		FROM quiz_results
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.QuizResult
	for rows.Next() {
		var r model.QuizResult
		var startedAt, endedAt string
		if err := rows.Scan(&r.ID, &startedAt, &endedAt, &r.Source, &r.Total, &r.Correct, &r.Skipped, &r.Score); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if r.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}
	return results, nil
}
