package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/quizsmith/review-go/review"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a SQLite implementation of Store.
//
// Results live in a single-file database, so a review run needs no
// database server. WAL mode keeps reads concurrent while a batch writes.
//
// Use ":memory:" as the path for an in-memory database in tests.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (creating if needed) a SQLite-backed store at
// the given path and migrates the schema.
//
// Example:
//
//	st, err := store.NewSQLiteStore("./reviews.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	store := &SQLiteStore{db: db}
	if err := store.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	table := `
		CREATE TABLE IF NOT EXISTS review_results (
			code TEXT NOT NULL PRIMARY KEY,
			status TEXT NOT NULL,
			final_answer TEXT NOT NULL,
			needs_human INTEGER NOT NULL,
			has_conflict INTEGER NOT NULL,
			result TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := s.db.ExecContext(ctx, table); err != nil {
		return fmt.Errorf("failed to create review_results table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_results_needs_human ON review_results(needs_human)"); err != nil {
		return fmt.Errorf("failed to create idx_results_needs_human: %w", err)
	}
	return nil
}

// SaveResult upserts one result keyed by question code.
func (s *SQLiteStore) SaveResult(ctx context.Context, result review.ReviewResult) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if result.Code == "" {
		return fmt.Errorf("result has no question code")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `
		INSERT INTO review_results (code, status, final_answer, needs_human, has_conflict, result)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			status = excluded.status,
			final_answer = excluded.final_answer,
			needs_human = excluded.needs_human,
			has_conflict = excluded.has_conflict,
			result = excluded.result,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err = s.db.ExecContext(ctx, query,
		result.Code, result.Status, result.FinalAnswer,
		boolInt(result.NeedsHuman), boolInt(result.HasConflict), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// LoadResult retrieves the result for a question code.
func (s *SQLiteStore) LoadResult(ctx context.Context, code string) (review.ReviewResult, error) {
	if err := s.checkOpen(); err != nil {
		return review.ReviewResult{}, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT result FROM review_results WHERE code = ?", code).Scan(&payload)
	if err == sql.ErrNoRows {
		return review.ReviewResult{}, ErrNotFound
	}
	if err != nil {
		return review.ReviewResult{}, fmt.Errorf("failed to load result: %w", err)
	}
	return decodeResult(payload)
}

// ListResults returns all stored results ordered by question code.
func (s *SQLiteStore) ListResults(ctx context.Context) ([]review.ReviewResult, error) {
	return s.query(ctx, "SELECT result FROM review_results ORDER BY code")
}

// ListNeedingHuman returns the results flagged for human review.
func (s *SQLiteStore) ListNeedingHuman(ctx context.Context) ([]review.ReviewResult, error) {
	return s.query(ctx, "SELECT result FROM review_results WHERE needs_human = 1 ORDER BY code")
}

func (s *SQLiteStore) query(ctx context.Context, query string) ([]review.ReviewResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []review.ReviewResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		result, err := decodeResult(payload)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return results, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (s *SQLiteStore) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}
	return nil
}

func decodeResult(payload string) (review.ReviewResult, error) {
	var result review.ReviewResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return review.ReviewResult{}, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return result, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
