package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/quizsmith/review-go/review"
)

// MySQLStore is a MySQL/MariaDB implementation of Store.
//
// Designed for deployments where several review hosts share one result
// database, or where editorial tooling queries results out of band.
//
// Security Warning:
//
//	NEVER hardcode credentials in your source code. Use environment
//	variables:
//	    dsn := os.Getenv("MYSQL_DSN")
//	    if dsn == "" {
//	        log.Fatal("MYSQL_DSN environment variable not set")
//	    }
//	    store, err := store.NewMySQLStore(dsn)
type MySQLStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewMySQLStore creates a MySQL-backed store and migrates the schema.
//
// The DSN format is:
//
//	[username[:password]@][protocol[(address)]]/dbname[?param1=value1&...]
//
// Example:
//
//	user:password@tcp(localhost:3306)/reviews?parseTime=true
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	store := &MySQLStore{db: db}
	if err := store.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return store, nil
}

func (m *MySQLStore) createTables(ctx context.Context) error {
	table := `
		CREATE TABLE IF NOT EXISTS review_results (
			code VARCHAR(255) NOT NULL PRIMARY KEY,
			status VARCHAR(16) NOT NULL,
			final_answer VARCHAR(8) NOT NULL,
			needs_human TINYINT(1) NOT NULL,
			has_conflict TINYINT(1) NOT NULL,
			result JSON NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_needs_human (needs_human)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci
	`
	if _, err := m.db.ExecContext(ctx, table); err != nil {
		return fmt.Errorf("failed to create review_results table: %w", err)
	}
	return nil
}

// SaveResult upserts one result keyed by question code.
func (m *MySQLStore) SaveResult(ctx context.Context, result review.ReviewResult) error {
	if err := m.checkOpen(); err != nil {
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
		ON DUPLICATE KEY UPDATE
			status = VALUES(status),
			final_answer = VALUES(final_answer),
			needs_human = VALUES(needs_human),
			has_conflict = VALUES(has_conflict),
			result = VALUES(result)
	`
	_, err = m.db.ExecContext(ctx, query,
		result.Code, result.Status, result.FinalAnswer,
		boolInt(result.NeedsHuman), boolInt(result.HasConflict), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// LoadResult retrieves the result for a question code.
func (m *MySQLStore) LoadResult(ctx context.Context, code string) (review.ReviewResult, error) {
	if err := m.checkOpen(); err != nil {
		return review.ReviewResult{}, err
	}

	var payload string
	err := m.db.QueryRowContext(ctx,
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
func (m *MySQLStore) ListResults(ctx context.Context) ([]review.ReviewResult, error) {
	return m.query(ctx, "SELECT result FROM review_results ORDER BY code")
}

// ListNeedingHuman returns the results flagged for human review.
func (m *MySQLStore) ListNeedingHuman(ctx context.Context) ([]review.ReviewResult, error) {
	return m.query(ctx, "SELECT result FROM review_results WHERE needs_human = 1 ORDER BY code")
}

func (m *MySQLStore) query(ctx context.Context, query string) ([]review.ReviewResult, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, query)
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
func (m *MySQLStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	if err := m.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (m *MySQLStore) checkOpen() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("store is closed")
	}
	return nil
}
