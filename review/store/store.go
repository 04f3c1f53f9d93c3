// Package store persists review results so a batch's findings survive
// the process and can be queried later by editorial tooling.
package store

import (
	"context"
	"errors"

	"github.com/quizsmith/review-go/review"
)

// ErrNotFound is returned when no result exists for a question code.
var ErrNotFound = errors.New("not found")

// Store provides persistence for review results.
//
// Saving the same question code twice replaces the earlier result; a
// re-reviewed question keeps only its latest outcome.
//
// Implementations:
//   - MemoryStore: in-process, for tests and one-shot runs
//   - SQLiteStore: single-file database, zero setup
//   - MySQLStore: shared database for multi-host deployments
type Store interface {
	// SaveResult persists one review result, replacing any earlier
	// result for the same question code.
	SaveResult(ctx context.Context, result review.ReviewResult) error

	// LoadResult retrieves the result for a question code.
	// Returns ErrNotFound if the code has never been reviewed.
	LoadResult(ctx context.Context, code string) (review.ReviewResult, error)

	// ListResults returns all stored results ordered by question code.
	ListResults(ctx context.Context) ([]review.ReviewResult, error)

	// ListNeedingHuman returns the results flagged for human review,
	// ordered by question code.
	ListNeedingHuman(ctx context.Context) ([]review.ReviewResult, error)

	// Close releases the store's resources. The store is unusable
	// afterwards.
	Close() error
}
