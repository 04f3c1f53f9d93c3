package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/quizsmith/review-go/review"
)

// MemoryStore is an in-memory implementation of Store.
//
// Designed for tests and one-shot batch runs where the caller exports
// results itself. Data is lost when the process terminates.
//
// MemoryStore is thread-safe.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]review.ReviewResult
	closed  bool
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results: make(map[string]review.ReviewResult),
	}
}

// SaveResult stores one result, replacing any earlier result for the
// same question code.
func (m *MemoryStore) SaveResult(_ context.Context, result review.ReviewResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("store is closed")
	}
	if result.Code == "" {
		return fmt.Errorf("result has no question code")
	}

	m.results[result.Code] = result
	return nil
}

// LoadResult retrieves the result for a question code.
func (m *MemoryStore) LoadResult(_ context.Context, code string) (review.ReviewResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return review.ReviewResult{}, fmt.Errorf("store is closed")
	}

	result, ok := m.results[code]
	if !ok {
		return review.ReviewResult{}, ErrNotFound
	}
	return result, nil
}

// ListResults returns all stored results ordered by question code.
func (m *MemoryStore) ListResults(_ context.Context) ([]review.ReviewResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("store is closed")
	}
	return m.collect(func(review.ReviewResult) bool { return true }), nil
}

// ListNeedingHuman returns the results flagged for human review.
func (m *MemoryStore) ListNeedingHuman(_ context.Context) ([]review.ReviewResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("store is closed")
	}
	return m.collect(func(r review.ReviewResult) bool { return r.NeedsHuman }), nil
}

// collect gathers matching results sorted by code. Caller holds the lock.
func (m *MemoryStore) collect(keep func(review.ReviewResult) bool) []review.ReviewResult {
	out := make([]review.ReviewResult, 0, len(m.results))
	for _, r := range m.results {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Close marks the store closed. Further calls return an error.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.results = nil
	return nil
}
