package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quizsmith/review-go/review"
)

func sampleResult(code string, needsHuman bool) review.ReviewResult {
	return review.ReviewResult{
		Code:        code,
		Status:      review.StatusDone,
		FinalAnswer: "B",
		NeedsHuman:  needsHuman,
		Summary:     "No changes recommended; question kept as is.",
		Elapsed:     3 * time.Second,
		Results: review.AgentResults{
			Verifier: &review.VerifierResult{
				Answer:     "B",
				Confidence: review.ConfidenceHigh,
				Verdict:    review.VerdictAgree,
			},
		},
		Log: []string{"review complete"},
	}
}

// runStoreSuite exercises the Store contract against any implementation.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("save and load round trip", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		want := sampleResult("Q-001", false)
		if err := s.SaveResult(ctx, want); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}

		got, err := s.LoadResult(ctx, "Q-001")
		if err != nil {
			t.Fatalf("LoadResult failed: %v", err)
		}
		if got.Code != want.Code || got.FinalAnswer != want.FinalAnswer || got.Status != want.Status {
			t.Errorf("got %+v, want %+v", got, want)
		}
		if got.Results.Verifier == nil || got.Results.Verifier.Answer != "B" {
			t.Error("nested agent results lost in round trip")
		}
		if len(got.Log) != 1 || got.Log[0] != "review complete" {
			t.Errorf("log = %v, want preserved", got.Log)
		}
	})

	t.Run("load unknown code", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		_, err := s.LoadResult(ctx, "Q-404")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("re-review replaces earlier result", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		first := sampleResult("Q-001", false)
		if err := s.SaveResult(ctx, first); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}

		second := first
		second.FinalAnswer = "C"
		second.NeedsHuman = true
		if err := s.SaveResult(ctx, second); err != nil {
			t.Fatalf("second SaveResult failed: %v", err)
		}

		got, err := s.LoadResult(ctx, "Q-001")
		if err != nil {
			t.Fatalf("LoadResult failed: %v", err)
		}
		if got.FinalAnswer != "C" || !got.NeedsHuman {
			t.Errorf("got %+v, want the replacement", got)
		}

		all, err := s.ListResults(ctx)
		if err != nil {
			t.Fatalf("ListResults failed: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("results = %d after replacement, want 1", len(all))
		}
	})

	t.Run("list ordered by code", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		for _, code := range []string{"Q-003", "Q-001", "Q-002"} {
			if err := s.SaveResult(ctx, sampleResult(code, false)); err != nil {
				t.Fatalf("SaveResult(%s) failed: %v", code, err)
			}
		}

		all, err := s.ListResults(ctx)
		if err != nil {
			t.Fatalf("ListResults failed: %v", err)
		}
		want := []string{"Q-001", "Q-002", "Q-003"}
		if len(all) != len(want) {
			t.Fatalf("results = %d, want %d", len(all), len(want))
		}
		for i, code := range want {
			if all[i].Code != code {
				t.Errorf("result %d = %q, want %q", i, all[i].Code, code)
			}
		}
	})

	t.Run("list needing human", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		_ = s.SaveResult(ctx, sampleResult("Q-001", false))
		_ = s.SaveResult(ctx, sampleResult("Q-002", true))
		_ = s.SaveResult(ctx, sampleResult("Q-003", true))

		flagged, err := s.ListNeedingHuman(ctx)
		if err != nil {
			t.Fatalf("ListNeedingHuman failed: %v", err)
		}
		if len(flagged) != 2 {
			t.Fatalf("flagged = %d, want 2", len(flagged))
		}
		if flagged[0].Code != "Q-002" || flagged[1].Code != "Q-003" {
			t.Errorf("flagged codes = %q, %q", flagged[0].Code, flagged[1].Code)
		}
	})

	t.Run("empty code rejected", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		if err := s.SaveResult(ctx, review.ReviewResult{}); err == nil {
			t.Error("SaveResult accepted a result without a question code")
		}
	})

	t.Run("closed store rejects calls", func(t *testing.T) {
		s := newStore(t)
		if err := s.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		if err := s.SaveResult(ctx, sampleResult("Q-001", false)); err == nil {
			t.Error("SaveResult succeeded on closed store")
		}
		if _, err := s.LoadResult(ctx, "Q-001"); err == nil {
			t.Error("LoadResult succeeded on closed store")
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := NewSQLiteStore(":memory:")
		if err != nil {
			t.Fatalf("NewSQLiteStore failed: %v", err)
		}
		return s
	})
}

func TestSQLiteStoreFile(t *testing.T) {
	path := t.TempDir() + "/reviews.db"

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	if err := s.SaveResult(context.Background(), sampleResult("Q-001", true)); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Results must survive reopening the file.
	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.LoadResult(context.Background(), "Q-001")
	if err != nil {
		t.Fatalf("LoadResult after reopen failed: %v", err)
	}
	if got.Code != "Q-001" || !got.NeedsHuman {
		t.Errorf("got %+v after reopen", got)
	}
}
