package review

import (
	"context"
	"fmt"
	"testing"

	"github.com/quizsmith/review-go/review/emit"
)

func batchQuestions(n int) []Question {
	questions := make([]Question, n)
	for i := range questions {
		q := testQuestion()
		q.Code = fmt.Sprintf("Q-%03d", i+1)
		questions[i] = q
	}
	return questions
}

func TestReviewBatchOrder(t *testing.T) {
	mock := scriptedClient(defaultResponses(), nil)
	pipe := New(mock, WithQuestionPause(0))

	questions := batchQuestions(3)
	results := pipe.ReviewBatch(context.Background(), questions)

	if len(results) != len(questions) {
		t.Fatalf("results = %d, want %d", len(results), len(questions))
	}
	for i, result := range results {
		if result.Code != questions[i].Code {
			t.Errorf("result %d code = %q, want %q", i, result.Code, questions[i].Code)
		}
		if result.Status != StatusDone {
			t.Errorf("result %d status = %q, want done", i, result.Status)
		}
	}
}

func TestReviewBatchSurvivesPerQuestionFailure(t *testing.T) {
	// A nil client panics inside Review; every question must still get a
	// result and the batch must reach the end.
	pipe := New(nil, WithQuestionPause(0))

	results := pipe.ReviewBatch(context.Background(), batchQuestions(2))

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for i, result := range results {
		if result.Status != StatusError {
			t.Errorf("result %d status = %q, want error", i, result.Status)
		}
		if !result.NeedsHuman {
			t.Errorf("result %d NeedsHuman = false", i)
		}
	}
}

func TestReviewBatchCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := scriptedClient(defaultResponses(), nil)
	pipe := New(mock, WithQuestionPause(0))

	results := pipe.ReviewBatch(ctx, batchQuestions(2))

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for i, result := range results {
		if result.Status != StatusError {
			t.Errorf("result %d status = %q, want error after cancellation", i, result.Status)
		}
	}
	if mock.CallCount() != 0 {
		t.Errorf("model called %d times after cancellation", mock.CallCount())
	}
}

func TestReviewBatchProgressEvents(t *testing.T) {
	buffered := emit.NewBufferedEmitter()
	mock := scriptedClient(defaultResponses(), nil)
	pipe := New(mock, WithQuestionPause(0), WithEmitter(buffered))

	pipe.ReviewBatch(context.Background(), batchQuestions(2))

	events := buffered.HistoryWithFilter("", emit.HistoryFilter{Agent: "batch"})
	if len(events) < 3 {
		t.Fatalf("batch events = %d, want per-question progress plus completion", len(events))
	}
	last := events[len(events)-1]
	if last.Msg != "batch complete" {
		t.Errorf("last batch event = %q, want batch complete", last.Msg)
	}
	if last.Meta["total"] != 2 {
		t.Errorf("completion meta = %v, want total 2", last.Meta)
	}
}

func TestReviewBatchEmpty(t *testing.T) {
	pipe := New(scriptedClient(defaultResponses(), nil), WithQuestionPause(0))

	results := pipe.ReviewBatch(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("results = %d for empty batch, want 0", len(results))
	}
}
