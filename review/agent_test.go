package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quizsmith/review-go/review/model"
)

var testRoute = ModelRoute{
	Primary:     model.Ref{Provider: "anthropic", Tier: model.TierDefault},
	Fallback:    model.Ref{Provider: "openai", Tier: model.TierDefault},
	Temperature: 0.2,
}

func testMessages() []model.Message {
	return []model.Message{{Role: model.RoleUser, Content: "verify"}}
}

func TestCompleteJSONPrimarySuccess(t *testing.T) {
	mock := &model.Mock{Responses: []string{`{"verdict":"agree","confidence":"high"}`}}

	out, fellBack, err := completeJSON[VerifierResult](context.Background(), mock, testMessages(), testRoute, 0)
	if err != nil {
		t.Fatalf("completeJSON failed: %v", err)
	}
	if fellBack {
		t.Error("fellBack = true on primary success")
	}
	if out.Verdict != VerdictAgree {
		t.Errorf("verdict = %q, want agree", out.Verdict)
	}
	if got := mock.CallCount(); got != 1 {
		t.Errorf("call count = %d, want 1", got)
	}
	if calls := mock.CallsTo("openai"); len(calls) != 0 {
		t.Errorf("fallback provider called %d times on primary success", len(calls))
	}
}

func TestCompleteJSONFallbackHop(t *testing.T) {
	tests := []struct {
		name       string
		primaryErr error
	}{
		{
			name:       "transport error",
			primaryErr: &model.TransportError{Provider: "anthropic", StatusCode: 529, Body: "overloaded"},
		},
		{
			name:       "config error",
			primaryErr: &model.ConfigError{Provider: "anthropic", Tier: model.TierDefault, Message: "missing API key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &model.Mock{
				Script: func(_ []model.Message, ref model.Ref) (string, error) {
					if ref.Provider == "anthropic" {
						return "", tt.primaryErr
					}
					return `{"verdict":"agree","confidence":"medium"}`, nil
				},
			}

			out, fellBack, err := completeJSON[VerifierResult](context.Background(), mock, testMessages(), testRoute, 0)
			if err != nil {
				t.Fatalf("completeJSON failed: %v", err)
			}
			if !fellBack {
				t.Error("fellBack = false, want true")
			}
			if out.Verdict != VerdictAgree {
				t.Errorf("verdict = %q, want agree from fallback", out.Verdict)
			}
			if got := mock.CallCount(); got != 2 {
				t.Errorf("call count = %d, want 2", got)
			}
		})
	}
}

func TestCompleteJSONParseErrorTriggersFallback(t *testing.T) {
	mock := &model.Mock{
		Script: func(_ []model.Message, ref model.Ref) (string, error) {
			if ref.Provider == "anthropic" {
				return "I'd rather answer in prose.", nil
			}
			return `{"verdict":"manual_correct"}`, nil
		},
	}

	out, fellBack, err := completeJSON[VerifierResult](context.Background(), mock, testMessages(), testRoute, 0)
	if err != nil {
		t.Fatalf("completeJSON failed: %v", err)
	}
	if !fellBack {
		t.Error("fellBack = false, want true after unparseable primary response")
	}
	if out.Verdict != VerdictManualCorrect {
		t.Errorf("verdict = %q, want manual_correct", out.Verdict)
	}
}

func TestCompleteJSONExactlyOneHop(t *testing.T) {
	mock := &model.Mock{
		Script: func(_ []model.Message, ref model.Ref) (string, error) {
			return "", &model.TransportError{Provider: ref.Provider, StatusCode: 500, Body: "down"}
		},
	}

	_, fellBack, err := completeJSON[VerifierResult](context.Background(), mock, testMessages(), testRoute, 0)
	if err == nil {
		t.Fatal("completeJSON succeeded, want error after both hops fail")
	}
	if !fellBack {
		t.Error("fellBack = false, want true")
	}
	if got := mock.CallCount(); got != 2 {
		t.Errorf("call count = %d, want exactly 2 (one fallback hop, no unbounded retry)", got)
	}

	var terr *model.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *TransportError from fallback hop", err)
	}
	if terr.Provider != "openai" {
		t.Errorf("final error provider = %q, want the fallback's", terr.Provider)
	}
}

func TestCompleteJSONCancellationDoesNotFallBack(t *testing.T) {
	mock := &model.Mock{Responses: []string{`{"verdict":"agree"}`}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, fellBack, err := completeJSON[VerifierResult](ctx, mock, testMessages(), testRoute, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if fellBack {
		t.Error("fellBack = true for cancelled context")
	}
	if got := mock.CallCount(); got > 1 {
		t.Errorf("call count = %d after cancellation, want at most 1", got)
	}
}

func TestCompleteJSONPerCallTimeout(t *testing.T) {
	mock := &model.Mock{
		Script: func(_ []model.Message, _ model.Ref) (string, error) {
			return `{"verdict":"agree"}`, nil
		},
	}

	// A generous timeout must not interfere with a fast call.
	out, _, err := completeJSON[VerifierResult](context.Background(), mock, testMessages(), testRoute, 5*time.Second)
	if err != nil {
		t.Fatalf("completeJSON failed: %v", err)
	}
	if out.Verdict != VerdictAgree {
		t.Errorf("verdict = %q, want agree", out.Verdict)
	}
}

func TestIsAgentRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"config error", &model.ConfigError{Provider: "openai", Message: "placeholder key"}, true},
		{"transport error", &model.TransportError{Provider: "google", StatusCode: 503}, true},
		{"parse error", &ParseError{Message: "no JSON object"}, true},
		{"wrapped transport error", &ParseError{Message: "x", Cause: &model.TransportError{StatusCode: 500}}, true},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAgentRecoverable(tt.err); got != tt.want {
				t.Errorf("isAgentRecoverable(%v) = %t, want %t", tt.err, got, tt.want)
			}
		})
	}
}

func TestReviewLog(t *testing.T) {
	t.Run("agent prefixes and warning marker", func(t *testing.T) {
		rl := newReviewLog("Q001", nil)
		rl.infof(AgentAnswerVerifier, "answer %s", "B")
		rl.warnf(AgentMnemonicWriter, "all model calls failed")
		rl.infof("", "review complete")

		got := rl.snapshot()
		want := []string{
			"answer_verifier: answer B",
			"warning: mnemonic_writer: all model calls failed",
			"review complete",
		}
		if len(got) != len(want) {
			t.Fatalf("log lines = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("line %d = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		rl := newReviewLog("Q001", nil)
		rl.infof("", "first")

		snap := rl.snapshot()
		rl.infof("", "second")

		if len(snap) != 1 {
			t.Errorf("snapshot grew after later appends: %v", snap)
		}
	})
}
