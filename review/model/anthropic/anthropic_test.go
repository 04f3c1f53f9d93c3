package anthropic

import (
	"errors"
	"net/http"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/quizsmith/review-go/review/model"
)

func TestNew(t *testing.T) {
	m := New("test-api-key")
	if m == nil {
		t.Fatal("expected non-nil backend")
	}
}

func TestSplitMessages(t *testing.T) {
	system, turns := splitMessages([]model.Message{
		{Role: model.RoleSystem, Content: "act as a reviewer"},
		{Role: model.RoleUser, Content: "question text"},
		{Role: model.RoleAssistant, Content: "draft answer"},
		{Role: "tool", Content: "unknown role"},
	})

	if len(system) != 1 {
		t.Fatalf("system blocks = %d, want 1", len(system))
	}
	if system[0].Text != "act as a reviewer" {
		t.Errorf("system text = %q, want the system content", system[0].Text)
	}

	if len(turns) != 3 {
		t.Fatalf("turns = %d, want 3", len(turns))
	}
	wantRoles := []anthropic.MessageParamRole{
		anthropic.MessageParamRoleUser,
		anthropic.MessageParamRoleAssistant,
		anthropic.MessageParamRoleUser, // unknown roles collapse to user
	}
	for i, want := range wantRoles {
		if turns[i].Role != want {
			t.Errorf("turn %d role = %q, want %q", i, turns[i].Role, want)
		}
	}
}

func TestSplitMessagesEmpty(t *testing.T) {
	system, turns := splitMessages(nil)
	if system != nil || turns != nil {
		t.Errorf("splitMessages(nil) = %v, %v, want nil, nil", system, turns)
	}
}

func TestMapErrorAPIError(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "https://api.anthropic.com/v1/messages", nil)
	if err != nil {
		t.Fatal(err)
	}
	cause := &anthropic.Error{
		StatusCode: 429,
		Request:    req,
		Response:   &http.Response{StatusCode: 429},
	}

	mapped := mapError(cause)

	var terr *model.TransportError
	if !errors.As(mapped, &terr) {
		t.Fatalf("mapError() = %T, want *model.TransportError", mapped)
	}
	if terr.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", terr.Provider)
	}
	if terr.StatusCode != 429 {
		t.Errorf("status = %d, want 429", terr.StatusCode)
	}
	if !errors.Is(mapped, cause) {
		t.Error("mapped error does not unwrap to the SDK error")
	}
}

func TestMapErrorNonAPIError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	mapped := mapError(cause)

	var terr *model.TransportError
	if !errors.As(mapped, &terr) {
		t.Fatalf("mapError() = %T, want *model.TransportError", mapped)
	}
	if terr.StatusCode != 0 {
		t.Errorf("status = %d, want 0 for a sub-HTTP failure", terr.StatusCode)
	}
	if terr.Body != cause.Error() {
		t.Errorf("body = %q, want the cause text", terr.Body)
	}
	if !errors.Is(mapped, cause) {
		t.Error("mapped error does not unwrap to the cause")
	}
}
