package model

import (
	"context"
	"errors"
	"testing"
)

// fakeBackend implements ChatModel for client tests.
type fakeBackend struct {
	response string
	err      error

	gotModel    string
	gotMessages []Message
	gotTemp     float64
}

func (f *fakeBackend) Chat(_ context.Context, modelID string, messages []Message, temperature float64) (string, error) {
	f.gotModel = modelID
	f.gotMessages = messages
	f.gotTemp = temperature
	return f.response, f.err
}

func testCatalog() Catalog {
	return NewCatalog(map[Ref]Spec{
		{Provider: "anthropic", Tier: TierDefault}: {Model: "claude-sonnet-4-20250514", APIKey: "sk-ant-real"},
		{Provider: "openai", Tier: TierDefault}:    {Model: "gpt-4o", APIKey: ""},
	})
}

func TestProviderClientCall(t *testing.T) {
	backend := &fakeBackend{response: "  {\"verdict\":\"agree\"}  \n"}
	client := NewClient(testCatalog())
	client.Register("anthropic", backend)

	messages := []Message{
		{Role: RoleSystem, Content: "verify"},
		{Role: RoleUser, Content: "question"},
	}
	got, err := client.Call(context.Background(), messages, Ref{Provider: "anthropic", Tier: TierDefault}, 0.2)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got != `{"verdict":"agree"}` {
		t.Errorf("response = %q, want trimmed text", got)
	}
	if backend.gotModel != "claude-sonnet-4-20250514" {
		t.Errorf("backend model = %q, want catalog resolution", backend.gotModel)
	}
	if len(backend.gotMessages) != 2 || backend.gotTemp != 0.2 {
		t.Errorf("backend got %d messages at temp %v", len(backend.gotMessages), backend.gotTemp)
	}
}

func TestProviderClientConfigErrorBeforeNetwork(t *testing.T) {
	backend := &fakeBackend{response: "should never be called"}
	client := NewClient(testCatalog())
	client.Register("openai", backend)

	// The openai entry exists but has no key; the backend must not be
	// reached.
	_, err := client.Call(context.Background(), nil, Ref{Provider: "openai", Tier: TierDefault}, 0)
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
	if backend.gotModel != "" {
		t.Error("backend was called despite credential failure")
	}
}

func TestProviderClientUnregisteredBackend(t *testing.T) {
	client := NewClient(testCatalog())

	_, err := client.Call(context.Background(), nil, Ref{Provider: "anthropic", Tier: TierDefault}, 0)
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
}

func TestProviderClientPropagatesTransportError(t *testing.T) {
	backend := &fakeBackend{err: &TransportError{Provider: "anthropic", StatusCode: 529, Body: "overloaded"}}
	client := NewClient(testCatalog())
	client.Register("anthropic", backend)

	_, err := client.Call(context.Background(), nil, Ref{Provider: "anthropic", Tier: TierDefault}, 0)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if terr.StatusCode != 529 {
		t.Errorf("status = %d, want 529", terr.StatusCode)
	}
}

func TestMockSequentialResponses(t *testing.T) {
	mock := &Mock{Responses: []string{"first", "second"}}

	ctx := context.Background()
	ref := Ref{Provider: "anthropic", Tier: TierDefault}

	for i, want := range []string{"first", "second", "second"} {
		got, err := mock.Call(ctx, nil, ref, 0)
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if got != want {
			t.Errorf("call %d = %q, want %q (last response repeats)", i, got, want)
		}
	}
	if mock.CallCount() != 3 {
		t.Errorf("call count = %d, want 3", mock.CallCount())
	}

	mock.Reset()
	if mock.CallCount() != 0 {
		t.Error("Reset did not clear call history")
	}
	if got, _ := mock.Call(ctx, nil, ref, 0); got != "first" {
		t.Errorf("after Reset call = %q, want sequence restarted", got)
	}
}
