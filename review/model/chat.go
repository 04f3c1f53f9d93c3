// Package model provides the inference client used by review agents.
//
// The package separates three concerns:
//   - Message / role constants: the common chat format shared by providers
//   - Catalog: an immutable mapping of (provider, tier) pairs to concrete
//     model identifiers and credentials
//   - Client: a single call surface that resolves a Ref through the catalog
//     and dispatches to the registered provider backend
//
// Provider backends live in subpackages (anthropic, openai, google), each
// wrapping the official SDK. A Mock client is provided for tests.
package model

import "context"

// Message represents a single message in a chat completion request.
//
// Messages follow the common chat format used by OpenAI, Anthropic, and
// Google. A typical agent request is a system message carrying the role
// instructions followed by one user message carrying the question.
type Message struct {
	// Role identifies the message sender. Use the Role* constants.
	Role string

	// Content contains the message text.
	Content string
}

// Standard role constants for chat completion requests.
const (
	// RoleSystem indicates a system message that sets context or instructions.
	RoleSystem = "system"

	// RoleUser indicates a message from the caller.
	RoleUser = "user"

	// RoleAssistant indicates a prior model response included for context.
	RoleAssistant = "assistant"
)

// Ref names a (provider, tier) pair in the catalog.
//
// Agents address models indirectly through Refs so that the concrete model
// identifier and credential stay in one configuration value. A Ref is only
// meaningful together with the Catalog that resolves it.
type Ref struct {
	// Provider is the backend name: "anthropic", "openai", or "google".
	Provider string

	// Tier selects a capability/cost tier within the provider,
	// e.g. TierDefault for review judgments, TierFast for planning.
	Tier string
}

// Standard tier names used by the default catalog.
const (
	// TierDefault is the provider's balanced model, used for judgments.
	TierDefault = "default"

	// TierFast is the provider's fastest/cheapest model, used for planning
	// and as a fallback hop.
	TierFast = "fast"
)

// Client issues chat completion calls addressed by catalog Ref.
//
// Implementations must:
//   - Resolve ref through a Catalog and fail with *ConfigError when no
//     usable credential is configured
//   - Fail with *TransportError carrying the provider status code and body
//     when the remote call does not succeed
//   - Return the trimmed primary text of the response on success; an empty
//     response body is returned as "" and is never an error by itself
//   - Respect context cancellation and deadlines
type Client interface {
	// Call sends messages to the model named by ref and returns its text.
	Call(ctx context.Context, messages []Message, ref Ref, temperature float64) (string, error)
}

// ChatModel is implemented by provider backends.
//
// Backends receive the already-resolved model identifier; credential
// handling happens at construction time in the provider subpackage.
type ChatModel interface {
	// Chat sends messages to the given model and returns the response text.
	// A response with no content returns "" and a nil error.
	Chat(ctx context.Context, modelID string, messages []Message, temperature float64) (string, error)
}
