package model

import (
	"context"
	"strings"
	"sync"
)

// ProviderClient implements Client by resolving Refs through a Catalog
// and dispatching to registered provider backends.
//
// The client holds no credentials itself; keys live in the catalog and
// are handed to backends at registration time by the caller. A typical
// wiring:
//
//	catalog := model.CatalogFromEnv()
//	client := model.NewClient(catalog)
//	client.Register("anthropic", anthropic.New(os.Getenv("ANTHROPIC_API_KEY")))
//	client.Register("openai", openai.New(os.Getenv("OPENAI_API_KEY")))
//	client.Register("google", google.New(ctx, os.Getenv("GOOGLE_API_KEY")))
//
// ProviderClient is safe for concurrent use once registration is done.
type ProviderClient struct {
	catalog Catalog

	mu       sync.RWMutex
	backends map[string]ChatModel
}

// NewClient creates a ProviderClient over the given catalog with no
// backends registered. Calls to unregistered providers fail with
// *ConfigError.
func NewClient(catalog Catalog) *ProviderClient {
	return &ProviderClient{
		catalog:  catalog,
		backends: make(map[string]ChatModel),
	}
}

// Register installs a backend for the named provider, replacing any
// previous registration.
func (c *ProviderClient) Register(provider string, backend ChatModel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backends[provider] = backend
}

// Call implements the Client interface.
//
// The ref is resolved through the catalog first, so a missing or
// placeholder credential surfaces as *ConfigError before any network
// traffic. Remote failures surface as *TransportError from the backend.
// The returned text is trimmed; an empty response body is "" with a nil
// error.
func (c *ProviderClient) Call(ctx context.Context, messages []Message, ref Ref, temperature float64) (string, error) {
	spec, err := c.catalog.Resolve(ref)
	if err != nil {
		return "", err
	}

	c.mu.RLock()
	backend, ok := c.backends[ref.Provider]
	c.mu.RUnlock()

	if !ok {
		return "", &ConfigError{
			Provider: ref.Provider,
			Tier:     ref.Tier,
			Message:  "no backend registered",
		}
	}

	text, err := backend.Chat(ctx, spec.Model, messages, temperature)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}
