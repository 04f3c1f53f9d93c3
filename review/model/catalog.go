package model

import (
	"os"
	"strings"
)

// Spec resolves a catalog Ref to a concrete model and credential.
type Spec struct {
	// Model is the provider's model identifier, e.g. "claude-3-5-haiku-20241022".
	Model string

	// APIKey is the credential used to authenticate the call.
	APIKey string
}

// Catalog is an immutable mapping of (provider, tier) pairs to model
// specs. It is passed explicitly to the client rather than read from
// ambient state so tests can substitute a stub catalog.
//
// Example:
//
//	catalog := model.NewCatalog(map[model.Ref]model.Spec{
//	    {Provider: "anthropic", Tier: model.TierDefault}: {Model: "claude-sonnet-4-20250514", APIKey: key},
//	    {Provider: "anthropic", Tier: model.TierFast}:    {Model: "claude-3-5-haiku-20241022", APIKey: key},
//	})
type Catalog struct {
	specs map[Ref]Spec
}

// NewCatalog creates a Catalog from the given specs. The input map is
// copied; later mutation of the argument does not affect the catalog.
func NewCatalog(specs map[Ref]Spec) Catalog {
	copied := make(map[Ref]Spec, len(specs))
	for ref, spec := range specs {
		copied[ref] = spec
	}
	return Catalog{specs: copied}
}

// CatalogFromEnv builds the standard catalog from environment variables:
// ANTHROPIC_API_KEY, OPENAI_API_KEY, and GOOGLE_API_KEY. Entries for
// providers with no key present still exist in the catalog; resolving
// them fails with *ConfigError at call time, which lets the per-agent
// fallback chain route around an unconfigured provider.
func CatalogFromEnv() Catalog {
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	openaiKey := os.Getenv("OPENAI_API_KEY")
	googleKey := os.Getenv("GOOGLE_API_KEY")

	return NewCatalog(map[Ref]Spec{
		{Provider: "anthropic", Tier: TierDefault}: {Model: "claude-sonnet-4-20250514", APIKey: anthropicKey},
		{Provider: "anthropic", Tier: TierFast}:    {Model: "claude-3-5-haiku-20241022", APIKey: anthropicKey},
		{Provider: "openai", Tier: TierDefault}:    {Model: "gpt-4o", APIKey: openaiKey},
		{Provider: "openai", Tier: TierFast}:       {Model: "gpt-4o-mini", APIKey: openaiKey},
		{Provider: "google", Tier: TierDefault}:    {Model: "gemini-1.5-pro", APIKey: googleKey},
		{Provider: "google", Tier: TierFast}:       {Model: "gemini-1.5-flash", APIKey: googleKey},
	})
}

// placeholderKeys are credential values that indicate an unfilled
// configuration template rather than a real key.
var placeholderKeys = []string{
	"your-api-key",
	"your_api_key",
	"changeme",
	"sk-xxx",
	"<api-key>",
}

// Resolve looks up ref and validates its credential.
//
// Returns *ConfigError when the ref is unknown, the key is empty, or the
// key is a known placeholder value.
func (c Catalog) Resolve(ref Ref) (Spec, error) {
	spec, ok := c.specs[ref]
	if !ok {
		return Spec{}, &ConfigError{
			Provider: ref.Provider,
			Tier:     ref.Tier,
			Message:  "no catalog entry",
		}
	}

	if spec.APIKey == "" {
		return Spec{}, &ConfigError{
			Provider: ref.Provider,
			Tier:     ref.Tier,
			Message:  "no API key configured",
		}
	}

	lower := strings.ToLower(spec.APIKey)
	for _, placeholder := range placeholderKeys {
		if lower == placeholder {
			return Spec{}, &ConfigError{
				Provider: ref.Provider,
				Tier:     ref.Tier,
				Message:  "API key is a placeholder value",
			}
		}
	}

	return spec, nil
}
