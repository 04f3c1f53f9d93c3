package model

import "fmt"

// ConfigError indicates a missing or placeholder credential for a
// catalog entry. Configuration problems are reported per call, not at
// startup, so a review with one misconfigured provider can still fall
// back to another.
type ConfigError struct {
	// Provider and Tier identify the catalog entry that failed to resolve.
	Provider string
	Tier     string

	// Message describes what was wrong with the configuration.
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("model config %s/%s: %s", e.Provider, e.Tier, e.Message)
}

// TransportError indicates a non-success response from a provider API.
// It carries the provider's status code and response body so callers can
// log the failure without re-parsing error strings.
type TransportError struct {
	// Provider is the backend that returned the failure.
	Provider string

	// StatusCode is the HTTP status code, or 0 when the failure happened
	// below the HTTP layer (connection refused, DNS, etc.).
	StatusCode int

	// Body is the provider's response body or error text.
	Body string

	// Cause is the underlying SDK error.
	Cause error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Body)
}

// Unwrap returns the underlying SDK error for errors.Is/As support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}
