package review

import (
	"errors"

	"github.com/quizsmith/review-go/review/model"
)

// ParseError indicates that a model response could not be reduced to a
// usable structured record. It triggers the agent's one-hop fallback.
type ParseError struct {
	// Message describes what was missing or malformed.
	Message string

	// Cause is the underlying decode error, if any.
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return "parse: " + e.Message + ": " + e.Cause.Error()
	}
	return "parse: " + e.Message
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// SystemError indicates an unexpected failure outside any agent boundary.
// It aborts the review for the current question only, never the batch.
type SystemError struct {
	Message string
	Cause   error
}

func (e *SystemError) Error() string {
	if e.Cause != nil {
		return "system: " + e.Message + ": " + e.Cause.Error()
	}
	return "system: " + e.Message
}

// Unwrap returns the underlying failure.
func (e *SystemError) Unwrap() error {
	return e.Cause
}

// isAgentRecoverable reports whether an error is one of the kinds the
// per-agent fallback chain handles: configuration, transport, or parse
// failures. Context cancellation is not recoverable; retrying the
// fallback route with a dead context would only mask the cancellation.
func isAgentRecoverable(err error) bool {
	var configErr *model.ConfigError
	if errors.As(err, &configErr) {
		return true
	}
	var transportErr *model.TransportError
	if errors.As(err, &transportErr) {
		return true
	}
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
