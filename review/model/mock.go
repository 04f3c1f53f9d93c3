package model

import (
	"context"
	"sync"
)

// Mock is a test implementation of Client.
//
// It supports two modes:
//
//   - Scripted: set Script to a function that inspects the request and
//     chooses the response. This is the right mode when several agents
//     call the client concurrently and each needs its own answer.
//
//   - Sequential: leave Script nil and fill Responses; each call returns
//     the next entry, repeating the last one when exhausted. Err, if set,
//     is returned for every call instead.
//
// All calls are recorded in Calls regardless of outcome.
//
// Example:
//
//	mock := &model.Mock{
//	    Script: func(messages []model.Message, ref model.Ref) (string, error) {
//	        if strings.Contains(messages[len(messages)-1].Content, "difficulty") {
//	            return `{"difficulty":"Hard"}`, nil
//	        }
//	        return "", &model.TransportError{Provider: ref.Provider, StatusCode: 500, Body: "boom"}
//	    },
//	}
type Mock struct {
	// Script, if non-nil, decides the response per call.
	Script func(messages []Message, ref Ref) (string, error)

	// Responses is the sequence returned when Script is nil.
	Responses []string

	// Err, if set and Script is nil, is returned by every call.
	Err error

	// Calls records every invocation in order.
	Calls []MockCall

	mu        sync.Mutex
	callIndex int
}

// MockCall records a single invocation of Call().
type MockCall struct {
	Messages    []Message
	Ref         Ref
	Temperature float64
}

// Call implements the Client interface.
func (m *Mock) Call(ctx context.Context, messages []Message, ref Ref, temperature float64) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Messages: messages, Ref: ref, Temperature: temperature})
	script := m.Script
	var response string
	var err error
	if script == nil {
		if m.Err != nil {
			err = m.Err
		} else if len(m.Responses) > 0 {
			idx := m.callIndex
			if idx >= len(m.Responses) {
				idx = len(m.Responses) - 1
			} else {
				m.callIndex++
			}
			response = m.Responses[idx]
		}
	}
	m.mu.Unlock()

	if script != nil {
		return script(messages, ref)
	}
	return response, err
}

// CallCount returns the number of recorded calls.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// CallsTo returns the recorded calls addressed to the given provider.
func (m *Mock) CallsTo(provider string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var calls []MockCall
	for _, call := range m.Calls {
		if call.Ref.Provider == provider {
			calls = append(calls, call)
		}
	}
	return calls
}

// Reset clears the call history and response index.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
	m.callIndex = 0
}
