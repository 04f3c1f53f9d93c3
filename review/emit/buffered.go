package emit

import "sync"

// BufferedEmitter implements Emitter by storing events in memory,
// grouped by question code.
//
// This is the backend used in tests and by callers that want to inspect
// the full progress log after a batch finishes. Events are kept in
// emission order, so the causal ordering guarantee of the pipeline
// (stage-1 lines before stage-2 lines) is observable here.
//
// Warning: events accumulate until cleared. For long-running batch
// services, call Clear between batches.
//
// Example:
//
//	buf := emit.NewBufferedEmitter()
//	pipe := review.New(client, review.WithEmitter(buf))
//	pipe.Review(ctx, question)
//	for _, ev := range buf.History("Q-2031") {
//	    fmt.Println(ev.Msg)
//	}
type BufferedEmitter struct {
	mu     sync.RWMutex
	events map[string][]Event // question code -> events in emission order
}

// HistoryFilter selects a subset of a question's events. Empty fields
// match everything; set fields combine with AND.
type HistoryFilter struct {
	Agent string // filter by agent name
	Level string // filter by level
}

// NewBufferedEmitter creates an empty BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{events: make(map[string][]Event)}
}

// Emit stores the event. Safe for concurrent use.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[event.Code] = append(b.events[event.Code], event)
}

// History returns all events for a question code in emission order.
// Returns an empty slice for unknown codes. The result is a copy.
func (b *BufferedEmitter) History(code string) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	events := b.events[code]
	result := make([]Event, len(events))
	copy(result, events)
	return result
}

// HistoryWithFilter returns the events for a question code that match
// the filter, in emission order.
func (b *BufferedEmitter) HistoryWithFilter(code string, filter HistoryFilter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := []Event{}
	for _, event := range b.events[code] {
		if filter.Agent != "" && event.Agent != filter.Agent {
			continue
		}
		if filter.Level != "" && event.Level != filter.Level {
			continue
		}
		result = append(result, event)
	}
	return result
}

// Clear removes stored events. With a non-empty code only that
// question's events are removed; with "" everything is removed.
func (b *BufferedEmitter) Clear(code string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if code == "" {
		b.events = make(map[string][]Event)
		return
	}
	delete(b.events, code)
}
