// Package emit provides progress emission for question reviews.
//
// Every review produces an ordered sequence of human-readable progress
// lines. The pipeline appends lines through an Emitter so callers can
// stream them (LogEmitter), collect them for later inspection
// (BufferedEmitter), export them as trace spans (OTelEmitter), or drop
// them (NullEmitter).
package emit

// Emitter receives progress events from review execution.
//
// Implementations should be:
//   - Thread-safe: stage agents emit concurrently within one review
//   - Non-blocking: a slow backend must not stall the pipeline
//   - Resilient: emit failures are swallowed, never panicked
type Emitter interface {
	// Emit sends one progress event. Must not panic.
	Emit(event Event)
}

// MultiEmitter fans one event out to several backends, e.g. a LogEmitter
// for streaming plus a BufferedEmitter for the result log.
type MultiEmitter struct {
	emitters []Emitter
}

// NewMultiEmitter creates an emitter that forwards to all of the given
// backends in order. Nil entries are skipped.
func NewMultiEmitter(emitters ...Emitter) *MultiEmitter {
	var kept []Emitter
	for _, e := range emitters {
		if e != nil {
			kept = append(kept, e)
		}
	}
	return &MultiEmitter{emitters: kept}
}

// Emit forwards the event to every backend.
func (m *MultiEmitter) Emit(event Event) {
	for _, e := range m.emitters {
		e.Emit(event)
	}
}
