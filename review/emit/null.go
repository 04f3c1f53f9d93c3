package emit

// NullEmitter implements Emitter by discarding all events.
//
// Useful when the caller only needs the log carried on the ReviewResult
// and no live streaming.
type NullEmitter struct{}

// NewNullEmitter creates a NullEmitter.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit discards the event.
func (n *NullEmitter) Emit(event Event) {}
