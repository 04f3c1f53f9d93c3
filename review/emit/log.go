package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// LogEmitter implements Emitter by writing progress lines to a writer.
//
// Two output modes:
//   - Text (default): human-readable, one line per event
//   - JSON: one JSON object per line (JSONL)
//
// Example text output:
//
//	[Q-2031] answer_verifier: Answer check: B (high confidence)
//	[Q-2031] warn conflict_analyzer: all model calls failed
//
// Usage:
//
//	emitter := emit.NewLogEmitter(os.Stdout, false)
type LogEmitter struct {
	mu       sync.Mutex
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter creates a LogEmitter writing to the given writer.
// A nil writer defaults to os.Stdout.
func NewLogEmitter(writer io.Writer, jsonMode bool) *LogEmitter {
	if writer == nil {
		writer = os.Stdout
	}
	return &LogEmitter{writer: writer, jsonMode: jsonMode}
}

// Emit writes one event. Safe for concurrent use; lines from concurrent
// agents never interleave mid-line.
func (l *LogEmitter) Emit(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.jsonMode {
		l.emitJSON(event)
		return
	}
	l.emitText(event)
}

func (l *LogEmitter) emitJSON(event Event) {
	data, err := json.Marshal(struct {
		Code  string                 `json:"code"`
		Agent string                 `json:"agent,omitempty"`
		Level string                 `json:"level"`
		Msg   string                 `json:"msg"`
		Meta  map[string]interface{} `json:"meta,omitempty"`
	}{
		Code:  event.Code,
		Agent: event.Agent,
		Level: event.Level,
		Msg:   event.Msg,
		Meta:  event.Meta,
	})
	if err != nil {
		fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogEmitter) emitText(event Event) {
	fmt.Fprintf(l.writer, "[%s]", event.Code)
	if event.Level != "" && event.Level != LevelInfo {
		fmt.Fprintf(l.writer, " %s", event.Level)
	}
	if event.Agent != "" {
		fmt.Fprintf(l.writer, " %s:", event.Agent)
	}
	fmt.Fprintf(l.writer, " %s\n", event.Msg)
}
