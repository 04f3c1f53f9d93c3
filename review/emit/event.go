package emit

// Event levels. Warnings mark agent fallback exhaustion; errors mark a
// review-level failure.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Event represents one progress line from a review.
//
// Events within a single review are causally ordered: all stage-1 agent
// events precede all stage-2 agent events, though agents within a stage
// may interleave arbitrarily.
type Event struct {
	// Code identifies the question under review.
	Code string

	// Agent is the agent name that produced the line, or "" for
	// review-level events (start, done, batch progress).
	Agent string

	// Level is one of LevelInfo, LevelWarn, LevelError.
	Level string

	// Msg is the human-readable progress line.
	Msg string

	// Meta carries optional structured data. Common keys:
	//   - "elapsed_ms": review duration in milliseconds
	//   - "error": failure detail for warn/error events
	//   - "index", "total": batch progress counters
	Meta map[string]interface{}
}
