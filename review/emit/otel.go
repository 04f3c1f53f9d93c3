package emit

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter implements Emitter by creating OpenTelemetry spans.
//
// Each progress event becomes an immediately-ended span:
//   - Span name: the event message's agent context, or "review" for
//     review-level events
//   - Attributes: question code, agent, level, plus all Meta fields
//   - Status: error when the event level is LevelError or Meta carries
//     an "error" entry
//
// Usage:
//
//	tracer := otel.Tracer("review-go")
//	emitter := emit.NewOTelEmitter(tracer)
//	pipe := review.New(client, review.WithEmitter(emitter))
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an OTelEmitter over the given tracer.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit creates a span for the event. The span is ended immediately;
// events represent points in time, not durations.
func (o *OTelEmitter) Emit(event Event) {
	name := event.Agent
	if name == "" {
		name = "review"
	}

	_, span := o.tracer.Start(context.Background(), name)
	defer span.End()

	span.SetAttributes(
		attribute.String("review.question_code", event.Code),
		attribute.String("review.agent", event.Agent),
		attribute.String("review.level", event.Level),
		attribute.String("review.msg", event.Msg),
	)
	o.addMetaAttributes(span, event.Meta)

	if event.Level == LevelError {
		span.SetStatus(codes.Error, event.Msg)
	}
	if errMsg, ok := event.Meta["error"].(string); ok {
		span.SetStatus(codes.Error, errMsg)
		span.RecordError(fmt.Errorf("%s", errMsg))
	}
}

// Flush forces export of pending spans via the global tracer provider,
// when the provider supports it. Call before shutdown.
func (o *OTelEmitter) Flush(ctx context.Context) error {
	type flusher interface {
		ForceFlush(context.Context) error
	}
	if f, ok := otel.GetTracerProvider().(flusher); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}

// addMetaAttributes converts Meta entries to span attributes. Durations
// become milliseconds; unknown types fall back to their string form.
func (o *OTelEmitter) addMetaAttributes(span trace.Span, meta map[string]interface{}) {
	for key, value := range meta {
		attrKey := "review." + key
		switch v := value.(type) {
		case string:
			span.SetAttributes(attribute.String(attrKey, v))
		case int:
			span.SetAttributes(attribute.Int(attrKey, v))
		case int64:
			span.SetAttributes(attribute.Int64(attrKey, v))
		case float64:
			span.SetAttributes(attribute.Float64(attrKey, v))
		case bool:
			span.SetAttributes(attribute.Bool(attrKey, v))
		case time.Duration:
			span.SetAttributes(attribute.Int64(attrKey, int64(v/time.Millisecond)))
		default:
			span.SetAttributes(attribute.String(attrKey, fmt.Sprintf("%v", v)))
		}
	}
}
