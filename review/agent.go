package review

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quizsmith/review-go/review/emit"
	"github.com/quizsmith/review-go/review/model"
)

// ModelRoute is an agent's primary (provider, tier) pair and the single
// fallback hop taken when the primary call fails with a configuration,
// transport, or parse error. Exactly one hop is attempted; there is no
// unbounded retry.
type ModelRoute struct {
	Primary     model.Ref
	Fallback    model.Ref
	Temperature float64
}

// Routes assigns a ModelRoute to every agent, including the planner.
// Use DefaultRoutes as a base and override per deployment.
type Routes struct {
	Planner     ModelRoute
	Verifier    ModelRoute
	Conflict    ModelRoute
	Difficulty  ModelRoute
	Unit        ModelRoute
	Explanation ModelRoute
	Mnemonic    ModelRoute
	Calculation ModelRoute
}

// DefaultRoutes returns the standard routing: judgment agents on the
// default Anthropic tier with an OpenAI fallback, the planner and the
// lighter agents on fast tiers.
func DefaultRoutes() Routes {
	judgment := ModelRoute{
		Primary:     model.Ref{Provider: "anthropic", Tier: model.TierDefault},
		Fallback:    model.Ref{Provider: "openai", Tier: model.TierDefault},
		Temperature: 0.2,
	}
	light := ModelRoute{
		Primary:     model.Ref{Provider: "anthropic", Tier: model.TierFast},
		Fallback:    model.Ref{Provider: "openai", Tier: model.TierFast},
		Temperature: 0.4,
	}

	return Routes{
		Planner: ModelRoute{
			Primary:     model.Ref{Provider: "anthropic", Tier: model.TierFast},
			Fallback:    model.Ref{Provider: "google", Tier: model.TierFast},
			Temperature: 0.0,
		},
		Verifier:    judgment,
		Conflict:    judgment,
		Difficulty:  light,
		Unit:        light,
		Explanation: judgment,
		Mnemonic: ModelRoute{
			Primary:     model.Ref{Provider: "anthropic", Tier: model.TierFast},
			Fallback:    model.Ref{Provider: "openai", Tier: model.TierFast},
			Temperature: 0.8,
		},
		Calculation: judgment,
	}
}

// completeJSON issues one chat completion and decodes the response into
// T, with the one-hop fallback semantics every agent shares:
//
//  1. Call the primary route; parse the response
//  2. On a recoverable failure (config/transport/parse), call the
//     fallback route once and parse again
//  3. Return the second failure as-is; the caller substitutes the
//     agent's degraded default
//
// fellBack reports whether the fallback hop was taken, successful or
// not. A per-call timeout > 0 bounds each hop separately.
func completeJSON[T any](ctx context.Context, client model.Client, messages []model.Message, route ModelRoute, timeout time.Duration) (out T, fellBack bool, err error) {
	out, err = callAndDecode[T](ctx, client, messages, route.Primary, route.Temperature, timeout)
	if err == nil {
		return out, false, nil
	}
	if !isAgentRecoverable(err) {
		return out, false, err
	}

	out, err = callAndDecode[T](ctx, client, messages, route.Fallback, route.Temperature, timeout)
	return out, true, err
}

func callAndDecode[T any](ctx context.Context, client model.Client, messages []model.Message, ref model.Ref, temperature float64, timeout time.Duration) (T, error) {
	var out T

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	text, err := client.Call(ctx, messages, ref, temperature)
	if err != nil {
		return out, err
	}
	return DecodeJSON[T](text)
}

// reviewLog is the append-only log shared by all agents of one review.
//
// Lines are kept in emission order and forwarded to the pipeline's
// emitter so callers can stream progress. The stage barrier in the
// pipeline guarantees stage-2 lines follow all stage-1 lines; within a
// stage, agents interleave freely.
type reviewLog struct {
	mu      sync.Mutex
	code    string
	emitter emit.Emitter
	lines   []string
}

func newReviewLog(code string, emitter emit.Emitter) *reviewLog {
	return &reviewLog{code: code, emitter: emitter}
}

func (l *reviewLog) infof(agent, format string, args ...interface{}) {
	l.append(agent, emit.LevelInfo, fmt.Sprintf(format, args...), nil)
}

func (l *reviewLog) warnf(agent, format string, args ...interface{}) {
	l.append(agent, emit.LevelWarn, fmt.Sprintf(format, args...), nil)
}

func (l *reviewLog) event(agent, level, msg string, meta map[string]interface{}) {
	l.append(agent, level, msg, meta)
}

func (l *reviewLog) append(agent, level, msg string, meta map[string]interface{}) {
	l.mu.Lock()
	line := msg
	if agent != "" {
		line = agent + ": " + msg
	}
	if level == emit.LevelWarn {
		line = "warning: " + line
	}
	l.lines = append(l.lines, line)
	l.mu.Unlock()

	if l.emitter != nil {
		l.emitter.Emit(emit.Event{
			Code:  l.code,
			Agent: agent,
			Level: level,
			Msg:   msg,
			Meta:  meta,
		})
	}
}

// snapshot returns a copy of the collected lines.
func (l *reviewLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines := make([]string, len(l.lines))
	copy(lines, l.lines)
	return lines
}
