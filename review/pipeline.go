package review

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quizsmith/review-go/review/emit"
	"github.com/quizsmith/review-go/review/model"
)

// Review statuses.
const (
	// StatusDone: the pipeline ran to synthesis. Individual agents may
	// still have degraded; check the failure-reason fields.
	StatusDone = "done"

	// StatusError: a system error outside every agent boundary aborted
	// the review. No agent results are carried.
	StatusError = "error"
)

// ReviewResult is the synthesis of one question's review. Immutable once
// produced; persistence and export are the caller's concern.
type ReviewResult struct {
	// Code identifies the reviewed question.
	Code string `json:"code"`

	// Status is StatusDone or StatusError.
	Status string `json:"status"`

	// Plan is the executed plan (the default plan when planning failed).
	Plan ExecutionPlan `json:"plan"`

	// Results holds every agent's output; nil fields mean the agent did
	// not run.
	Results AgentResults `json:"results"`

	// FinalAnswer is the recommended answer after synthesis.
	FinalAnswer string `json:"final_answer"`

	// NeedsHuman flags the review for human attention. This is the
	// single most important signal and is always explained in Summary.
	NeedsHuman bool `json:"needs_human"`

	// HasConflict reports disagreement among the recorded answers or an
	// uncertain verification.
	HasConflict bool `json:"has_conflict"`

	// Summary is a human-readable digest of every notice the review
	// produced, suitable for direct display.
	Summary string `json:"summary"`

	// Elapsed is the wall-clock review duration.
	Elapsed time.Duration `json:"elapsed"`

	// Log is the ordered progress log: stage-1 lines interleave among
	// themselves, stage-2 lines follow all stage-1 lines.
	Log []string `json:"log"`
}

// Options configures pipeline execution. Zero values select defaults.
type Options struct {
	// CallTimeout bounds each model call (each fallback hop separately).
	// Default 60s; 0 keeps the default, negative disables the timeout.
	CallTimeout time.Duration

	// QuestionPause is the fixed pause between batch questions,
	// respecting upstream rate limits. Default 2s; negative disables.
	QuestionPause time.Duration
}

// Option is a functional option for configuring a Pipeline.
type Option func(*Pipeline)

// WithEmitter streams progress events to the given emitter. The result
// log is carried on ReviewResult regardless.
func WithEmitter(emitter emit.Emitter) Option {
	return func(p *Pipeline) {
		if emitter != nil {
			p.emitter = emitter
		}
	}
}

// WithMetrics records pipeline metrics to the given collectors.
func WithMetrics(metrics *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = metrics
	}
}

// WithRoutes overrides the per-agent model routing.
func WithRoutes(routes Routes) Option {
	return func(p *Pipeline) {
		p.routes = routes
	}
}

// WithCallTimeout bounds each model call. Negative disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.opts.CallTimeout = d
	}
}

// WithQuestionPause sets the pause between batch questions. Negative
// disables the pause.
func WithQuestionPause(d time.Duration) Option {
	return func(p *Pipeline) {
		p.opts.QuestionPause = d
	}
}

// Pipeline coordinates one review: planning, two concurrent agent
// stages with a hard barrier between them, and synthesis.
//
// The pipeline holds no per-question state; a single Pipeline can be
// shared across goroutines, though ReviewBatch itself processes
// questions strictly sequentially.
//
// Example:
//
//	catalog := model.CatalogFromEnv()
//	client := model.NewClient(catalog)
//	client.Register("anthropic", anthropic.New(os.Getenv("ANTHROPIC_API_KEY")))
//
//	pipe := review.New(client, review.WithEmitter(emit.NewLogEmitter(os.Stdout, false)))
//	result := pipe.Review(ctx, question)
//	fmt.Println(result.Summary)
type Pipeline struct {
	client  model.Client
	emitter emit.Emitter
	metrics *Metrics
	routes  Routes
	opts    Options
}

// New creates a Pipeline over the given inference client.
func New(client model.Client, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:  client,
		emitter: emit.NewNullEmitter(),
		routes:  DefaultRoutes(),
		opts: Options{
			CallTimeout:   60 * time.Second,
			QuestionPause: 2 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.opts.CallTimeout < 0 {
		p.opts.CallTimeout = 0
	}
	if p.opts.QuestionPause < 0 {
		p.opts.QuestionPause = 0
	}
	return p
}

// Review runs the full pipeline for one question.
//
// Review never returns an error and never panics past its boundary:
// agent failures and agent panics degrade to defaults on the agent's
// own goroutine, and anything unexpected at the coordination level is
// recovered into a StatusError result with NeedsHuman set.
func (p *Pipeline) Review(ctx context.Context, q Question) (result ReviewResult) {
	start := time.Now()
	rl := newReviewLog(q.Code, p.emitter)

	defer func() {
		if r := recover(); r != nil {
			result = p.systemFailure(q, r, rl, start)
		}
	}()

	rl.event("", emit.LevelInfo, "review started", nil)

	// Planning
	plan := p.planQuestion(ctx, q, rl)

	// Stage 1: independent judgments, fanned out concurrently. The stage
	// completes only when all gated agents settle; an agent that
	// degraded internally still settles normally.
	var results AgentResults
	var wg sync.WaitGroup

	if plan.Includes(AgentAnswerVerifier) {
		stageGo(p, &wg, rl, AgentAnswerVerifier, &results.Verifier, degradedVerifier, func() *VerifierResult {
			return p.runVerifier(ctx, q, rl)
		})
	}
	if plan.Includes(AgentDifficultyRater) {
		stageGo(p, &wg, rl, AgentDifficultyRater, &results.Difficulty, func(reason string) *DifficultyResult {
			return degradedDifficulty(q.Difficulty, reason)
		}, func() *DifficultyResult {
			return p.runDifficulty(ctx, q, rl)
		})
	}
	if plan.Includes(AgentUnitChecker) {
		stageGo(p, &wg, rl, AgentUnitChecker, &results.Unit, degradedUnit, func() *UnitResult {
			return p.runUnit(ctx, q, rl)
		})
	}
	wg.Wait()

	// Stage 2: agents that consume stage-1 output or are conditionally
	// forced. The barrier above is structural: the conflict analyzer
	// needs the verifier's result.
	if plan.Includes(AgentConflictAnalyzer) || p.conflictForced(q, plan, results.Verifier) {
		stageGo(p, &wg, rl, AgentConflictAnalyzer, &results.Conflict, degradedConflict, func() *ConflictResult {
			return p.runConflict(ctx, q, results.Verifier, rl)
		})
	}
	if plan.Includes(AgentExplanationCritic) {
		stageGo(p, &wg, rl, AgentExplanationCritic, &results.Explanation, degradedExplanation, func() *ExplanationResult {
			return p.runExplanation(ctx, q, rl)
		})
	}
	if plan.Includes(AgentMnemonicWriter) {
		stageGo(p, &wg, rl, AgentMnemonicWriter, &results.Mnemonic, degradedMnemonic, func() *MnemonicResult {
			return p.runMnemonic(ctx, q, rl)
		})
	}
	if plan.Includes(AgentCalculationChecker) || plan.IsNumerical {
		stageGo(p, &wg, rl, AgentCalculationChecker, &results.Calculation, degradedCalculation, func() *CalculationResult {
			return p.runCalculation(ctx, q, rl)
		})
	}
	wg.Wait()

	result = p.synthesize(q, plan, results, rl, start)
	p.metrics.recordReview(result.Status, result.NeedsHuman)
	return result
}

// stageGo launches one agent on the stage WaitGroup. A panic inside the
// agent is contained on the agent's own goroutine and folds into the
// agent's degraded default, so a single misbehaving agent costs only
// its result, not the review or the process.
func stageGo[T any](p *Pipeline, wg *sync.WaitGroup, rl *reviewLog, name string, dst **T, degraded func(reason string) *T, run func() *T) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.metrics.recordDegraded(name)
				rl.warnf(name, "agent panicked (%v); using degraded default", r)
				*dst = degraded(fmt.Sprintf("agent panicked: %v", r))
			}
		}()
		*dst = run()
	}()
}

// conflictForced decides the conflict analyzer's forced inclusion: the
// planner flagged a conflict, the recorded answers disagree, or the
// verifier could not commit. An uncertain verdict forces analysis even
// when all recorded answers agree.
func (p *Pipeline) conflictForced(q Question, plan ExecutionPlan, verifier *VerifierResult) bool {
	if plan.HasAnswerConflict || q.AnswersDisagree() {
		return true
	}
	return verifier != nil && verifier.Verdict == VerdictUncertain
}

// systemFailure converts a recovered panic into a StatusError result.
// The batch keeps going; only this question is lost.
func (p *Pipeline) systemFailure(q Question, cause interface{}, rl *reviewLog, start time.Time) ReviewResult {
	err := &SystemError{Message: fmt.Sprintf("review aborted: %v", cause)}
	rl.event("", emit.LevelError, err.Error(), map[string]interface{}{"error": err.Error()})
	p.metrics.recordReview(StatusError, true)

	return ReviewResult{
		Code:        q.Code,
		Status:      StatusError,
		NeedsHuman:  true,
		HasConflict: q.AnswersDisagree(),
		Summary:     "Needs human review: " + err.Error(),
		Elapsed:     time.Since(start),
		Log:         rl.snapshot(),
	}
}
