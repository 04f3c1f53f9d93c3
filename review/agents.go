package review

import (
	"context"
	"strings"

	"github.com/quizsmith/review-go/review/model"
)

// orchestratorName labels planner log lines. The orchestrator is not
// plan-selectable, so it is not part of knownAgents.
const orchestratorName = "orchestrator"

// runAgent executes one agent call with the shared failure semantics:
// primary call, one fallback hop, and on exhaustion the agent's fixed
// degraded default plus a warning line. The boolean reports success;
// false means the degraded default was substituted.
//
// No error leaves this function. That invariant is what lets the stages
// fan agents out without any failure coordination.
func runAgent[T any](p *Pipeline, ctx context.Context, rl *reviewLog, name string, messages []model.Message, route ModelRoute, degraded func(reason string) *T) (*T, bool) {
	timer := p.metrics.startAgent(name)

	out, fellBack, err := completeJSON[T](ctx, p.client, messages, route, p.opts.CallTimeout)
	if fellBack {
		p.metrics.recordFallback(name)
	}
	if err != nil {
		timer.done(false)
		p.metrics.recordDegraded(name)
		rl.warnf(name, "all model calls failed (%v); using degraded default", err)
		return degraded(err.Error()), false
	}

	timer.done(true)
	return &out, true
}

// planQuestion runs the orchestrator: one fast-tier call that selects
// the agents for this question. Planning is the only step whose fallback
// is not another model but a fixed local plan, so a review proceeds even
// with every provider down.
func (p *Pipeline) planQuestion(ctx context.Context, q Question, rl *reviewLog) ExecutionPlan {
	timer := p.metrics.startAgent(orchestratorName)

	out, fellBack, err := completeJSON[ExecutionPlan](ctx, p.client, plannerPrompt(q), p.routes.Planner, p.opts.CallTimeout)
	if fellBack {
		p.metrics.recordFallback(orchestratorName)
	}
	if err != nil {
		timer.done(false)
		p.metrics.recordDegraded(orchestratorName)
		rl.warnf(orchestratorName, "planning failed (%v); using default plan", err)
		return DefaultPlan(q)
	}

	plan := out.normalize()
	if len(plan.Agents) == 0 {
		timer.done(false)
		rl.warnf(orchestratorName, "planner selected no known agents; using default plan")
		return DefaultPlan(q)
	}

	timer.done(true)
	rl.infof(orchestratorName, "plan: %s", strings.Join(plan.Agents, ", "))
	return plan
}

func (p *Pipeline) runVerifier(ctx context.Context, q Question, rl *reviewLog) *VerifierResult {
	res, ok := runAgent(p, ctx, rl, AgentAnswerVerifier, verifierPrompt(q), p.routes.Verifier, degradedVerifier)
	if !ok {
		return res
	}

	res.Answer = normalizeOption(res.Answer)
	res.Confidence = normalizeConfidence(res.Confidence)
	res.Verdict = normalizeVerdict(res.Verdict)
	rl.infof(AgentAnswerVerifier, "answer %s, verdict %s (%s confidence)", orDash(res.Answer), res.Verdict, res.Confidence)
	return res
}

func (p *Pipeline) runConflict(ctx context.Context, q Question, verifier *VerifierResult, rl *reviewLog) *ConflictResult {
	res, ok := runAgent(p, ctx, rl, AgentConflictAnalyzer, conflictPrompt(q, verifier), p.routes.Conflict, degradedConflict)
	if !ok {
		return res
	}

	res.RecommendedAnswer = normalizeOption(res.RecommendedAnswer)
	rl.infof(AgentConflictAnalyzer, "resolution %s, recommends %s", res.Resolution, orDash(res.RecommendedAnswer))
	return res
}

func (p *Pipeline) runDifficulty(ctx context.Context, q Question, rl *reviewLog) *DifficultyResult {
	degraded := func(reason string) *DifficultyResult {
		return degradedDifficulty(q.Difficulty, reason)
	}
	res, ok := runAgent(p, ctx, rl, AgentDifficultyRater, difficultyPrompt(q), p.routes.Difficulty, degraded)
	if !ok {
		return res
	}

	if res.Suggested == "" {
		res.Suggested = res.Difficulty
	}
	rl.infof(AgentDifficultyRater, "rated %s (current label correct: %t)", res.Difficulty, res.CurrentCorrect)
	return res
}

func (p *Pipeline) runUnit(ctx context.Context, q Question, rl *reviewLog) *UnitResult {
	res, ok := runAgent(p, ctx, rl, AgentUnitChecker, unitPrompt(q), p.routes.Unit, degradedUnit)
	if !ok {
		return res
	}

	res.Confidence = normalizeConfidence(res.Confidence)
	if res.BelongsInUnit {
		rl.infof(AgentUnitChecker, "placement confirmed (%s confidence)", res.Confidence)
	} else {
		rl.infof(AgentUnitChecker, "placement questioned; suggests unit %q", res.SuggestedUnit)
	}
	return res
}

// runExplanation short-circuits without any model call when the question
// has no explanation text.
func (p *Pipeline) runExplanation(ctx context.Context, q Question, rl *reviewLog) *ExplanationResult {
	if !q.HasExplanation() {
		res := missingExplanation()
		rl.infof(AgentExplanationCritic, "no explanation on record; marked %s", res.Quality)
		return res
	}

	res, ok := runAgent(p, ctx, rl, AgentExplanationCritic, explanationPrompt(q), p.routes.Explanation, degradedExplanation)
	if !ok {
		return res
	}

	rl.infof(AgentExplanationCritic, "quality %s (score %d/10)", res.Quality, res.Score)
	return res
}

func (p *Pipeline) runMnemonic(ctx context.Context, q Question, rl *reviewLog) *MnemonicResult {
	res, ok := runAgent(p, ctx, rl, AgentMnemonicWriter, mnemonicPrompt(q), p.routes.Mnemonic, degradedMnemonic)
	if !ok {
		return res
	}

	rl.infof(AgentMnemonicWriter, "wrote %s mnemonic", res.Type)
	return res
}

func (p *Pipeline) runCalculation(ctx context.Context, q Question, rl *reviewLog) *CalculationResult {
	res, ok := runAgent(p, ctx, rl, AgentCalculationChecker, calculationPrompt(q), p.routes.Calculation, degradedCalculation)
	if !ok {
		return res
	}

	if res.Required {
		rl.infof(AgentCalculationChecker, "calculation verified (%s)", orDash(res.Formula))
	} else {
		rl.infof(AgentCalculationChecker, "no calculation required")
	}
	return res
}

// normalizeOption upper-cases and validates an option letter; anything
// outside A-D collapses to "".
func normalizeOption(answer string) string {
	answer = strings.ToUpper(strings.TrimSpace(answer))
	switch answer {
	case "A", "B", "C", "D":
		return answer
	}
	return ""
}

// normalizeConfidence collapses unrecognized levels to low, never up.
func normalizeConfidence(confidence string) string {
	switch strings.ToLower(strings.TrimSpace(confidence)) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceMedium:
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// normalizeVerdict collapses unrecognized verdicts to uncertain.
func normalizeVerdict(verdict string) string {
	switch strings.ToLower(strings.TrimSpace(verdict)) {
	case VerdictAgree:
		return VerdictAgree
	case VerdictManualCorrect:
		return VerdictManualCorrect
	case VerdictAICorrect:
		return VerdictAICorrect
	}
	return VerdictUncertain
}
