package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/quizsmith/review-go/review/emit"
)

// synthesize folds the agent outputs into a single ReviewResult. It
// never calls a model; everything here is deterministic given the
// collected results.
func (p *Pipeline) synthesize(q Question, plan ExecutionPlan, results AgentResults, rl *reviewLog, start time.Time) ReviewResult {
	finalAnswer := finalAnswer(q, results)
	needsHuman, escalation := escalation(results)
	hasConflict := hasConflict(q, results.Verifier)

	summary := buildSummary(q, results, needsHuman, escalation, hasConflict)

	rl.event("", emit.LevelInfo, "review complete", map[string]interface{}{
		"final_answer": finalAnswer,
		"needs_human":  needsHuman,
		"elapsed_ms":   time.Since(start).Milliseconds(),
	})

	return ReviewResult{
		Code:        q.Code,
		Status:      StatusDone,
		Plan:        plan,
		Results:     results,
		FinalAnswer: finalAnswer,
		NeedsHuman:  needsHuman,
		HasConflict: hasConflict,
		Summary:     summary,
		Elapsed:     time.Since(start),
		Log:         rl.snapshot(),
	}
}

// finalAnswer picks the recommended answer by source priority: the
// conflict analyzer's resolution wins, then the verifier's answer, then
// the question's own recorded answers. Empty candidates fall through,
// so a degraded analyzer never blanks the answer.
func finalAnswer(q Question, results AgentResults) string {
	if results.Conflict != nil && results.Conflict.RecommendedAnswer != "" {
		return results.Conflict.RecommendedAnswer
	}
	if results.Verifier != nil && results.Verifier.Answer != "" {
		return results.Verifier.Answer
	}
	return q.RecordedAnswer()
}

// escalation decides whether a human must look at this review, and why.
// Any single trigger is sufficient.
func escalation(results AgentResults) (bool, string) {
	if v := results.Verifier; v != nil {
		if v.NeedsReview {
			return true, reasonOr(v.Reason, "verifier requested human review")
		}
		if v.Verdict == VerdictUncertain {
			return true, reasonOr(v.Reason, "verifier could not determine the correct answer")
		}
		if v.Confidence == ConfidenceLow {
			return true, reasonOr(v.Reason, "verifier confidence is low")
		}
	}
	if c := results.Conflict; c != nil && c.NeedsReview {
		return true, reasonOr(c.Reason, "conflict analysis requested human review")
	}
	return false, ""
}

func reasonOr(reason, fallback string) string {
	if reason != "" {
		return reason
	}
	return fallback
}

// hasConflict reports recorded-answer disagreement. Empty fields do not
// count as disagreement; an uncertain verification always does.
func hasConflict(q Question, verifier *VerifierResult) bool {
	if q.AnswersDisagree() {
		return true
	}
	return verifier != nil && verifier.Verdict == VerdictUncertain
}

// buildSummary assembles the human-readable digest. Notices appear in a
// fixed order regardless of which goroutine finished first: escalation,
// conflict, difficulty, unit, explanation, calculation. A review with
// nothing to report says so explicitly.
func buildSummary(q Question, results AgentResults, needsHuman bool, escalation string, hasConflict bool) string {
	var notices []string

	if needsHuman {
		notices = append(notices, "Needs human review: "+escalation)
	}
	if hasConflict && results.Conflict != nil {
		c := results.Conflict
		notice := fmt.Sprintf("Answer conflict (%s): resolution %s", orDash(c.ConflictType), c.Resolution)
		if c.RecommendedAnswer != "" {
			notice += ", recommended answer " + c.RecommendedAnswer
		}
		notices = append(notices, notice)
	}
	if d := results.Difficulty; d != nil && !d.CurrentCorrect && d.Suggested != "" {
		notices = append(notices, fmt.Sprintf("Difficulty: change %s to %s", orDash(q.Difficulty), d.Suggested))
	}
	if u := results.Unit; u != nil && !u.BelongsInUnit {
		notice := "Unit: question does not belong in unit " + orDash(q.Unit)
		if u.SuggestedUnit != "" {
			notice += ", suggest " + u.SuggestedUnit
		}
		notices = append(notices, notice)
	}
	if e := results.Explanation; e != nil && qualityRank(e.Quality) < qualityRank(QualityGood) {
		notice := "Explanation: quality " + e.Quality
		if len(e.MissingElements) > 0 {
			notice += ", missing " + strings.Join(e.MissingElements, ", ")
		}
		if e.Improvement != "" {
			notice += ". " + e.Improvement
		}
		notices = append(notices, notice)
	}
	if c := results.Calculation; c != nil && c.Required && len(c.Steps) > 0 {
		notice := "Calculation: add worked steps to the explanation"
		if c.Formula != "" {
			notice += " (" + c.Formula + ")"
		}
		notices = append(notices, notice)
	}

	if len(notices) == 0 {
		return "No changes recommended; question kept as is."
	}
	return strings.Join(notices, "\n")
}
