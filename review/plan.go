package review

import "strings"

// Agent names. Plans refer to agents by these identifiers; the pipeline
// itself dispatches over a fixed enumeration, never over plan strings.
const (
	AgentAnswerVerifier     = "answer_verifier"
	AgentConflictAnalyzer   = "conflict_analyzer"
	AgentDifficultyRater    = "difficulty_rater"
	AgentUnitChecker        = "unit_checker"
	AgentExplanationCritic  = "explanation_critic"
	AgentMnemonicWriter     = "mnemonic_writer"
	AgentCalculationChecker = "calculation_checker"
)

// knownAgents guards plan validation; unknown names from the planner
// model are dropped.
var knownAgents = map[string]bool{
	AgentAnswerVerifier:     true,
	AgentConflictAnalyzer:   true,
	AgentDifficultyRater:    true,
	AgentUnitChecker:        true,
	AgentExplanationCritic:  true,
	AgentMnemonicWriter:     true,
	AgentCalculationChecker: true,
}

// ExecutionPlan selects the agents for one question.
//
// The plan is advisory, not authoritative: the pipeline unions it with
// forced inclusions (the conflict analyzer when a disagreement or an
// uncertain verdict is detected, the calculation checker when
// IsNumerical is set), so those two agents can run even when the plan
// omits them. Plans are produced once per question and never mutated.
type ExecutionPlan struct {
	// Agents is the set of agent names to run (unique, validated).
	Agents []string `json:"agents"`

	// Rationale is the planner's explanation of the selection.
	Rationale string `json:"rationale"`

	// HasAnswerConflict flags a detected disagreement between the
	// recorded answers.
	HasAnswerConflict bool `json:"has_answer_conflict"`

	// IsNumerical flags a question that turns on amounts, rates, or
	// thresholds and therefore needs the calculation checker.
	IsNumerical bool `json:"is_numerical"`
}

// Includes reports whether the plan names the given agent.
func (p ExecutionPlan) Includes(name string) bool {
	for _, agent := range p.Agents {
		if agent == name {
			return true
		}
	}
	return false
}

// normalize deduplicates and validates the agent list in place-order.
func (p ExecutionPlan) normalize() ExecutionPlan {
	seen := make(map[string]bool, len(p.Agents))
	var kept []string
	for _, agent := range p.Agents {
		agent = strings.TrimSpace(agent)
		if !knownAgents[agent] || seen[agent] {
			continue
		}
		seen[agent] = true
		kept = append(kept, agent)
	}
	p.Agents = kept
	return p
}

// DefaultPlan is the fixed plan used when planning fails for any reason.
//
// It runs the four always-on agents plus the explanation critic, derives
// the conflict flag directly from the question's answer fields, and the
// numeric flag from a keyword heuristic on the question text.
func DefaultPlan(q Question) ExecutionPlan {
	return ExecutionPlan{
		Agents: []string{
			AgentAnswerVerifier,
			AgentDifficultyRater,
			AgentUnitChecker,
			AgentMnemonicWriter,
			AgentExplanationCritic,
		},
		Rationale:         "default plan (planner unavailable)",
		HasAnswerConflict: q.ManualAnswer != "" && q.AIAnswer != "" && q.ManualAnswer != q.AIAnswer,
		IsNumerical:       looksNumerical(q.Text),
	}
}

// numericalMarkers are currency, percentage, and quantity cues. Matching
// any of them marks the question numerical for the default plan.
var numericalMarkers = []string{
	"$",
	"%",
	"percent",
	"percentage",
	"how much",
	"how many",
	"amount",
	"rate",
	"threshold",
	"limit",
	"deduction of",
	"credit of",
	"calculate",
}

// looksNumerical applies the keyword heuristic used when the planner
// cannot be consulted.
func looksNumerical(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range numericalMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
