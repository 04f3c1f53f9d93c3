package review

import (
	"reflect"
	"testing"
)

func TestPlanNormalize(t *testing.T) {
	tests := []struct {
		name string
		plan ExecutionPlan
		want []string
	}{
		{
			name: "valid agents kept in order",
			plan: ExecutionPlan{Agents: []string{AgentDifficultyRater, AgentAnswerVerifier}},
			want: []string{AgentDifficultyRater, AgentAnswerVerifier},
		},
		{
			name: "unknown agents dropped",
			plan: ExecutionPlan{Agents: []string{AgentAnswerVerifier, "grammar_checker", "answer-verifier"}},
			want: []string{AgentAnswerVerifier},
		},
		{
			name: "duplicates collapse",
			plan: ExecutionPlan{Agents: []string{AgentUnitChecker, AgentUnitChecker, AgentMnemonicWriter}},
			want: []string{AgentUnitChecker, AgentMnemonicWriter},
		},
		{
			name: "whitespace trimmed",
			plan: ExecutionPlan{Agents: []string{" answer_verifier ", "unit_checker"}},
			want: []string{AgentAnswerVerifier, AgentUnitChecker},
		},
		{
			name: "all unknown leaves empty",
			plan: ExecutionPlan{Agents: []string{"reviewer", "editor"}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.plan.normalize()
			if !reflect.DeepEqual(got.Agents, tt.want) {
				t.Errorf("normalize() agents = %v, want %v", got.Agents, tt.want)
			}
		})
	}
}

func TestPlanIncludes(t *testing.T) {
	plan := ExecutionPlan{Agents: []string{AgentAnswerVerifier, AgentMnemonicWriter}}

	if !plan.Includes(AgentAnswerVerifier) {
		t.Error("Includes(answer_verifier) = false, want true")
	}
	if plan.Includes(AgentConflictAnalyzer) {
		t.Error("Includes(conflict_analyzer) = true, want false")
	}
}

func TestDefaultPlan(t *testing.T) {
	t.Run("baseline agents", func(t *testing.T) {
		plan := DefaultPlan(Question{Code: "Q001", Text: "Which filing status applies?"})

		want := []string{
			AgentAnswerVerifier,
			AgentDifficultyRater,
			AgentUnitChecker,
			AgentMnemonicWriter,
			AgentExplanationCritic,
		}
		if !reflect.DeepEqual(plan.Agents, want) {
			t.Errorf("agents = %v, want %v", plan.Agents, want)
		}
		if plan.HasAnswerConflict {
			t.Error("HasAnswerConflict = true for question without answers")
		}
		if plan.IsNumerical {
			t.Error("IsNumerical = true for non-numerical question")
		}
	})

	t.Run("answer disagreement sets conflict flag", func(t *testing.T) {
		plan := DefaultPlan(Question{ManualAnswer: "A", AIAnswer: "C"})
		if !plan.HasAnswerConflict {
			t.Error("HasAnswerConflict = false, want true")
		}
	})

	t.Run("missing AI answer is not a conflict", func(t *testing.T) {
		plan := DefaultPlan(Question{ManualAnswer: "A"})
		if plan.HasAnswerConflict {
			t.Error("HasAnswerConflict = true with empty AI answer")
		}
	})

	t.Run("numerical markers", func(t *testing.T) {
		numerical := []string{
			"What is the maximum deduction of $2,500 for student loan interest?",
			"How much of the credit phases out above the threshold?",
			"The standard mileage rate for business use is what percentage?",
		}
		for _, text := range numerical {
			if plan := DefaultPlan(Question{Text: text}); !plan.IsNumerical {
				t.Errorf("IsNumerical = false for %q", text)
			}
		}

		if plan := DefaultPlan(Question{Text: "Which form reports wages?"}); plan.IsNumerical {
			t.Error("IsNumerical = true for non-numerical question")
		}
	})
}
