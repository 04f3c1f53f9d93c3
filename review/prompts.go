package review

import (
	"fmt"
	"strings"

	"github.com/quizsmith/review-go/review/model"
)

// Prompt builders. Each agent renders a fixed template into a system
// instruction plus one user message, and every template ends with an
// explicit JSON field contract so ExtractJSON/DecodeJSON can recover a
// typed record from the response.

func plannerPrompt(q Question) []model.Message {
	var sb strings.Builder
	sb.WriteString("Question ")
	sb.WriteString(q.Code)
	sb.WriteString(" (chapter: ")
	sb.WriteString(q.Chapter)
	sb.WriteString(", unit: ")
	sb.WriteString(q.Unit)
	sb.WriteString(")\n\n")
	sb.WriteString(q.Text)
	sb.WriteString("\n\n")
	sb.WriteString(q.optionsBlock())
	sb.WriteString("\n\nRecorded answers: manual=")
	sb.WriteString(orDash(q.ManualAnswer))
	sb.WriteString(" ai=")
	sb.WriteString(orDash(q.AIAnswer))
	sb.WriteString(" final=")
	sb.WriteString(orDash(q.FinalAnswer))
	if q.HasExplanation() {
		sb.WriteString("\nAn explanation is present.")
	} else {
		sb.WriteString("\nNo explanation is present.")
	}
	sb.WriteString("\n\nAvailable agents: answer_verifier, conflict_analyzer, difficulty_rater, ")
	sb.WriteString("unit_checker, explanation_critic, mnemonic_writer, calculation_checker.\n")
	sb.WriteString("Select the agents worth running for this question.\n\n")
	sb.WriteString("Respond ONLY with a JSON object:\n")
	sb.WriteString(`{"agents":["..."],"rationale":"...","has_answer_conflict":bool,"is_numerical":bool}`)

	return []model.Message{
		{Role: model.RoleSystem, Content: "You plan the review of tax-exam multiple-choice questions by choosing which specialist checks to run."},
		{Role: model.RoleUser, Content: sb.String()},
	}
}

func verifierPrompt(q Question) []model.Message {
	var sb strings.Builder
	writeQuestionBlock(&sb, q)
	sb.WriteString("\nRecorded answers: manual=")
	sb.WriteString(orDash(q.ManualAnswer))
	sb.WriteString(" ai=")
	sb.WriteString(orDash(q.AIAnswer))
	sb.WriteString(" final=")
	sb.WriteString(orDash(q.FinalAnswer))
	sb.WriteString("\n\nSolve the question yourself, then classify how your answer relates to the recorded ones.\n")
	sb.WriteString("verdict must be one of: agree, manual_correct, ai_correct, uncertain.\n")
	sb.WriteString("confidence must be one of: high, medium, low.\n\n")
	sb.WriteString("Respond ONLY with a JSON object:\n")
	sb.WriteString(`{"correct_answer":"A|B|C|D","confidence":"...","verdict":"...","needs_review":bool,"reason":"..."}`)

	return []model.Message{
		{Role: model.RoleSystem, Content: "You verify the recorded answers of tax-exam multiple-choice questions."},
		{Role: model.RoleUser, Content: sb.String()},
	}
}

func conflictPrompt(q Question, verifier *VerifierResult) []model.Message {
	var sb strings.Builder
	writeQuestionBlock(&sb, q)
	sb.WriteString("\nRecorded answers disagree or could not be confirmed: manual=")
	sb.WriteString(orDash(q.ManualAnswer))
	sb.WriteString(" ai=")
	sb.WriteString(orDash(q.AIAnswer))
	sb.WriteString(" final=")
	sb.WriteString(orDash(q.FinalAnswer))
	if verifier != nil {
		fmt.Fprintf(&sb, "\nIndependent verifier: answer=%s verdict=%s confidence=%s",
			orDash(verifier.Answer), verifier.Verdict, verifier.Confidence)
		if verifier.Reason != "" {
			sb.WriteString(" (" + verifier.Reason + ")")
		}
	}
	sb.WriteString("\n\nDecide which recorded answer is right and why the disagreement exists.\n")
	sb.WriteString("resolution must be one of: manual_correct, ai_correct, both_wrong, needs_review.\n\n")
	sb.WriteString("Respond ONLY with a JSON object:\n")
	sb.WriteString(`{"resolution":"...","recommended_answer":"A|B|C|D","conflict_type":"...","needs_review":bool,"reason":"..."}`)

	return []model.Message{
		{Role: model.RoleSystem, Content: "You resolve answer conflicts in tax-exam multiple-choice questions."},
		{Role: model.RoleUser, Content: sb.String()},
	}
}

func difficultyPrompt(q Question) []model.Message {
	var sb strings.Builder
	writeQuestionBlock(&sb, q)
	sb.WriteString("\nCurrent difficulty label: ")
	sb.WriteString(orDash(q.Difficulty))
	sb.WriteString("\n\nRate the difficulty as Easy, Medium, or Hard for a first-attempt exam candidate, ")
	sb.WriteString("and judge whether the current label is right.\n\n")
	sb.WriteString("Respond ONLY with a JSON object:\n")
	sb.WriteString(`{"difficulty":"...","rationale":"...","current_correct":bool,"suggested":"..."}`)

	return []model.Message{
		{Role: model.RoleSystem, Content: "You rate the difficulty of tax-exam multiple-choice questions."},
		{Role: model.RoleUser, Content: sb.String()},
	}
}

func unitPrompt(q Question) []model.Message {
	var sb strings.Builder
	writeQuestionBlock(&sb, q)
	fmt.Fprintf(&sb, "\nAssigned placement: chapter %q, unit %q.\n\n", q.Chapter, q.Unit)
	sb.WriteString("Judge whether the question belongs in its assigned unit, suggest a better unit if not, ")
	sb.WriteString("and classify the material as static or year_dependent.\n\n")
	sb.WriteString("Respond ONLY with a JSON object:\n")
	sb.WriteString(`{"belongs_in_unit":bool,"confidence":"high|medium|low","suggested_unit":"...","classification":"static|year_dependent"}`)

	return []model.Message{
		{Role: model.RoleSystem, Content: "You audit curriculum placement of tax-exam questions."},
		{Role: model.RoleUser, Content: sb.String()},
	}
}

func explanationPrompt(q Question) []model.Message {
	var sb strings.Builder
	writeQuestionBlock(&sb, q)
	sb.WriteString("\nRecorded answer: ")
	sb.WriteString(orDash(q.RecordedAnswer()))
	sb.WriteString("\n\nPublished explanation:\n")
	sb.WriteString(q.Explanation)
	sb.WriteString("\n\nCritique the explanation. quality must be one of: Excellent, Good, Fair, Poor. ")
	sb.WriteString("score is 0-10. List missing elements and give one concrete improvement.\n\n")
	sb.WriteString("Respond ONLY with a JSON object:\n")
	sb.WriteString(`{"quality":"...","score":0,"missing_elements":["..."],"improvement":"...","needs_calculation":bool}`)

	return []model.Message{
		{Role: model.RoleSystem, Content: "You critique answer explanations for tax-exam questions."},
		{Role: model.RoleUser, Content: sb.String()},
	}
}

func mnemonicPrompt(q Question) []model.Message {
	var sb strings.Builder
	writeQuestionBlock(&sb, q)
	sb.WriteString("\nCorrect answer: ")
	sb.WriteString(orDash(q.RecordedAnswer()))
	sb.WriteString("\n\nWrite a short memory aid that helps a candidate retain the tested rule. ")
	sb.WriteString("type must be one of: acronym, rhyme, story, anchor.\n\n")
	sb.WriteString("Respond ONLY with a JSON object:\n")
	sb.WriteString(`{"mnemonic":"...","type":"...","concept_summary":"..."}`)

	return []model.Message{
		{Role: model.RoleSystem, Content: "You write memory aids for tax-exam study material."},
		{Role: model.RoleUser, Content: sb.String()},
	}
}

func calculationPrompt(q Question) []model.Message {
	var sb strings.Builder
	writeQuestionBlock(&sb, q)
	sb.WriteString("\nRecorded answer: ")
	sb.WriteString(orDash(q.RecordedAnswer()))
	sb.WriteString("\n\nIf answering requires a calculation, show the worked steps, the statutory ")
	sb.WriteString("thresholds used, and name the rule or formula applied.\n\n")
	sb.WriteString("Respond ONLY with a JSON object:\n")
	sb.WriteString(`{"calculation_required":bool,"steps":"...","thresholds":["..."],"formula":"..."}`)

	return []model.Message{
		{Role: model.RoleSystem, Content: "You check the calculations behind numerical tax-exam questions."},
		{Role: model.RoleUser, Content: sb.String()},
	}
}

func writeQuestionBlock(sb *strings.Builder, q Question) {
	sb.WriteString("Question ")
	sb.WriteString(q.Code)
	sb.WriteString(":\n")
	sb.WriteString(q.Text)
	sb.WriteString("\n\n")
	sb.WriteString(q.optionsBlock())
	sb.WriteString("\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
