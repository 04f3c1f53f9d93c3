// Package review implements an agent pipeline that audits multiple-choice
// exam questions.
//
// One review runs a small set of specialized agents against a question:
// a planner decides which agents apply, stage-1 agents (answer verifier,
// difficulty rater, unit checker) run concurrently, stage-2 agents
// (conflict analyzer, explanation critic, mnemonic writer, calculation
// checker) run concurrently using stage-1 output, and a synthesis step
// merges everything into one ReviewResult.
//
// Agents never fail from the pipeline's point of view: each one carries a
// primary and a fallback model route, and when both fail it returns a
// fixed low-confidence default and logs a warning.
package review

import (
	"fmt"
	"strings"
)

// Question is one multiple-choice exam question under review.
//
// Questions are supplied once per review and never mutated by the
// pipeline. The three answer fields reflect the upstream workflow:
// ManualAnswer was set by a human editor, AIAnswer came from earlier
// automated processing, and FinalAnswer is the currently published one.
type Question struct {
	// Code identifies the question, e.g. "Q-2031".
	Code string `json:"code"`

	// Text is the question prompt.
	Text string `json:"text"`

	// OptionA through OptionD are the four labeled answer options.
	OptionA string `json:"option_a"`
	OptionB string `json:"option_b"`
	OptionC string `json:"option_c"`
	OptionD string `json:"option_d"`

	// ManualAnswer is the editor-assigned answer ("A".."D").
	ManualAnswer string `json:"manual_answer"`

	// AIAnswer is the answer derived by prior automated processing.
	AIAnswer string `json:"ai_answer"`

	// FinalAnswer is the currently published answer.
	FinalAnswer string `json:"final_answer"`

	// Chapter and Unit classify the question in the curriculum.
	Chapter string `json:"chapter"`
	Unit    string `json:"unit"`

	// Explanation is the published answer explanation, may be empty.
	Explanation string `json:"explanation,omitempty"`

	// Difficulty is the current difficulty label, may be empty.
	Difficulty string `json:"difficulty,omitempty"`
}

// HasExplanation reports whether the question carries explanation text.
// The explanation critic short-circuits without a model call when false.
func (q Question) HasExplanation() bool {
	return strings.TrimSpace(q.Explanation) != ""
}

// RecordedAnswer returns the best on-record answer: the final answer when
// set, otherwise the manual one.
func (q Question) RecordedAnswer() string {
	if q.FinalAnswer != "" {
		return q.FinalAnswer
	}
	return q.ManualAnswer
}

// AnswersDisagree reports whether the recorded answer fields contradict
// each other. Empty fields are ignored; a question with only a manual
// answer has nothing to disagree with.
func (q Question) AnswersDisagree() bool {
	if q.ManualAnswer != "" && q.AIAnswer != "" && q.ManualAnswer != q.AIAnswer {
		return true
	}
	if q.ManualAnswer != "" && q.FinalAnswer != "" && q.ManualAnswer != q.FinalAnswer {
		return true
	}
	return false
}

// optionsBlock renders the four options for prompt templates.
func (q Question) optionsBlock() string {
	return fmt.Sprintf("A. %s\nB. %s\nC. %s\nD. %s", q.OptionA, q.OptionB, q.OptionC, q.OptionD)
}
