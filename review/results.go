package review

// Confidence levels reported by agents. Degraded defaults always use
// ConfidenceLow.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Verdicts reported by the answer verifier. The verdict classifies how
// the model's own answer relates to the recorded ones.
const (
	// VerdictAgree: the verifier agrees with the recorded answers.
	VerdictAgree = "agree"

	// VerdictManualCorrect: the manual answer is right, the AI answer wrong.
	VerdictManualCorrect = "manual_correct"

	// VerdictAICorrect: the AI answer is right, the manual answer wrong.
	VerdictAICorrect = "ai_correct"

	// VerdictUncertain: the verifier could not commit to an answer.
	VerdictUncertain = "uncertain"
)

// Conflict resolutions reported by the conflict analyzer.
const (
	ResolutionManualCorrect = "manual_correct"
	ResolutionAICorrect     = "ai_correct"
	ResolutionBothWrong     = "both_wrong"
	ResolutionNeedsReview   = "needs_review"
)

// Explanation quality tiers, best to worst.
const (
	QualityExcellent = "Excellent"
	QualityGood      = "Good"
	QualityFair      = "Fair"
	QualityPoor      = "Poor"
	QualityMissing   = "Missing"
)

// VerifierResult is the answer verifier's judgment.
type VerifierResult struct {
	// Answer is the option the verifier believes correct ("A".."D").
	Answer string `json:"correct_answer"`

	// Confidence is one of the Confidence* levels.
	Confidence string `json:"confidence"`

	// Verdict is one of the Verdict* classifications.
	Verdict string `json:"verdict"`

	// NeedsReview requests human escalation, with Reason explaining why.
	NeedsReview bool   `json:"needs_review"`
	Reason      string `json:"reason,omitempty"`

	// FailureReason is set only on the degraded default.
	FailureReason string `json:"failure_reason,omitempty"`
}

// ConflictResult is the conflict analyzer's judgment. It runs when the
// recorded answers disagree or the verifier was uncertain, and consumes
// the verifier's result.
type ConflictResult struct {
	// Resolution is one of the Resolution* classifications.
	Resolution string `json:"resolution"`

	// RecommendedAnswer is the option the analyzer recommends ("A".."D"),
	// empty when it could not decide.
	RecommendedAnswer string `json:"recommended_answer"`

	// ConflictType classifies the disagreement, e.g. "ambiguous_wording",
	// "law_change", "data_entry_error".
	ConflictType string `json:"conflict_type"`

	NeedsReview bool   `json:"needs_review"`
	Reason      string `json:"reason,omitempty"`

	FailureReason string `json:"failure_reason,omitempty"`
}

// DifficultyResult is the difficulty rater's judgment.
type DifficultyResult struct {
	// Difficulty is the rater's own label, e.g. "Easy", "Medium", "Hard".
	Difficulty string `json:"difficulty"`

	// Rationale explains the rating.
	Rationale string `json:"rationale"`

	// CurrentCorrect reports whether the question's existing label holds.
	CurrentCorrect bool `json:"current_correct"`

	// Suggested is the label the rater proposes when CurrentCorrect is
	// false; equal to Difficulty otherwise.
	Suggested string `json:"suggested"`

	FailureReason string `json:"failure_reason,omitempty"`
}

// UnitResult is the unit checker's judgment on curriculum placement.
type UnitResult struct {
	// BelongsInUnit reports whether the question fits its assigned unit.
	BelongsInUnit bool `json:"belongs_in_unit"`

	// Confidence is one of the Confidence* levels.
	Confidence string `json:"confidence"`

	// SuggestedUnit is the better placement when BelongsInUnit is false.
	SuggestedUnit string `json:"suggested_unit,omitempty"`

	// Classification is "static" for evergreen material or
	// "year_dependent" for content tied to a specific tax year.
	Classification string `json:"classification"`

	FailureReason string `json:"failure_reason,omitempty"`
}

// ExplanationResult is the explanation critic's judgment.
type ExplanationResult struct {
	// Quality is one of the Quality* tiers.
	Quality string `json:"quality"`

	// Score is 0-10; 0 for a missing explanation.
	Score int `json:"score"`

	// MissingElements lists what the explanation should add.
	MissingElements []string `json:"missing_elements,omitempty"`

	// Improvement is concrete improvement text for the editor.
	Improvement string `json:"improvement"`

	// NeedsCalculation reports that the explanation should include a
	// worked calculation but does not.
	NeedsCalculation bool `json:"needs_calculation"`

	FailureReason string `json:"failure_reason,omitempty"`
}

// MnemonicResult is the memory-aid generator's output, keyed to the
// question's recorded answer.
type MnemonicResult struct {
	// Mnemonic is the memory-aid text.
	Mnemonic string `json:"mnemonic"`

	// Type classifies the aid, e.g. "acronym", "rhyme", "story", "anchor".
	Type string `json:"type"`

	// ConceptSummary is a one-line restatement of the tested concept.
	ConceptSummary string `json:"concept_summary"`

	FailureReason string `json:"failure_reason,omitempty"`
}

// CalculationResult is the calculation checker's output for numerical
// questions.
type CalculationResult struct {
	// Required reports whether the question actually needs a worked
	// calculation.
	Required bool `json:"calculation_required"`

	// Steps is the worked calculation, empty when not required.
	Steps string `json:"steps,omitempty"`

	// Thresholds lists statutory amounts/limits the calculation depends on.
	Thresholds []string `json:"thresholds,omitempty"`

	// Formula names the rule or formula applied.
	Formula string `json:"formula,omitempty"`

	FailureReason string `json:"failure_reason,omitempty"`
}

// AgentResults aggregates everything the stages produced for one
// question. A nil field means the agent did not run; a degraded default
// is always non-nil, so "no usable signal" and "absent" read the same to
// synthesis only through the confidence and failure-reason fields.
type AgentResults struct {
	Verifier    *VerifierResult    `json:"verifier,omitempty"`
	Conflict    *ConflictResult    `json:"conflict,omitempty"`
	Difficulty  *DifficultyResult  `json:"difficulty,omitempty"`
	Unit        *UnitResult        `json:"unit,omitempty"`
	Explanation *ExplanationResult `json:"explanation,omitempty"`
	Mnemonic    *MnemonicResult    `json:"mnemonic,omitempty"`
	Calculation *CalculationResult `json:"calculation,omitempty"`
}

// Degraded defaults. Every agent substitutes its default when the
// primary and fallback calls both fail; the failure reason is carried so
// synthesis and export stay honest about signal quality.

func degradedVerifier(reason string) *VerifierResult {
	return &VerifierResult{
		Verdict:       VerdictUncertain,
		Confidence:    ConfidenceLow,
		NeedsReview:   true,
		Reason:        "automated verification unavailable",
		FailureReason: reason,
	}
}

func degradedConflict(reason string) *ConflictResult {
	return &ConflictResult{
		Resolution:    ResolutionNeedsReview,
		ConflictType:  "unresolved",
		NeedsReview:   true,
		Reason:        "automated conflict analysis unavailable",
		FailureReason: reason,
	}
}

func degradedDifficulty(current, reason string) *DifficultyResult {
	return &DifficultyResult{
		Difficulty:     current,
		Rationale:      "automated rating unavailable",
		CurrentCorrect: true,
		Suggested:      current,
		FailureReason:  reason,
	}
}

func degradedUnit(reason string) *UnitResult {
	return &UnitResult{
		BelongsInUnit:  true,
		Confidence:     ConfidenceLow,
		Classification: "static",
		FailureReason:  reason,
	}
}

func degradedExplanation(reason string) *ExplanationResult {
	return &ExplanationResult{
		Quality:       QualityPoor,
		Score:         0,
		Improvement:   "automated critique unavailable; review explanation manually",
		FailureReason: reason,
	}
}

// missingExplanation is the fixed result for questions with no
// explanation text. Not a failure; no model call is made.
func missingExplanation() *ExplanationResult {
	return &ExplanationResult{
		Quality:          QualityMissing,
		Score:            0,
		MissingElements:  []string{"explanation"},
		Improvement:      "write an explanation covering the governing rule and why each distractor fails",
		NeedsCalculation: false,
	}
}

func degradedMnemonic(reason string) *MnemonicResult {
	return &MnemonicResult{
		Type:          "none",
		FailureReason: reason,
	}
}

func degradedCalculation(reason string) *CalculationResult {
	return &CalculationResult{
		Required:      false,
		FailureReason: reason,
	}
}

// qualityRank orders quality tiers for the improvement threshold; higher
// is better.
func qualityRank(quality string) int {
	switch quality {
	case QualityExcellent:
		return 4
	case QualityGood:
		return 3
	case QualityFair:
		return 2
	case QualityPoor:
		return 1
	default: // Missing or unknown
		return 0
	}
}
