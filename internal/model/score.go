package model

// WarningFlagType classifies a warning surfaced by the scorer.
type WarningFlagType string

const (
	WarningAllergen WarningFlagType = "allergen"
	WarningRule     WarningFlagType = "rule"
)

// WarningFlag is a single human-readable warning attached to a score.
type WarningFlag struct {
	Type       WarningFlagType `json:"type"`
	Severity   RuleSeverity    `json:"severity"`
	Title      string          `json:"title"`
	Detail     string          `json:"detail"`
	Ingredient string          `json:"ingredient,omitempty"`
}

// ScoreExplanation is an ordered list of factors plus a one-line summary,
// produced per score dimension.
type ScoreExplanation struct {
	Factors []string `json:"factors"`
	Summary string   `json:"summary"`
}

// ScoreBreakdown is the full result of a score calculation. All component
// scores are on a 0-100 scale rounded to one decimal; Nutrition is nil for
// cosmetics. A breakdown is produced fresh per invocation and never mutated.
type ScoreBreakdown struct {
	Total       float64  `json:"total"`
	Safety      float64  `json:"safety"`
	Nutrition   *float64 `json:"nutrition,omitempty"`
	Suitability float64  `json:"suitability"`

	Warnings  []WarningFlag `json:"warnings"`
	Unmatched []string      `json:"unmatched"`

	MatchedCount int `json:"matched_count"`
	TotalCount   int `json:"total_count"`

	SafetyExplanation      ScoreExplanation `json:"safety_explanation"`
	SuitabilityExplanation ScoreExplanation `json:"suitability_explanation"`

	CriticalRule bool `json:"critical_rule"` // a critical-severity rule fired and capped the total
}

// MatchRate returns the fraction of label tokens that resolved to catalog
// ingredients, used by callers to distinguish low-confidence results.
func (s *ScoreBreakdown) MatchRate() float64 {
	if s.TotalCount == 0 {
		return 0
	}
	return float64(s.MatchedCount) / float64(s.TotalCount)
}
