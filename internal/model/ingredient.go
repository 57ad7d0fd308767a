package model

// Species identifies the animal a product or rule applies to.
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Category classifies what kind of product is being scanned.
type Category string

const (
	CategoryFood     Category = "food"
	CategoryTreat    Category = "treat"
	CategoryCosmetic Category = "cosmetic"
)

// RiskLevel grades how dangerous an ingredient is for a given species.
type RiskLevel string

const (
	RiskSafe        RiskLevel = "safe"
	RiskSafeForMost RiskLevel = "safe_for_most"
	RiskModeration  RiskLevel = "moderation"
	RiskCaution     RiskLevel = "caution"
	RiskToxic       RiskLevel = "toxic"
)

// ProcessingLevel follows the NOVA-style classification of how refined an ingredient is.
type ProcessingLevel string

const (
	ProcessingUnprocessed    ProcessingLevel = "unprocessed"
	ProcessingCulinary       ProcessingLevel = "culinary_ingredient"
	ProcessingProcessed      ProcessingLevel = "processed"
	ProcessingUltraProcessed ProcessingLevel = "ultra_processed"
)

// IngredientRecord is a single entry in the static ingredient reference catalog.
// Records are immutable once loaded; IDs are unique within a catalog.
type IngredientRecord struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	ScientificName  string                `json:"scientific_name,omitempty"`
	Species         []Species             `json:"species"`
	Categories      []Category            `json:"categories"`
	Origin          string                `json:"origin,omitempty"` // "natural" or "synthetic"
	RiskLevels      map[Species]RiskLevel `json:"risk_levels"`
	AllergenRisk    string                `json:"allergen_risk,omitempty"`
	Function        string                `json:"function,omitempty"`
	ProcessingLevel ProcessingLevel       `json:"processing_level,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	ToxicSymptoms   []string              `json:"toxic_symptoms,omitempty"`
	ToxicDose       map[Species]string    `json:"toxic_dose,omitempty"`
	Sources         []string              `json:"sources,omitempty"`
}

// RiskFor returns the risk level for the given species, defaulting to safe
// when the record carries no entry for it.
func (r *IngredientRecord) RiskFor(species Species) RiskLevel {
	if level, ok := r.RiskLevels[species]; ok {
		return level
	}
	return RiskSafe
}

// RuleSeverity grades a risk rule.
type RuleSeverity string

const (
	SeverityInfo     RuleSeverity = "info"
	SeverityWarn     RuleSeverity = "warn"
	SeverityHigh     RuleSeverity = "high"
	SeverityCritical RuleSeverity = "critical"
)

// RiskRule is a curated per-ingredient warning. Multiple rules may target the
// same ingredient; every rule whose species and category sets match accumulates.
type RiskRule struct {
	ID           string       `json:"id"`
	IngredientID string       `json:"ingredient_id"`
	Species      []Species    `json:"species"`
	Categories   []Category   `json:"categories"`
	Severity     RuleSeverity `json:"severity"`
	Explanation  string       `json:"explanation"`
	ScoreImpact  float64      `json:"score_impact"`
	Source       string       `json:"source,omitempty"`
}

// AppliesTo reports whether the rule covers the given species and category.
// Empty sets mean "all".
func (r *RiskRule) AppliesTo(species Species, category Category) bool {
	return containsOrEmpty(r.Species, species) && containsOrEmpty(r.Categories, category)
}

func containsOrEmpty[T comparable](set []T, v T) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// MatchedIngredient is one label token after matching against the catalog.
// Rank is the 1-based position in the ingredient list; earlier ingredients
// dominate by labeling regulation, so order must be preserved.
type MatchedIngredient struct {
	LabelName       string          `json:"label_name"`
	Rank            int             `json:"rank"`
	IngredientID    string          `json:"ingredient_id,omitempty"` // empty means unmatched
	ProcessingLevel ProcessingLevel `json:"processing_level,omitempty"`
}

// Matched reports whether the token resolved to a catalog ingredient.
func (m *MatchedIngredient) Matched() bool {
	return m.IngredientID != ""
}

// PetAllergenProfile is supplied by the caller per score request.
// Allergen names are free text, lowercased by the scorer before comparison.
type PetAllergenProfile struct {
	Name      string   `json:"name"`
	Species   Species  `json:"species"`
	Allergens []string `json:"allergens"`
}
