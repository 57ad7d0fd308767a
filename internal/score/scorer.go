// Package score computes the multi-factor safety/nutrition/suitability
// breakdown for a matched ingredient list against a pet profile.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/pawlens/pawlens/internal/model"
)

// CatalogSource is the view of the ingredient catalog the scorer needs.
type CatalogSource interface {
	Ingredient(id string) (*model.IngredientRecord, bool)
	RulesFor(ingredientID string, species model.Species, category model.Category) []model.RiskRule
}

// rankDecay controls how fast an ingredient's influence falls off with list
// position. Ingredients are listed by descending proportion per labeling
// regulation, so earlier entries dominate.
const rankDecay = 0.22

// Base safety penalties by risk level, scaled by rank weight.
var riskPenalties = map[model.RiskLevel]float64{
	model.RiskToxic:       40,
	model.RiskCaution:     15,
	model.RiskModeration:  6,
	model.RiskSafeForMost: 2,
	model.RiskSafe:        0,
}

const (
	unknownPenaltyEarly    = 3.0 // unmatched ingredient in the first five slots
	unknownPenaltyLate     = 1.5
	allergenPenaltyEarly   = 30.0
	allergenPenaltyLate    = 15.0
	proteinBonus           = 4.0
	artificialColorPenalty = 6.0
	preservativePenalty    = 5.0
	criticalCap            = 10.0
	maxSafetyFactors       = 5
)

// proteinSources is the fixed vocabulary of animal protein ingredients that
// earn the nutrition bonus when they lead the list.
var proteinSources = map[string]bool{
	"chicken": true, "beef": true, "turkey": true, "lamb": true,
	"salmon": true, "fish": true, "duck": true, "venison": true,
	"egg": true, "rabbit": true, "pork": true,
}

var harmfulPreservatives = []string{"bha", "bht", "ethoxyquin"}

// Scorer produces score breakdowns. It is a pure function over its inputs
// plus the read-only catalog and may be shared across goroutines.
type Scorer struct {
	catalog CatalogSource
}

// New creates a scorer backed by the given catalog.
func New(catalog CatalogSource) *Scorer {
	return &Scorer{catalog: catalog}
}

// rankWeight is the exponential decay factor for a 1-based list rank.
func rankWeight(rank int) float64 {
	return math.Exp(-rankDecay * float64(rank-1))
}

// Calculate scores a matched ingredient list for the given pet allergens,
// species and category. It never fails: unmatched ingredients and
// inapplicable categories degrade the result instead of erroring.
func (s *Scorer) Calculate(matched []model.MatchedIngredient, allergens []string, species model.Species, category model.Category) model.ScoreBreakdown {
	breakdown := model.ScoreBreakdown{TotalCount: len(matched)}

	safetyPenalty := 0.0
	var safetyFactors []string
	concerned := map[string]bool{}

	for _, ing := range matched {
		w := rankWeight(ing.Rank)

		if !ing.Matched() {
			breakdown.Unmatched = append(breakdown.Unmatched, ing.LabelName)
			if ing.Rank <= 5 {
				safetyPenalty += unknownPenaltyEarly * w
			} else {
				safetyPenalty += unknownPenaltyLate * w
			}
			continue
		}
		breakdown.MatchedCount++

		rec, ok := s.catalog.Ingredient(ing.IngredientID)
		if !ok {
			continue
		}

		risk := rec.RiskFor(species)
		if p := riskPenalties[risk]; p > 0 {
			safetyPenalty += p * w
			if risk == model.RiskToxic || risk == model.RiskCaution {
				safetyFactors = append([]string{fmt.Sprintf("%s is rated %s for %ss", rec.Name, risk, species)}, safetyFactors...)
				concerned[rec.Name] = true
			} else {
				safetyFactors = append(safetyFactors, fmt.Sprintf("%s should be fed %s", rec.Name, riskPhrase(risk)))
			}
		}

		for _, rule := range s.catalog.RulesFor(ing.IngredientID, species, category) {
			safetyPenalty += math.Abs(rule.ScoreImpact) * w
			concerned[rec.Name] = true

			title := "Ingredient warning"
			if rule.Severity == model.SeverityCritical {
				title = "Critical warning"
				breakdown.CriticalRule = true
			}
			breakdown.Warnings = append(breakdown.Warnings, model.WarningFlag{
				Type:       model.WarningRule,
				Severity:   rule.Severity,
				Title:      title,
				Detail:     rule.Explanation,
				Ingredient: rec.Name,
			})
		}
	}

	if n := len(breakdown.Unmatched); n > 0 {
		safetyFactors = append(safetyFactors, unknownFactor(n))
	}

	breakdown.Safety = clamp(100 - safetyPenalty)

	suitability, suitFactors := s.calculateSuitability(matched, allergens, &breakdown)
	breakdown.Suitability = suitability

	if category != model.CategoryCosmetic {
		nutrition := s.calculateNutrition(matched)
		breakdown.Nutrition = &nutrition
	}

	var total float64
	if category == model.CategoryCosmetic {
		total = 0.70*breakdown.Safety + 0.30*breakdown.Suitability
	} else {
		total = 0.45*breakdown.Safety + 0.40**breakdown.Nutrition + 0.15*breakdown.Suitability
	}
	// Hard safety override: a critical rule caps the total regardless of the
	// weighted value, for cosmetics as much as food.
	if breakdown.CriticalRule && total > criticalCap {
		total = criticalCap
	}
	breakdown.Total = round1(total)
	breakdown.Safety = round1(breakdown.Safety)
	breakdown.Suitability = round1(breakdown.Suitability)
	if breakdown.Nutrition != nil {
		rounded := round1(*breakdown.Nutrition)
		breakdown.Nutrition = &rounded
	}

	breakdown.SafetyExplanation = explainSafety(safetyFactors, len(concerned))
	breakdown.SuitabilityExplanation = explainSuitability(suitFactors)

	return breakdown
}

// calculateSuitability starts at 100 and subtracts for every matched
// ingredient whose canonical name matches one of the pet's allergens.
func (s *Scorer) calculateSuitability(matched []model.MatchedIngredient, allergens []string, breakdown *model.ScoreBreakdown) (float64, []string) {
	suitability := 100.0
	var factors []string

	normalized := make([]string, 0, len(allergens))
	for _, a := range allergens {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			normalized = append(normalized, a)
		}
	}

	for _, ing := range matched {
		if !ing.Matched() {
			continue
		}
		rec, ok := s.catalog.Ingredient(ing.IngredientID)
		if !ok {
			continue
		}
		canonical := strings.ToLower(rec.Name)

		for _, allergen := range normalized {
			if canonical != allergen && !strings.Contains(canonical, allergen) {
				continue
			}
			penalty := allergenPenaltyLate
			if ing.Rank <= 5 {
				penalty = allergenPenaltyEarly
			}
			suitability -= penalty

			factors = append(factors, fmt.Sprintf("%s (ingredient #%d) matches the %q allergen", rec.Name, ing.Rank, allergen))
			breakdown.Warnings = append(breakdown.Warnings, model.WarningFlag{
				Type:       model.WarningAllergen,
				Severity:   model.SeverityHigh,
				Title:      "Allergen detected",
				Detail:     fmt.Sprintf("%s matches this pet's %q allergy.", rec.Name, allergen),
				Ingredient: rec.Name,
			})
			break // one allergen hit per ingredient
		}
	}

	return clamp(suitability), factors
}

// calculateNutrition starts at 100, rewards leading animal protein and
// penalizes artificial colors and harmful preservatives.
func (s *Scorer) calculateNutrition(matched []model.MatchedIngredient) float64 {
	nutrition := 100.0

	for _, ing := range matched {
		name := strings.ToLower(ing.LabelName)
		var rec *model.IngredientRecord
		if ing.Matched() {
			if r, ok := s.catalog.Ingredient(ing.IngredientID); ok {
				rec = r
				name = strings.ToLower(r.Name)
			}
		}

		if ing.Rank <= 3 && isProteinSource(name, rec) {
			nutrition += proteinBonus
		}

		if strings.Contains(name, "artificial color") || isArtificialColor(rec) {
			nutrition -= artificialColorPenalty
		}
		for _, p := range harmfulPreservatives {
			if containsWord(name, p) {
				nutrition -= preservativePenalty
				break
			}
		}
	}

	return clamp(nutrition)
}

// riskPhrase renders the feeding guidance for a moderation-tier risk level
// as prose rather than the raw enum value.
func riskPhrase(risk model.RiskLevel) string {
	switch risk {
	case model.RiskModeration:
		return "in moderation"
	case model.RiskSafeForMost:
		return "with care; some pets tolerate it poorly"
	default:
		return string(risk)
	}
}

func isProteinSource(name string, rec *model.IngredientRecord) bool {
	for word := range proteinSources {
		if containsWord(name, word) {
			return true
		}
	}
	return rec != nil && strings.Contains(strings.ToLower(rec.Function), "protein")
}

func isArtificialColor(rec *model.IngredientRecord) bool {
	return rec != nil && strings.Contains(strings.ToLower(rec.Function), "artificial color")
}

// containsWord reports whether text contains word as a whole word.
func containsWord(text, word string) bool {
	for _, field := range strings.FieldsFunc(text, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	}) {
		if field == word {
			return true
		}
	}
	return false
}

// explainSafety keeps at most maxSafetyFactors factors, negative/flagged
// ones first (they are already prepended), and summarizes by the number of
// distinct ingredients that raised a safety concern. Allergen conflicts are
// a suitability matter and stay out of this count.
func explainSafety(factors []string, concerns int) model.ScoreExplanation {
	if len(factors) > maxSafetyFactors {
		factors = factors[:maxSafetyFactors]
	}
	var summary string
	switch {
	case concerns == 0:
		summary = "All recognized ingredients appear safe."
	case concerns == 1:
		summary = "1 ingredient raised a safety concern."
	default:
		summary = fmt.Sprintf("%d ingredients raised safety concerns.", concerns)
	}
	return model.ScoreExplanation{Factors: factors, Summary: summary}
}

func explainSuitability(factors []string) model.ScoreExplanation {
	var summary string
	switch len(factors) {
	case 0:
		summary = "No allergen conflicts for this pet."
	case 1:
		summary = "1 ingredient conflicts with this pet's allergies."
	default:
		summary = fmt.Sprintf("%d ingredients conflict with this pet's allergies.", len(factors))
	}
	return model.ScoreExplanation{Factors: factors, Summary: summary}
}

func unknownFactor(n int) string {
	if n == 1 {
		return "1 ingredient could not be identified"
	}
	return fmt.Sprintf("%d ingredients could not be identified", n)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
