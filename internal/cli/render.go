package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pawlens/pawlens/internal/model"
	"github.com/pawlens/pawlens/internal/pipeline"
)

// renderResult writes the scan result to stdout in the configured format.
func renderResult(result *pipeline.ScanResult, out model.OutputConfig) error {
	if out.Format == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	renderText(result, out.Verbose)
	return nil
}

func renderText(result *pipeline.ScanResult, verbose bool) {
	b := &result.Breakdown

	if result.Product != nil && result.Product.Name != "" {
		name := result.Product.Name
		if result.Product.Brand != "" {
			name = result.Product.Brand + " " + name
		}
		fmt.Printf("Product: %s\n", name)
		if result.Product.Source != "" {
			fmt.Printf("Source:  %s\n", result.Product.Source)
		}
		fmt.Println()
	}

	fmt.Printf("Score: %.1f/100%s\n", b.Total, scoreLabel(b))
	fmt.Printf("  Safety:      %.1f\n", b.Safety)
	if b.Nutrition != nil {
		fmt.Printf("  Nutrition:   %.1f\n", *b.Nutrition)
	}
	fmt.Printf("  Suitability: %.1f\n", b.Suitability)
	fmt.Println()

	if len(b.Warnings) > 0 {
		fmt.Println("Warnings:")
		for _, w := range b.Warnings {
			fmt.Printf("  [%s] %s\n", strings.ToUpper(string(w.Severity)), w.Title)
			if w.Detail != "" {
				fmt.Printf("         %s\n", w.Detail)
			}
		}
		fmt.Println()
	}

	fmt.Printf("Matched %d of %d ingredients", b.MatchedCount, b.TotalCount)
	if rate := b.MatchRate(); b.TotalCount > 0 && rate < 0.5 {
		fmt.Printf(" (low match rate, treat the score as low confidence)")
	}
	fmt.Println()

	if len(b.Unmatched) > 0 && verbose {
		fmt.Printf("Unmatched: %s\n", strings.Join(b.Unmatched, ", "))
	}

	if verbose {
		fmt.Println()
		fmt.Printf("Safety:      %s\n", b.SafetyExplanation.Summary)
		for _, f := range b.SafetyExplanation.Factors {
			fmt.Printf("  - %s\n", f)
		}
		fmt.Printf("Suitability: %s\n", b.SuitabilityExplanation.Summary)
		for _, f := range b.SuitabilityExplanation.Factors {
			fmt.Printf("  - %s\n", f)
		}
	}
}

// scoreLabel annotates the headline score with a severity hint.
func scoreLabel(b *model.ScoreBreakdown) string {
	switch {
	case b.CriticalRule:
		return "  ⚠ contains an ingredient considered dangerous for this pet"
	case b.Total >= 80:
		return "  (good)"
	case b.Total >= 60:
		return "  (fair)"
	default:
		return "  (poor)"
	}
}
