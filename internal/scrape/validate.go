package scrape

import "strings"

// Bounds for a plausible ingredient list. Shorter is a fragment, longer is
// a page dump.
const (
	minIngredientTextLen = 50
	maxIngredientTextLen = 2000
	minAlphaRatio        = 0.5
	minCommaCount        = 3
	minCommaDensity      = 0.08 // commas per word, for texts without a leading ingredient word
)

// leadingIngredientWords are terms a real pet-food ingredient list commonly
// opens with; a text starting with one gets the relaxed comma check.
var leadingIngredientWords = []string{
	"chicken", "beef", "turkey", "lamb", "salmon", "duck", "venison",
	"fish", "meat", "water", "corn", "wheat", "rice", "ground", "deboned",
	"poultry", "whole", "organic",
}

// boilerplatePhrases mark navigation or storefront chrome that regex
// extraction sometimes swallows.
var boilerplatePhrases = []string{
	"add to cart", "add to basket", "sign in", "log in", "create account",
	"free shipping", "customer reviews", "related products", "privacy policy",
	"cookie", "subscribe", "checkout", "your order",
}

// ValidIngredientText reports whether extracted text looks like a genuine
// ingredient list rather than page boilerplate or a fragment.
func ValidIngredientText(text string) bool {
	text = strings.TrimSpace(text)
	if len(text) < minIngredientTextLen || len(text) > maxIngredientTextLen {
		return false
	}

	lower := strings.ToLower(text)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}

	alpha := 0
	for _, r := range lower {
		if r >= 'a' && r <= 'z' {
			alpha++
		}
	}
	if float64(alpha)/float64(len(lower)) <= minAlphaRatio {
		return false
	}

	commas := strings.Count(text, ",")
	if commas < minCommaCount {
		return false
	}
	if !startsWithIngredientWord(lower) {
		words := len(strings.Fields(text))
		if words == 0 || float64(commas)/float64(words) < minCommaDensity {
			return false
		}
	}

	return true
}

func startsWithIngredientWord(lower string) bool {
	for _, w := range leadingIngredientWords {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}
	return false
}
