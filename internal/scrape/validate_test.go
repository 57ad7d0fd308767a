package scrape

import (
	"strings"
	"testing"
)

const sampleIngredients = "Chicken, chicken meal, brown rice, barley, chicken fat, flaxseed, natural flavor"

func TestValidIngredientText_Accepts(t *testing.T) {
	cases := []string{
		sampleIngredients,
		"Deboned chicken, chicken meal, oatmeal, barley, peas, chicken fat, salmon oil",
		// No leading ingredient word, but high comma density.
		"Spinach, carrots, cranberries, blueberries, kelp, chicory root, yucca extract",
	}
	for _, text := range cases {
		if !ValidIngredientText(text) {
			t.Errorf("Expected valid: %q", text)
		}
	}
}

func TestValidIngredientText_RejectsFragmentsAndDumps(t *testing.T) {
	if ValidIngredientText("Chicken, rice") {
		t.Error("Expected short fragment to be rejected")
	}
	if ValidIngredientText(strings.Repeat("chicken, ", 300)) {
		t.Error("Expected over-long page dump to be rejected")
	}
	if ValidIngredientText("") {
		t.Error("Expected empty text to be rejected")
	}
}

func TestValidIngredientText_RejectsBoilerplate(t *testing.T) {
	text := "Chicken, rice, peas, carrots. Add to cart for free shipping, sign in to continue"
	if ValidIngredientText(text) {
		t.Error("Expected storefront boilerplate to be rejected")
	}
}

func TestValidIngredientText_RejectsLowCommaCount(t *testing.T) {
	text := "Chicken is the first ingredient in this food and dogs seem to love the product"
	if ValidIngredientText(text) {
		t.Error("Expected prose without list structure to be rejected")
	}
}

func TestValidIngredientText_RejectsNonAlpha(t *testing.T) {
	text := "1234, 5678, 9012, 3456 7890 1234 5678 9012 3456 7890 1234 5678 9012,"
	if ValidIngredientText(text) {
		t.Error("Expected numeric noise to be rejected")
	}
}

func TestValidIngredientText_CommaDensityForUnknownLead(t *testing.T) {
	// Starts with a non-ingredient word and has sparse commas relative to
	// its word count: the density check must reject it.
	text := "This product description mentions one, two, then three, commas but otherwise " +
		"rambles on about the brand story the family farm the standards of quality and the " +
		"generations of craft behind every single batch made fresh in small kitchens each week"
	if ValidIngredientText(text) {
		t.Error("Expected sparse-comma prose to be rejected")
	}
}
