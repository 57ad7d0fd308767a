package scrape

import (
	"errors"
	"testing"

	"github.com/pawlens/pawlens/internal/model"
)

func TestExtractIngredients_JSONLD(t *testing.T) {
	page := `<html><head>
		<script type="application/ld+json">
		{
			"@type": "Product",
			"name": "Acme Chicken Dinner",
			"offers": {"price": "29.99"},
			"ingredients": "Chicken, chicken meal, brown rice, barley, chicken fat, flaxseed"
		}
		</script>
	</head><body><p>Storefront chrome</p></body></html>`

	got, err := ExtractIngredients(page, "https://example.com/p/1")
	if err != nil {
		t.Fatalf("ExtractIngredients failed: %v", err)
	}
	if got.Method != "jsonld" {
		t.Errorf("Expected jsonld method, got %q", got.Method)
	}
	if got.Confidence != model.ConfidenceHigh {
		t.Errorf("Expected high confidence, got %q", got.Confidence)
	}
	if got.Text != "Chicken, chicken meal, brown rice, barley, chicken fat, flaxseed" {
		t.Errorf("Unexpected text: %q", got.Text)
	}
}

func TestExtractIngredients_JSONLD_RecipeIngredientArray(t *testing.T) {
	page := `<html><head>
		<script type="application/ld+json">
		{"@type": "Recipe", "recipeIngredient": ["Chicken", "chicken meal", "brown rice", "barley", "chicken fat", "flaxseed oil"]}
		</script>
	</head><body></body></html>`

	got, err := ExtractIngredients(page, "https://example.com/p/1")
	if err != nil {
		t.Fatalf("ExtractIngredients failed: %v", err)
	}
	if got.Text != "Chicken, chicken meal, brown rice, barley, chicken fat, flaxseed oil" {
		t.Errorf("Unexpected joined text: %q", got.Text)
	}
}

func TestExtractIngredients_SectionMarkup(t *testing.T) {
	page := `<html><body>
		<div class="product-ingredients">
			Ingredients: Chicken, chicken meal, brown rice, barley, chicken fat, flaxseed
		</div>
	</body></html>`

	got, err := ExtractIngredients(page, "https://example.com/p/1")
	if err != nil {
		t.Fatalf("ExtractIngredients failed: %v", err)
	}
	if got.Method != "pattern" {
		t.Errorf("Expected pattern method, got %q", got.Method)
	}
	if got.Confidence != model.ConfidenceMedium {
		t.Errorf("Expected medium confidence, got %q", got.Confidence)
	}
	if got.Text != "Chicken, chicken meal, brown rice, barley, chicken fat, flaxseed" {
		t.Errorf("Expected label prefix stripped, got %q", got.Text)
	}
}

func TestExtractIngredients_HeadingFollowedByBlock(t *testing.T) {
	page := `<html><body>
		<h3>Ingredients</h3>
		<p>Chicken, chicken meal, brown rice, barley, chicken fat, flaxseed</p>
		<h3>Feeding Guide</h3>
		<p>Feed twice daily.</p>
	</body></html>`

	got, err := ExtractIngredients(page, "https://example.com/p/1")
	if err != nil {
		t.Fatalf("ExtractIngredients failed: %v", err)
	}
	if got.Text != "Chicken, chicken meal, brown rice, barley, chicken fat, flaxseed" {
		t.Errorf("Unexpected text: %q", got.Text)
	}
}

func TestExtractIngredients_TextRegexFallback(t *testing.T) {
	page := `<html><body>
		<p>Acme Chicken Dinner is made with care.</p>
		<p>INGREDIENTS: Chicken, chicken meal, brown rice, barley, chicken fat, flaxseed
		Guaranteed Analysis Crude protein 26% minimum</p>
	</body></html>`

	got, err := ExtractIngredients(page, "https://example.com/p/1")
	if err != nil {
		t.Fatalf("ExtractIngredients failed: %v", err)
	}
	if got.Method != "regex" {
		t.Errorf("Expected regex method, got %q", got.Method)
	}
	if got.Confidence != model.ConfidenceLow {
		t.Errorf("Expected low confidence, got %q", got.Confidence)
	}
	if !ValidIngredientText(got.Text) {
		t.Errorf("Expected validated text, got %q", got.Text)
	}
}

func TestExtractIngredients_NothingUseful(t *testing.T) {
	page := `<html><body><h1>Welcome</h1><p>Buy our products today.</p></body></html>`

	_, err := ExtractIngredients(page, "https://example.com")
	if !errors.Is(err, model.ErrExtractionFailed) {
		t.Errorf("Expected ErrExtractionFailed, got %v", err)
	}
}

func TestExtractIngredients_BoilerplateRejected(t *testing.T) {
	// Structured data present but poisoned with storefront chrome; the
	// validator must refuse it and no later tier may save it.
	page := `<html><head><script type="application/ld+json">
		{"ingredients": "Chicken, rice, peas, add to cart for free shipping with our subscription"}
	</script></head><body></body></html>`

	if _, err := ExtractIngredients(page, "https://example.com"); err == nil {
		t.Error("Expected boilerplate-poisoned structured data to be rejected")
	}
}
