package model

import "time"

// ProductInfo is the resolved product a scan works on, whichever source it came from.
type ProductInfo struct {
	Barcode         string    `json:"barcode"`
	Name            string    `json:"name"`
	Brand           string    `json:"brand,omitempty"`
	IngredientsText string    `json:"ingredients_text"`
	ImageURL        string    `json:"image_url,omitempty"`
	Source          string    `json:"source"` // "cache", "openfoodfacts", "scrape", "llm"
	FetchedAt       time.Time `json:"fetched_at"`
}

// ConfidenceTier grades how trustworthy an extracted ingredient list is.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"   // structured data (JSON-LD, product API)
	ConfidenceMedium ConfidenceTier = "medium" // site-specific HTML patterns
	ConfidenceLow    ConfidenceTier = "low"    // regex fallback or LLM extraction
)

// SearchResult is one organic hit from the web search API.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
	Source  string `json:"source,omitempty"` // which retailer/manufacturer source produced it
}

// ScrapedIngredients is the output of a single successful page extraction.
type ScrapedIngredients struct {
	URL        string         `json:"url"`
	Text       string         `json:"text"`
	Confidence ConfidenceTier `json:"confidence"`
	Method     string         `json:"method"` // "jsonld", "pattern", "regex", "api", "llm"
}

// ScrapedProduct is the structured result of the search-and-scrape pipeline.
type ScrapedProduct struct {
	Name        string         `json:"name"`
	Brand       string         `json:"brand,omitempty"`
	Ingredients []string       `json:"ingredients"`
	URL         string         `json:"url"`
	ImageURL    string         `json:"image_url,omitempty"`
	Confidence  ConfidenceTier `json:"confidence"`
}

// IngredientsText joins the extracted ingredient list back into label form.
func (p *ScrapedProduct) IngredientsText() string {
	out := ""
	for i, ing := range p.Ingredients {
		if i > 0 {
			out += ", "
		}
		out += ing
	}
	return out
}
