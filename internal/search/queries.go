package search

import (
	"regexp"
	"strings"
)

var (
	sizeSpecRe   = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(oz|ounce|ounces|lb|lbs|pound|pounds|kg|g|gram|grams|ml|l|liter|liters|ct|count|pack)\b\.?`)
	packSpecRe   = regexp.MustCompile(`(?i)\(\s*\d+\s*(pack|count|ct|case)\s*\)`)
	trademarkRe  = regexp.MustCompile(`[\x{2122}\x{00AE}\x{00A9}]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// genericTerms are filtered out when reducing a query to its core terms.
var genericTerms = map[string]bool{
	"food": true, "dry": true, "wet": true, "adult": true, "puppy": true,
	"kitten": true, "senior": true, "dog": true, "cat": true, "pet": true,
	"recipe": true, "formula": true, "flavor": true, "with": true, "and": true,
	"for": true, "the": true, "in": true, "of": true,
}

const maxCoreTerms = 5

// NormalizeQuery cleans a raw product query: expands abbreviations, strips
// trademark symbols and size/quantity specs, straightens dashes and quotes,
// and collapses whitespace.
func NormalizeQuery(query string) string {
	s := query
	s = strings.NewReplacer(
		"w/", "with ",
		"&", " and ",
		"–", "-", "—", "-",
		"‘", "'", "’", "'",
		"“", "\"", "”", "\"",
	).Replace(s)
	s = trademarkRe.ReplaceAllString(s, "")
	s = packSpecRe.ReplaceAllString(s, " ")
	s = sizeSpecRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// QueryVariations produces an ordered list of search queries from most to
// least specific. The first variation quotes the brand when one is known;
// the last keeps only core terms with generic pet-food words filtered out.
func QueryVariations(query, brand string) []string {
	normalized := NormalizeQuery(query)
	if normalized == "" {
		return nil
	}

	var variations []string
	seen := map[string]bool{}
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" && !seen[strings.ToLower(v)] {
			seen[strings.ToLower(v)] = true
			variations = append(variations, v)
		}
	}

	if brand != "" && !strings.Contains(strings.ToLower(normalized), strings.ToLower(brand)) {
		add("\"" + brand + "\" " + normalized)
	}
	add(normalized)

	// Manufacturer prefix stripped: labels often lead with the brand name.
	if brand != "" {
		stripped := stripPrefixFold(normalized, brand)
		add(stripped)
	}

	add(coreTerms(normalized))

	return variations
}

// coreTerms reduces a normalized query to its most distinctive words.
func coreTerms(normalized string) string {
	var kept []string
	for _, word := range strings.Fields(normalized) {
		if genericTerms[strings.ToLower(strings.Trim(word, `"',.`))] {
			continue
		}
		kept = append(kept, word)
		if len(kept) == maxCoreTerms {
			break
		}
	}
	return strings.Join(kept, " ")
}

// stripPrefixFold removes a case-insensitive prefix plus following separators.
func stripPrefixFold(s, prefix string) string {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return strings.TrimLeft(s[len(prefix):], " -:")
	}
	return s
}

// ProductKeywords extracts the distinctive words of a query, used by result
// validation to reject off-topic hits. Numeric tokens are skipped: a GTIN
// query is answered by the search engine's own index, and retailer product
// pages carry name slugs, not the barcode digits.
func ProductKeywords(query string) []string {
	var keywords []string
	for _, word := range strings.Fields(NormalizeQuery(query)) {
		w := strings.ToLower(strings.Trim(word, `"',.()`))
		if len(w) < 3 || genericTerms[w] || isNumeric(w) {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
