// Package match maps normalized ingredient tokens to canonical catalog ids
// using synonym lookup, descriptor stripping and a substring containment
// fallback.
package match

import (
	"regexp"
	"strings"

	"github.com/pawlens/pawlens/internal/model"
)

// CatalogSource is the view of the ingredient catalog the matcher needs.
type CatalogSource interface {
	Lookup(phrase string) (string, bool)
	SynonymKeys() []string
	Ingredient(id string) (*model.IngredientRecord, bool)
}

// descriptorWords are modifier terms stripped from a token when the exact
// synonym lookup fails, matched as whole words.
var descriptorWords = map[string]bool{
	"dried": true, "dehydrated": true, "powder": true, "powdered": true,
	"organic": true, "natural": true, "fresh": true, "frozen": true,
	"raw": true, "whole": true, "ground": true, "rolled": true,
	"hydrolyzed": true, "concentrate": true, "concentrated": true,
	"extract": true, "meal": true, "flour": true, "puree": true,
	"deboned": true, "boneless": true, "skinless": true, "cooked": true,
	"roasted": true, "smoked": true, "grain": true, "free": true,
	"premium": true, "real": true, "wild": true, "farm": true,
	"raised": true, "supplement": true,
}

var (
	parentheticalRe = regexp.MustCompile(`\(.*?\)`)
	disallowedRe    = regexp.MustCompile(`[^a-z0-9\s'\-/]`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	numericTokenRe  = regexp.MustCompile(`^\d+(\.\d+)?%?$`)
	byProductRe     = regexp.MustCompile(`\bby-?products?\b`)
)

// minContainmentLen guards the substring fallback against trivial matches.
const minContainmentLen = 3

// Matcher resolves raw ingredient lists against the catalog. Matching is a
// pure function of the token, the synonym table and the descriptor
// vocabulary; it is safe for concurrent use.
type Matcher struct {
	catalog CatalogSource
}

// New creates a matcher backed by the given catalog.
func New(catalog CatalogSource) *Matcher {
	return &Matcher{catalog: catalog}
}

// Match splits a comma-delimited ingredient list and resolves each token.
// Token order defines rank (1-based) and is preserved in the result. Tokens
// that resolve nowhere come back with an empty IngredientID rather than an
// error; noisy OCR input is the expected common case.
func (m *Matcher) Match(rawIngredientList string) []model.MatchedIngredient {
	pieces := strings.FieldsFunc(rawIngredientList, func(r rune) bool {
		return r == ',' || r == ';'
	})

	var matched []model.MatchedIngredient
	rank := 0
	for _, piece := range pieces {
		label := strings.TrimSpace(piece)
		if label == "" {
			continue
		}
		rank++

		entry := model.MatchedIngredient{LabelName: label, Rank: rank}
		if id, ok := m.resolve(label); ok {
			entry.IngredientID = id
			if rec, found := m.catalog.Ingredient(id); found {
				entry.ProcessingLevel = rec.ProcessingLevel
			}
		}
		matched = append(matched, entry)
	}

	return matched
}

// resolve runs the full matching ladder for one token: exact lookup,
// descriptor-stripped lookup, then substring containment.
func (m *Matcher) resolve(label string) (string, bool) {
	normalized := normalizeLabel(label)
	if normalized == "" {
		return "", false
	}

	if id, ok := m.catalog.Lookup(normalized); ok {
		return id, true
	}

	stripped := stripDescriptors(normalized)
	if stripped != "" && stripped != normalized {
		if id, ok := m.catalog.Lookup(stripped); ok {
			return id, true
		}
	}

	if stripped == "" {
		stripped = normalized
	}
	return m.containmentMatch(stripped)
}

// normalizeLabel lowercases a token, straightens curly quotes, drops
// parenthetical asides, removes everything but alphanumerics, whitespace,
// apostrophe, hyphen and slash, and collapses whitespace.
func normalizeLabel(label string) string {
	s := strings.ToLower(label)
	s = strings.NewReplacer("‘", "'", "’", "'", "“", "", "”", "").Replace(s)
	s = parentheticalRe.ReplaceAllString(s, " ")
	s = disallowedRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripDescriptors removes descriptor words, numeric/percentage tokens and
// by-product suffixes, then collapses whitespace.
func stripDescriptors(normalized string) string {
	s := byProductRe.ReplaceAllString(normalized, " ")
	words := strings.Fields(s)
	var kept []string
	for _, w := range words {
		if descriptorWords[w] || numericTokenRe.MatchString(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// containmentMatch scans every synonym key for bidirectional substring
// containment. The shorter of token and key must exceed minContainmentLen.
// SynonymKeys is sorted longest-first and the scan takes the first hit, so
// ties resolve longest-key-wins deterministically.
func (m *Matcher) containmentMatch(token string) (string, bool) {
	if len(token) <= minContainmentLen {
		return "", false
	}
	for _, key := range m.catalog.SynonymKeys() {
		shorter := len(key)
		if len(token) < shorter {
			shorter = len(token)
		}
		if shorter <= minContainmentLen {
			continue
		}
		if strings.Contains(token, key) || strings.Contains(key, token) {
			if id, ok := m.catalog.Lookup(key); ok {
				return id, true
			}
		}
	}
	return "", false
}
