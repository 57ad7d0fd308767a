// Package normalize turns raw label text, including run-on OCR output, into a
// comma-delimited ingredient list ready for matching.
package normalize

import (
	"regexp"
	"strings"
)

// SynonymSource is the view of the ingredient catalog the normalizer needs.
type SynonymSource interface {
	// Lookup resolves a normalized lowercase phrase to an ingredient id.
	Lookup(phrase string) (string, bool)
	// SynonymKeys returns all synonym phrases, longest first.
	SynonymKeys() []string
}

// preambleRe strips label lead-ins like "INGREDIENTS:" or "Contains:".
var preambleRe = regexp.MustCompile(`(?i)^.*?\b(ingredients?|contains)\s*:?\s*`)

// separatorDensityThreshold decides whether text is already comma-delimited.
// Well-formed labels average one separator per few words; OCR output that
// dropped its commas falls well below this.
const separatorDensityThreshold = 0.15

// Normalizer converts free text into a comma-separated ingredient list.
// It is stateless apart from the read-only synonym source and safe for
// concurrent use.
type Normalizer struct {
	synonyms       SynonymSource
	maxPhraseWords int
}

// New creates a normalizer backed by the given synonym source.
func New(synonyms SynonymSource) *Normalizer {
	maxWords := 1
	for _, key := range synonyms.SynonymKeys() {
		if n := len(strings.Fields(key)); n > maxWords {
			maxWords = n
		}
	}
	return &Normalizer{synonyms: synonyms, maxPhraseWords: maxWords}
}

// Normalize returns a comma-separated ingredient list for the raw text.
// Empty input yields empty output; text with no recognizable ingredients
// degrades to word-by-word unknown tokens, which the matcher will flag
// unmatched downstream.
func (n *Normalizer) Normalize(rawText string) string {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return ""
	}

	text = preambleRe.ReplaceAllString(text, "")
	if text == "" {
		return ""
	}

	if density(text) > separatorDensityThreshold {
		return rejoinDelimited(text)
	}

	return strings.Join(n.segmentRunOn(text), ", ")
}

// density is the separator-per-word ratio of the text.
func density(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	separators := strings.Count(text, ",") + strings.Count(text, ";")
	return float64(separators) / float64(words)
}

// rejoinDelimited is the fast path for already-delimited labels: split,
// trim, drop empties, rejoin.
func rejoinDelimited(text string) string {
	pieces := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';'
	})
	var entries []string
	for _, p := range pieces {
		if p = strings.TrimSpace(p); p != "" {
			entries = append(entries, p)
		}
	}
	return strings.Join(entries, ", ")
}

// segmentRunOn greedily walks space-separated text left to right, consuming
// the longest known multi-word synonym phrase at each position, then a known
// single word, then a single unknown word verbatim.
func (n *Normalizer) segmentRunOn(text string) []string {
	words := strings.Fields(text)
	var entries []string

	for i := 0; i < len(words); {
		consumed := 0

		// Longest known phrase first. Joining on single spaces means a
		// match always ends on a word boundary.
		maxSpan := n.maxPhraseWords
		if remaining := len(words) - i; remaining < maxSpan {
			maxSpan = remaining
		}
		for span := maxSpan; span >= 2; span-- {
			candidate := normalizeToken(strings.Join(words[i:i+span], " "))
			if _, ok := n.synonyms.Lookup(candidate); ok {
				entries = append(entries, strings.TrimRight(strings.Join(words[i:i+span], " "), ".,;:"))
				consumed = span
				break
			}
		}

		if consumed == 0 {
			// Known or unknown, a single word is consumed verbatim minus
			// trailing punctuation; unknowns surface as unmatched downstream.
			if trimmed := strings.TrimRight(words[i], ".,;:"); trimmed != "" {
				entries = append(entries, trimmed)
			}
			consumed = 1
		}

		i += consumed
	}

	return entries
}

// normalizeToken lowercases a candidate span and strips trailing punctuation
// before synonym lookup.
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(s), ".,;:"))
}
