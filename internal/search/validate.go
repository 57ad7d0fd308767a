package search

import (
	"strings"

	"github.com/pawlens/pawlens/internal/model"
)

// Fuzzy similarity thresholds: brand terms tolerate more variation than
// product terms.
const (
	brandSimilarityThreshold   = 0.80
	productSimilarityThreshold = 0.85
	fuzzyLengthSlack           = 2
)

// ValidResult reports whether a search hit plausibly points at the product:
// its title+URL must contain the brand keyword (exact or fuzzy) and, when
// product keywords exist, at least one of them.
func ValidResult(result model.SearchResult, brand string, productKeywords []string) bool {
	haystack := strings.ToLower(result.Title + " " + result.Link)
	words := splitWords(haystack)

	if brand != "" {
		if !containsKeyword(haystack, words, strings.ToLower(brand), brandSimilarityThreshold) {
			return false
		}
	}

	if len(productKeywords) == 0 {
		return true
	}
	for _, kw := range productKeywords {
		if containsKeyword(haystack, words, kw, productSimilarityThreshold) {
			return true
		}
	}
	return false
}

// containsKeyword accepts an exact substring hit or a fuzzy per-word match.
func containsKeyword(haystack string, words []string, keyword string, threshold float64) bool {
	if strings.Contains(haystack, keyword) {
		return true
	}
	for _, w := range words {
		if fuzzyWordMatch(w, keyword, threshold) {
			return true
		}
	}
	return false
}

// fuzzyWordMatch qualifies a candidate word when its length is within
// fuzzyLengthSlack of the keyword and its normalized edit similarity
// (1 - distance/maxLen) exceeds the threshold.
func fuzzyWordMatch(word, keyword string, threshold float64) bool {
	ld := len(word) - len(keyword)
	if ld < 0 {
		ld = -ld
	}
	if ld > fuzzyLengthSlack {
		return false
	}
	maxLen := len(word)
	if len(keyword) > maxLen {
		maxLen = len(keyword)
	}
	if maxLen == 0 {
		return false
	}
	similarity := 1 - float64(levenshteinDistance(word, keyword))/float64(maxLen)
	return similarity > threshold
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
}

// levenshteinDistance computes the edit distance between two strings with a
// two-row dynamic programming table.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := 0; j <= len(s2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
