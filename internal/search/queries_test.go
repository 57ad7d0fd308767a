package search

import (
	"strings"
	"testing"
)

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Purina ONE® Chicken & Rice", "Purina ONE Chicken and Rice"},
		{"Blue Buffalo w/ Salmon 24 oz", "Blue Buffalo with Salmon"},
		{"Acme Dinner (12 Pack)", "Acme Dinner"},
		{"Tidy  Spaces   Litter", "Tidy Spaces Litter"},
		{"Chicken – Rice — Peas", "Chicken - Rice - Peas"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeQuery(tc.in); got != tc.want {
			t.Errorf("NormalizeQuery(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestQueryVariations_OrderedMostSpecificFirst(t *testing.T) {
	variations := QueryVariations("Savor Adult Chicken and Rice Formula", "Purina Pro Plan")

	if len(variations) < 2 {
		t.Fatalf("Expected multiple variations, got %v", variations)
	}
	if !strings.HasPrefix(variations[0], `"Purina Pro Plan"`) {
		t.Errorf("Expected brand-quoted variation first, got %q", variations[0])
	}
	if variations[1] != "Savor Adult Chicken and Rice Formula" {
		t.Errorf("Expected full query second, got %q", variations[1])
	}

	// No duplicates.
	seen := map[string]bool{}
	for _, v := range variations {
		if seen[strings.ToLower(v)] {
			t.Errorf("Duplicate variation %q", v)
		}
		seen[strings.ToLower(v)] = true
	}
}

func TestQueryVariations_BrandPrefixStripped(t *testing.T) {
	variations := QueryVariations("Acme Chicken Dinner", "Acme")

	found := false
	for _, v := range variations {
		if v == "Chicken Dinner" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected brand-prefix-stripped variation, got %v", variations)
	}
}

func TestQueryVariations_EmptyQuery(t *testing.T) {
	if v := QueryVariations("   ", "Acme"); v != nil {
		t.Errorf("Expected nil for empty query, got %v", v)
	}
}

func TestProductKeywords_SkipsNumericTokens(t *testing.T) {
	if keywords := ProductKeywords("041260421024"); keywords != nil {
		t.Errorf("Expected no keywords for a bare GTIN, got %v", keywords)
	}

	keywords := ProductKeywords("Beneful 041260421024")
	if len(keywords) != 1 || keywords[0] != "beneful" {
		t.Errorf("Expected only the name keyword, got %v", keywords)
	}
}

func TestProductKeywords_FiltersGenericTerms(t *testing.T) {
	keywords := ProductKeywords("Savor Adult Dry Dog Food Chicken and Rice")

	for _, kw := range keywords {
		switch kw {
		case "adult", "dry", "dog", "food", "and":
			t.Errorf("Generic term %q survived filtering", kw)
		}
	}

	want := map[string]bool{"savor": false, "chicken": false, "rice": false}
	for _, kw := range keywords {
		if _, ok := want[kw]; ok {
			want[kw] = true
		}
	}
	for kw, found := range want {
		if !found {
			t.Errorf("Expected keyword %q, got %v", kw, keywords)
		}
	}
}
