package scrape

import (
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/pawlens/pawlens/internal/model"
)

// sectionEndRe bounds the generic regex sweep at the section that follows
// the ingredient list on most product pages.
var sectionEndRe = regexp.MustCompile(`(?is)\bingredients?\s*:?\s*(.+?)(?:\bguaranteed analysis\b|\bcalorie content\b|\bfeeding\b|\bnutritional\b|\bdirections\b|$)`)

// ExtractIngredients pulls an ingredient list out of page HTML, trying
// embedded structured data, then ingredient-section markup, then a bounded
// regex over the visible text. Every candidate is validated before
// acceptance; the first valid one wins.
func ExtractIngredients(pageHTML, pageURL string) (*model.ScrapedIngredients, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, model.ErrExtractionFailed
	}

	if text, ok := fromJSONLD(doc); ok && ValidIngredientText(text) {
		return &model.ScrapedIngredients{
			URL: pageURL, Text: text, Confidence: model.ConfidenceHigh, Method: "jsonld",
		}, nil
	}

	if text, ok := fromSectionMarkup(doc); ok && ValidIngredientText(text) {
		return &model.ScrapedIngredients{
			URL: pageURL, Text: text, Confidence: model.ConfidenceMedium, Method: "pattern",
		}, nil
	}

	if text, ok := fromTextRegex(doc); ok && ValidIngredientText(text) {
		return &model.ScrapedIngredients{
			URL: pageURL, Text: text, Confidence: model.ConfidenceLow, Method: "regex",
		}, nil
	}

	return nil, model.ErrExtractionFailed
}

// fromJSONLD scans <script type="application/ld+json"> blocks for an
// "ingredients" (or Recipe "recipeIngredient") field anywhere in the
// structure.
func fromJSONLD(doc *html.Node) (string, bool) {
	var blocks []string
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "script" && attrValue(n, "type") == "application/ld+json" {
			if n.FirstChild != nil {
				blocks = append(blocks, n.FirstChild.Data)
			}
			return false
		}
		return true
	})

	for _, block := range blocks {
		var payload interface{}
		if err := json.Unmarshal([]byte(block), &payload); err != nil {
			continue
		}
		if text := findIngredientsField(payload); text != "" {
			return text, true
		}
	}
	return "", false
}

// findIngredientsField walks decoded JSON for ingredient-bearing keys.
func findIngredientsField(v interface{}) string {
	switch val := v.(type) {
	case map[string]interface{}:
		for _, key := range []string{"ingredients", "recipeIngredient"} {
			if raw, ok := val[key]; ok {
				switch field := raw.(type) {
				case string:
					if field != "" {
						return field
					}
				case []interface{}:
					var parts []string
					for _, item := range field {
						if s, ok := item.(string); ok && s != "" {
							parts = append(parts, s)
						}
					}
					if len(parts) > 0 {
						return strings.Join(parts, ", ")
					}
				}
			}
		}
		for _, nested := range val {
			if text := findIngredientsField(nested); text != "" {
				return text
			}
		}
	case []interface{}:
		for _, item := range val {
			if text := findIngredientsField(item); text != "" {
				return text
			}
		}
	}
	return ""
}

// fromSectionMarkup looks for an element whose class or id names an
// ingredient container, then for a heading reading "Ingredients" followed
// by a text block.
func fromSectionMarkup(doc *html.Node) (string, bool) {
	var container *html.Node
	walk(doc, func(n *html.Node) bool {
		if container != nil {
			return false
		}
		if n.Type == html.ElementNode {
			marker := strings.ToLower(attrValue(n, "class") + " " + attrValue(n, "id"))
			if strings.Contains(marker, "ingredient") {
				container = n
				return false
			}
		}
		return true
	})
	if container != nil {
		if text := collapseText(container); text != "" {
			return stripLabelPrefix(text), true
		}
	}

	// Heading-followed-by-block: <h*>Ingredients</h*><p>Chicken, ...</p>
	var found string
	walk(doc, func(n *html.Node) bool {
		if found != "" {
			return false
		}
		if n.Type == html.ElementNode && isHeading(n.Data) {
			heading := strings.ToLower(strings.TrimSpace(collapseText(n)))
			if heading == "ingredients" || heading == "ingredients:" {
				for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
					if sib.Type == html.ElementNode {
						if text := collapseText(sib); text != "" {
							found = text
							return false
						}
					}
				}
			}
		}
		return true
	})
	if found != "" {
		return found, true
	}
	return "", false
}

// fromTextRegex runs the bounded regex over the page's visible text.
func fromTextRegex(doc *html.Node) (string, bool) {
	text := collapseText(doc)
	m := sectionEndRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func isHeading(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "strong", "b", "dt":
		return true
	}
	return false
}

// stripLabelPrefix drops a leading "Ingredients:" label from container text.
func stripLabelPrefix(text string) string {
	lower := strings.ToLower(text)
	for _, prefix := range []string{"ingredients:", "ingredients"} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(text[len(prefix):])
		}
	}
	return text
}

// collapseText renders the visible text of a node, skipping scripts and styles.
func collapseText(n *html.Node) string {
	var buf strings.Builder
	walk(n, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return false
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		return true
	})
	return strings.TrimSpace(buf.String())
}

// walk visits nodes depth-first; visit returning false prunes the subtree.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
