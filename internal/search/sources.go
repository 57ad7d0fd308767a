package search

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Source is one place to search for a product: a retailer or a
// manufacturer site, expressed as a site-scoped query target.
type Source struct {
	Name   string
	Domain string
	Kind   string // "retailer", "manufacturer", "discovered"
}

// retailerSources is the fixed list of general pet retailers always searched.
var retailerSources = []Source{
	{Name: "Chewy", Domain: "chewy.com", Kind: "retailer"},
	{Name: "Petco", Domain: "petco.com", Kind: "retailer"},
	{Name: "PetSmart", Domain: "petsmart.com", Kind: "retailer"},
	{Name: "Amazon", Domain: "amazon.com", Kind: "retailer"},
	{Name: "Walmart", Domain: "walmart.com", Kind: "retailer"},
}

// manufacturerDomains maps known brands (and alias spellings) to their
// manufacturer site.
var manufacturerDomains = map[string]string{
	"purina":          "purina.com",
	"purina one":      "purina.com",
	"purina pro plan": "purina.com",
	"pro plan":        "purina.com",
	"fancy feast":     "purina.com",
	"friskies":        "purina.com",
	"blue buffalo":    "bluebuffalo.com",
	"blue":            "bluebuffalo.com",
	"hill's":          "hillspet.com",
	"hills":           "hillspet.com",
	"science diet":    "hillspet.com",
	"royal canin":     "royalcanin.com",
	"iams":            "iams.com",
	"eukanuba":        "eukanuba.com",
	"pedigree":        "pedigree.com",
	"wellness":        "wellnesspetfood.com",
	"orijen":          "orijenpetfoods.com",
	"acana":           "acana.com",
	"taste of the wild": "tasteofthewildpetfood.com",
	"merrick":         "merrickpetcare.com",
	"nutro":           "nutro.com",
	"natural balance": "naturalbalanceinc.com",
	"canidae":         "canidae.com",
	"instinct":        "instinctpetfood.com",
	"greenies":        "greenies.com",
}

// nonProductDomains are filtered out of dynamic manufacturer discovery:
// retailers, marketplaces and review/blog sites whose top hit would not be
// the brand's own site.
var nonProductDomains = []string{
	"chewy.com", "petco.com", "petsmart.com", "amazon.com", "walmart.com",
	"target.com", "ebay.com", "instacart.com", "reddit.com", "facebook.com",
	"youtube.com", "wikipedia.org", "dogfoodadvisor.com", "petfoodindustry.com",
	"consumeraffairs.com", "chewy.ca",
}

// SourcesFor builds the source set for a brand: the matched or discovered
// manufacturer site first, then the fixed retailer list.
func (s *Searcher) SourcesFor(ctx context.Context, brand string) []Source {
	var sources []Source

	if domain, ok := lookupManufacturer(brand); ok {
		sources = append(sources, Source{Name: brand, Domain: domain, Kind: "manufacturer"})
	} else if brand != "" {
		if domain, ok := s.discoverManufacturer(ctx, brand); ok {
			sources = append(sources, Source{Name: brand, Domain: domain, Kind: "discovered"})
		}
	}

	return append(sources, retailerSources...)
}

// lookupManufacturer checks the fixed brand table, tolerating alias variants
// by progressively shortening the brand string.
func lookupManufacturer(brand string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(brand))
	if key == "" {
		return "", false
	}
	if domain, ok := manufacturerDomains[key]; ok {
		return domain, true
	}
	// Drop trailing words: "Purina Pro Plan Savor" -> "purina pro plan" -> "purina".
	words := strings.Fields(key)
	for n := len(words) - 1; n >= 1; n-- {
		if domain, ok := manufacturerDomains[strings.Join(words[:n], " ")]; ok {
			return domain, true
		}
	}
	return "", false
}

// discoverManufacturer searches for the brand's official site and takes the
// first result whose domain is not a known retailer or review site.
func (s *Searcher) discoverManufacturer(ctx context.Context, brand string) (string, bool) {
	results, err := s.client.Search(ctx, brand+" pet food official site", 5)
	if err != nil {
		s.log.Debug("manufacturer discovery failed", zap.String("brand", brand), zap.Error(err))
		return "", false
	}

	for _, r := range results {
		domain := domainOf(r.Link)
		if domain == "" || isNonProductDomain(domain) {
			continue
		}
		s.log.Debug("manufacturer discovered", zap.String("brand", brand), zap.String("domain", domain))
		return domain, true
	}
	return "", false
}

func isNonProductDomain(domain string) bool {
	for _, d := range nonProductDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}

func domainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
}
