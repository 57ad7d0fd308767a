// Package pipeline wires the scan flow together: resolve a barcode or photo
// to a product, normalize and match its ingredient text, and score it
// against the pet profile.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pawlens/pawlens/internal/llm"
	"github.com/pawlens/pawlens/internal/match"
	"github.com/pawlens/pawlens/internal/model"
	"github.com/pawlens/pawlens/internal/normalize"
	"github.com/pawlens/pawlens/internal/resolver"
	"github.com/pawlens/pawlens/internal/score"
	"github.com/pawlens/pawlens/internal/scrape"
	"github.com/pawlens/pawlens/internal/search"
)

// llmFallbackPages bounds how many candidate pages the LLM tier may read
// after structured extraction failed everywhere.
const llmFallbackPages = 3

// ScanResult is the complete outcome of one scan.
type ScanResult struct {
	Product        *model.ProductInfo        `json:"product"`
	NormalizedText string                    `json:"normalized_text"`
	Matched        []model.MatchedIngredient `json:"matched"`
	Breakdown      model.ScoreBreakdown      `json:"breakdown"`
}

// Pipeline orchestrates the scan process end to end.
type Pipeline struct {
	resolver   *resolver.Resolver
	searcher   *search.Searcher
	scraper    *scrape.Scraper
	fetcher    *scrape.Fetcher
	normalizer *normalize.Normalizer
	matcher    *match.Matcher
	scorer     *score.Scorer
	ai         llm.Provider // nil when no API key is configured
	log        *zap.Logger
}

// New assembles a pipeline from its already-constructed parts. ai may be nil.
func New(res *resolver.Resolver, searcher *search.Searcher, scraper *scrape.Scraper, fetcher *scrape.Fetcher,
	normalizer *normalize.Normalizer, matcher *match.Matcher, scorer *score.Scorer, ai llm.Provider, log *zap.Logger) *Pipeline {
	return &Pipeline{
		resolver:   res,
		searcher:   searcher,
		scraper:    scraper,
		fetcher:    fetcher,
		normalizer: normalizer,
		matcher:    matcher,
		scorer:     scorer,
		ai:         ai,
		log:        log,
	}
}

// ScanBarcode resolves a barcode through cache and product API, falling back
// to the web search-and-scrape pipeline, then matches and scores the result.
func (p *Pipeline) ScanBarcode(ctx context.Context, barcode string, profile model.PetAllergenProfile, category model.Category) (*ScanResult, error) {
	product, err := p.resolver.Resolve(ctx, barcode)
	if err != nil {
		if !errors.Is(err, model.ErrProductNotFound) {
			return nil, err
		}
		p.log.Info("structured lookup missed, falling back to web pipeline", zap.String("barcode", barcode))

		scraped, scrapeErr := p.SearchAndScrape(ctx, barcode, "")
		if scrapeErr != nil {
			return nil, scrapeErr
		}
		product = &model.ProductInfo{
			Barcode:         barcode,
			Name:            scraped.Name,
			Brand:           scraped.Brand,
			IngredientsText: scraped.IngredientsText(),
			ImageURL:        scraped.ImageURL,
			Source:          "scrape",
			FetchedAt:       time.Now().UTC(),
		}
	}

	return p.scoreProduct(product, profile, category), nil
}

// ScanPhoto identifies brand and product from a photo via the vision model,
// then drives the web pipeline with that guess. OCR of a visible label
// should go through ScanText instead.
func (p *Pipeline) ScanPhoto(ctx context.Context, imageBase64 string, profile model.PetAllergenProfile, category model.Category) (*ScanResult, error) {
	if p.ai == nil {
		return nil, errors.New("photo identification requires a configured LLM provider")
	}

	guess, err := p.ai.IdentifyProduct(ctx, imageBase64)
	if err != nil {
		return nil, err
	}
	if guess.Name == "" && guess.Brand == "" {
		return nil, model.ErrProductNotFound
	}

	query := strings.TrimSpace(guess.Brand + " " + guess.Name)
	scraped, err := p.SearchAndScrape(ctx, query, guess.Brand)
	if err != nil {
		return nil, err
	}

	product := &model.ProductInfo{
		Name:            scraped.Name,
		Brand:           scraped.Brand,
		IngredientsText: scraped.IngredientsText(),
		ImageURL:        scraped.ImageURL,
		Source:          "scrape",
		FetchedAt:       time.Now().UTC(),
	}
	return p.scoreProduct(product, profile, category), nil
}

// ScanText runs raw label text (typically OCR output) straight through
// normalization, matching and scoring. It never fails; noisy input
// degrades to unmatched ingredients.
func (p *Pipeline) ScanText(rawText string, profile model.PetAllergenProfile, category model.Category) *ScanResult {
	return p.scoreProduct(&model.ProductInfo{
		IngredientsText: rawText,
		Source:          "text",
		FetchedAt:       time.Now().UTC(),
	}, profile, category)
}

// SearchAndScrape runs the web tier: candidate search fan-out, the scrape
// race, and the LLM extraction fallback when everything structured failed.
func (p *Pipeline) SearchAndScrape(ctx context.Context, query, brand string) (*model.ScrapedProduct, error) {
	candidates, err := p.searcher.FindCandidates(ctx, query, brand)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(candidates))
	titles := make(map[string]string, len(candidates))
	for _, c := range candidates {
		urls = append(urls, c.Link)
		titles[c.Link] = c.Title
	}

	product, err := p.scraper.Race(ctx, urls)
	if err != nil {
		if errors.Is(err, model.ErrAllSourcesExhausted) && p.ai != nil {
			product, err = p.llmExtract(ctx, urls)
		}
		if err != nil {
			return nil, err
		}
	}

	if product.Name == "" {
		if title, ok := titles[product.URL]; ok && title != "" {
			product.Name = title
		} else {
			product.Name = search.NormalizeQuery(query)
		}
	}
	if product.Brand == "" {
		product.Brand = brand
	}
	return product, nil
}

// llmExtract is the last-resort tier: re-fetch the top candidates and let
// the LLM read the raw page text.
func (p *Pipeline) llmExtract(ctx context.Context, urls []string) (*model.ScrapedProduct, error) {
	limit := llmFallbackPages
	if len(urls) < limit {
		limit = len(urls)
	}
	for _, pageURL := range urls[:limit] {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		pageHTML, err := p.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			continue
		}
		ingredients, err := p.ai.ExtractIngredients(ctx, pageHTML)
		if err != nil || len(ingredients) == 0 {
			if err != nil {
				p.log.Debug("llm extraction failed", zap.String("url", pageURL), zap.Error(err))
			}
			continue
		}
		return &model.ScrapedProduct{
			Ingredients: ingredients,
			URL:         pageURL,
			Confidence:  model.ConfidenceLow,
		}, nil
	}
	return nil, model.ErrAllSourcesExhausted
}

// scoreProduct runs the pure text stages: normalize, match, score.
func (p *Pipeline) scoreProduct(product *model.ProductInfo, profile model.PetAllergenProfile, category model.Category) *ScanResult {
	normalized := p.normalizer.Normalize(product.IngredientsText)
	matched := p.matcher.Match(normalized)
	breakdown := p.scorer.Calculate(matched, profile.Allergens, profile.Species, category)

	return &ScanResult{
		Product:        product,
		NormalizedText: normalized,
		Matched:        matched,
		Breakdown:      breakdown,
	}
}
