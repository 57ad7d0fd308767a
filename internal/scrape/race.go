package scrape

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pawlens/pawlens/internal/model"
)

// scrapeAttempts bounds sequential retries against one URL. The politeness
// delay applies between these attempts only, never across distinct
// concurrent sources.
const scrapeAttempts = 2

// Scraper races candidate URLs: all are scraped concurrently, the first
// extraction that yields a valid ingredient list wins, and the shared
// context cancels every other in-flight fetch so no further requests are
// issued once a result is accepted.
type Scraper struct {
	fetcher    *Fetcher
	robots     *RobotsChecker // nil disables robots checks
	limiter    *Limiter
	extractAPI *ExtractClient // nil disables the hosted extract fallback
	retryDelay time.Duration
	maxWorkers int
	log        *zap.Logger
}

// NewScraper assembles a scraper. robots and extractAPI are optional.
func NewScraper(fetcher *Fetcher, robots *RobotsChecker, limiter *Limiter, extractAPI *ExtractClient, retryDelay time.Duration, maxWorkers int, log *zap.Logger) *Scraper {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &Scraper{
		fetcher:    fetcher,
		robots:     robots,
		limiter:    limiter,
		extractAPI: extractAPI,
		retryDelay: retryDelay,
		maxWorkers: maxWorkers,
		log:        log,
	}
}

// Race scrapes every URL concurrently and returns the first valid result.
// Individual failures are logged and swallowed; only exhaustion of all URLs
// returns ErrAllSourcesExhausted.
func (s *Scraper) Race(ctx context.Context, urls []string) (*model.ScrapedProduct, error) {
	if len(urls) == 0 {
		return nil, model.ErrAllSourcesExhausted
	}

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan *model.ScrapedProduct, 1)
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.maxWorkers)

	for _, u := range urls {
		wg.Add(1)
		go func(pageURL string) {
			defer wg.Done()

			select {
			case <-raceCtx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			product, err := s.scrapeOne(raceCtx, pageURL)
			if err != nil {
				if raceCtx.Err() == nil {
					s.log.Debug("scrape failed", zap.String("url", pageURL), zap.Error(err))
				}
				return
			}

			select {
			case results <- product:
				cancel() // first success wins; stop the rest
			default:
			}
		}(u)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	if product, ok := <-results; ok {
		return product, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, model.ErrAllSourcesExhausted
}

// scrapeOne fetches and extracts a single URL, retrying transient fetch
// failures once with the politeness delay in between.
func (s *Scraper) scrapeOne(ctx context.Context, pageURL string) (*model.ScrapedProduct, error) {
	if s.robots != nil {
		allowed, crawlDelay := s.robots.CanFetch(ctx, pageURL)
		if !allowed {
			return nil, model.ErrExtractionFailed
		}
		if crawlDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(crawlDelay):
			}
		}
	}

	var lastErr error
	for attempt := 0; attempt < scrapeAttempts; attempt++ {
		if attempt > 0 {
			if err := s.limiter.WaitWithDelay(ctx, pageURL, s.retryDelay); err != nil {
				return nil, err
			}
		} else if err := s.limiter.Wait(ctx, pageURL); err != nil {
			return nil, err
		}

		pageHTML, err := s.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			lastErr = err
			continue
		}

		extracted, err := ExtractIngredients(pageHTML, pageURL)
		if err == nil {
			return scrapedToProduct(extracted), nil
		}
		lastErr = err
		break // the page fetched fine; retrying won't change its content
	}

	// Local extraction saw nothing useful; a rendering extract API may.
	if s.extractAPI != nil && ctx.Err() == nil {
		if product, err := s.extractAPI.Extract(ctx, pageURL); err == nil {
			return product, nil
		}
	}

	return nil, lastErr
}

// scrapedToProduct lifts raw ingredient text into the pipeline's product
// shape; name and brand are filled upstream from the query.
func scrapedToProduct(in *model.ScrapedIngredients) *model.ScrapedProduct {
	var ingredients []string
	for _, piece := range strings.FieldsFunc(in.Text, func(r rune) bool { return r == ',' || r == ';' }) {
		if piece = strings.TrimSpace(piece); piece != "" {
			ingredients = append(ingredients, piece)
		}
	}
	return &model.ScrapedProduct{
		Ingredients: ingredients,
		URL:         in.URL,
		Confidence:  in.Confidence,
	}
}
