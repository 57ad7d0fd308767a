package pipeline

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pawlens/pawlens/internal/cache"
	"github.com/pawlens/pawlens/internal/catalog"
	"github.com/pawlens/pawlens/internal/llm"
	"github.com/pawlens/pawlens/internal/match"
	"github.com/pawlens/pawlens/internal/model"
	"github.com/pawlens/pawlens/internal/normalize"
	"github.com/pawlens/pawlens/internal/openfoodfacts"
	"github.com/pawlens/pawlens/internal/resolver"
	"github.com/pawlens/pawlens/internal/score"
	"github.com/pawlens/pawlens/internal/scrape"
	"github.com/pawlens/pawlens/internal/search"
)

// NewFromConfig builds a fully wired pipeline from configuration. The
// catalog is loaded asynchronously; stages that need it block until it is
// ready.
func NewFromConfig(cfg *model.Config, log *zap.Logger) *Pipeline {
	cat := catalog.LoadAsync("", log)

	var ai llm.Provider
	if cfg.LLM.APIKey != "" {
		provider, err := llm.NewOpenAIProvider(llm.FromModel(cfg.LLM))
		if err != nil {
			log.Warn("llm provider disabled", zap.Error(err))
		} else {
			ai = provider
		}
	}

	var store resolver.ProductCache
	if cfg.Cache.Enabled {
		store = buildProductStore(cfg.Cache, log)
	}

	api := openfoodfacts.New(cfg.ProductAPI.BaseURL, cfg.HTTP.UserAgent, cfg.ProductAPI.Timeout)
	res := resolver.New(store, api, log)

	searchClient := search.NewClient(cfg.Search.BaseURL, cfg.Search.APIKey, cfg.Search.Timeout)
	searcher := search.NewSearcher(searchClient, cfg.Concurrency.SearchWorkers, cfg.Search.ResultCount, log)

	fetcher := scrape.NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, cfg.HTTP.InsecureTLS)
	var robots *scrape.RobotsChecker
	if cfg.Scrape.RespectRobots {
		robots = scrape.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}
	limiter := scrape.NewLimiter(cfg.Scrape.RatePerSecond, cfg.Scrape.RateBurst)
	var extractAPI *scrape.ExtractClient
	if cfg.Scrape.ExtractAPIKey != "" {
		extractAPI = scrape.NewExtractClient(cfg.Scrape.ExtractAPIURL, cfg.Scrape.ExtractAPIKey, cfg.Scrape.ExtractTimeout)
	}
	scraper := scrape.NewScraper(fetcher, robots, limiter, extractAPI, cfg.Scrape.RetryDelay, cfg.Concurrency.ScrapeWorkers, log)

	return New(res, searcher, scraper, fetcher,
		normalize.New(cat), match.New(cat), score.New(cat), ai, log)
}

// buildProductStore stacks the configured cache layers: memory in front,
// disk behind it, Redis last when an address is set.
func buildProductStore(cfg model.CacheConfig, log *zap.Logger) *cache.ProductStore {
	layers := []cache.Cache{cache.NewMemoryCache(cfg.MemoryTTL, cfg.MemoryTTL/2)}

	dir := cfg.Dir
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".pawlens", "cache")
		}
	}
	if dir != "" {
		layers = append(layers, cache.NewDiskCache(dir, cfg.DiskTTL))
	}
	if cfg.RedisAddr != "" {
		layers = append(layers, cache.NewRedisCache(cfg.RedisAddr, cfg.RedisTTL))
		log.Debug("redis cache layer enabled", zap.String("addr", cfg.RedisAddr))
	}

	return cache.NewProductStore(cache.NewLayeredCache(layers...), cfg.DiskTTL)
}
