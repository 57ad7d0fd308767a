package model

import "time"

// Config holds the full runtime configuration. Populated from defaults,
// ~/.pawlens/config.yaml, PAWLENS_* environment variables, and CLI flags.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Search      SearchConfig      `yaml:"search"`
	Scrape      ScrapeConfig      `yaml:"scrape"`
	ProductAPI  ProductAPIConfig  `yaml:"product_api"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	LLM         LLMConfig         `yaml:"llm"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig configures the raw page fetcher.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls"`
}

// CacheConfig configures the local product cache layers.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
	RedisAddr string        `yaml:"redis_addr"` // optional; empty disables the Redis layer
	RedisTTL  time.Duration `yaml:"redis_ttl"`
}

// SearchConfig configures the web search API client and source fan-out.
type SearchConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	ResultCount int           `yaml:"result_count"`
}

// ScrapeConfig configures scraping behavior.
type ScrapeConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	RetryDelay     time.Duration `yaml:"retry_delay"` // politeness delay between same-source attempts
	RespectRobots  bool          `yaml:"respect_robots"`
	RatePerSecond  float64       `yaml:"rate_per_second"` // per-domain request rate
	RateBurst      int           `yaml:"rate_burst"`
	ExtractAPIKey  string        `yaml:"extract_api_key"` // optional scrape/extract API
	ExtractAPIURL  string        `yaml:"extract_api_url"`
	ExtractTimeout time.Duration `yaml:"extract_timeout"` // long enough for JS-rendered pages
}

// ProductAPIConfig configures the barcode product database client.
type ProductAPIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ConcurrencyConfig bounds the pipeline's fan-out.
type ConcurrencyConfig struct {
	SearchWorkers int `yaml:"search_workers"`
	ScrapeWorkers int `yaml:"scrape_workers"`
}

// LLMConfig configures the optional AI extraction fallback.
type LLMConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	VisionModel string `yaml:"vision_model"`
	MaxTokens   int    `yaml:"max_tokens"`
	TimeoutSec  int    `yaml:"timeout_sec"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	Verbose bool   `yaml:"verbose"`
	Format  string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Pawlens/0.1 (+https://github.com/pawlens/pawlens)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   14 * 24 * time.Hour,
			RedisTTL:  7 * 24 * time.Hour,
		},
		Search: SearchConfig{
			BaseURL:     "https://google.serper.dev",
			Timeout:     15 * time.Second,
			ResultCount: 10,
		},
		Scrape: ScrapeConfig{
			Timeout:        45 * time.Second,
			RetryDelay:     400 * time.Millisecond,
			RespectRobots:  true,
			RatePerSecond:  1.0,
			RateBurst:      3,
			ExtractAPIURL:  "https://api.firecrawl.dev",
			ExtractTimeout: 90 * time.Second,
		},
		ProductAPI: ProductAPIConfig{
			BaseURL: "https://world.openfoodfacts.org",
			Timeout: 20 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			SearchWorkers: 6,
			ScrapeWorkers: 4,
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			VisionModel: "gpt-4o",
			MaxTokens:   800,
			TimeoutSec:  30,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}
