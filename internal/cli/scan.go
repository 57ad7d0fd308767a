package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pawlens/pawlens/internal/model"
	"github.com/pawlens/pawlens/internal/pipeline"
)

var (
	species     string
	allergens   []string
	category    string
	outJSON     bool
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	insecureTLS bool
	llmEnabled  bool
	llmModel    string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <barcode>",
	Short: "Scan a product barcode and score it for your pet",
	Long: `Scan resolves a UPC-A or EAN-13 barcode to a product:
- Local cache and the Open Food Facts database first
- Web search across retailer and manufacturer sites on a miss
- Concurrent scraping of candidate pages for the ingredient list

The ingredient list is then normalized, matched against the ingredient
catalog, and scored for the given species and allergen profile.

Example:
  pawlens scan 0123456789012
  pawlens scan 0123456789012 --species cat --allergens chicken,corn
  pawlens scan 0123456789012 --category cosmetic --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addProfileFlags(scanCmd)
	addPipelineFlags(scanCmd)
}

// addProfileFlags registers the pet profile flags shared by all scan modes.
func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&species, "species", "dog", "pet species (dog, cat)")
	cmd.Flags().StringSliceVar(&allergens, "allergens", nil, "known allergens, comma-separated (e.g. chicken,corn)")
	cmd.Flags().StringVar(&category, "category", "food", "product category (food, treat, cosmetic)")
	cmd.Flags().BoolVar(&outJSON, "json", false, "emit the full result as JSON")
}

// addPipelineFlags registers the network and LLM flags for scan modes that
// touch the web.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall scan timeout (increase for slow retailer pages)")
	cmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read per page")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the product cache (force fresh lookups)")
	cmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the LLM extraction fallback")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name override")
}

// buildConfig assembles the runtime configuration from defaults, environment
// variables, and flags.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	if outJSON {
		cfg.Output.Format = "json"
	}

	cfg.Search.APIKey = os.Getenv("SERPER_API_KEY")
	cfg.Scrape.ExtractAPIKey = os.Getenv("FIRECRAWL_API_KEY")
	if addr := os.Getenv("PAWLENS_REDIS_ADDR"); addr != "" {
		cfg.Cache.RedisAddr = addr
	}

	if llmEnabled {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
	}

	return cfg, nil
}

// buildProfile validates the profile flags.
func buildProfile() (model.PetAllergenProfile, model.Category, error) {
	sp := model.Species(species)
	if sp != model.SpeciesDog && sp != model.SpeciesCat {
		return model.PetAllergenProfile{}, "", fmt.Errorf("unknown species %q (expected dog or cat)", species)
	}
	cat := model.Category(category)
	switch cat {
	case model.CategoryFood, model.CategoryTreat, model.CategoryCosmetic:
	default:
		return model.PetAllergenProfile{}, "", fmt.Errorf("unknown category %q (expected food, treat, or cosmetic)", category)
	}
	return model.PetAllergenProfile{Species: sp, Allergens: allergens}, cat, nil
}

// newLogger builds the zap logger used by the pipeline.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func runScan(cmd *cobra.Command, args []string) error {
	barcode := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	profile, cat, err := buildProfile()
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning barcode: %s\n", barcode)
		fmt.Fprintf(os.Stderr, "Species: %s  Category: %s\n", profile.Species, cat)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewFromConfig(cfg, log)

	result, err := p.ScanBarcode(ctx, barcode, profile, cat)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	return renderResult(result, cfg.Output)
}
