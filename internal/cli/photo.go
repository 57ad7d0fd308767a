package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pawlens/pawlens/internal/pipeline"
)

// photoCmd represents the photo command
var photoCmd = &cobra.Command{
	Use:   "photo <image-file>",
	Short: "Identify a product from a photo and score it",
	Long: `Photo sends a product image to the vision model to identify brand and
product name, then drives the web search-and-scrape pipeline with that
guess. Requires OPENAI_API_KEY.

Example:
  pawlens photo front-of-bag.jpg --species dog --allergens chicken`,
	Args: cobra.ExactArgs(1),
	RunE: runPhoto,
}

func init() {
	rootCmd.AddCommand(photoCmd)
	addProfileFlags(photoCmd)
	addPipelineFlags(photoCmd)
}

func runPhoto(cmd *cobra.Command, args []string) error {
	imagePath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Photo identification always needs the vision model.
	llmEnabled = true

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	profile, cat, err := buildProfile()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	p := pipeline.NewFromConfig(cfg, log)

	result, err := p.ScanPhoto(ctx, base64.StdEncoding.EncodeToString(raw), profile, cat)
	if err != nil {
		return fmt.Errorf("photo scan failed: %w", err)
	}

	return renderResult(result, cfg.Output)
}
