// Package llm is the optional AI tier: ingredient extraction from page text
// that defeated the structured extractors, and brand identification from a
// product photo. It never runs unless an API key is configured, and its
// results always carry the lowest confidence tier.
package llm

import (
	"context"

	"github.com/pawlens/pawlens/internal/model"
)

// Provider is implemented by each LLM backend so tests can substitute fakes.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// ExtractIngredients pulls an ingredient list out of free page text.
	ExtractIngredients(ctx context.Context, pageText string) ([]string, error)

	// IdentifyProduct guesses brand and product name from a photo.
	IdentifyProduct(ctx context.Context, imageBase64 string) (*ProductGuess, error)
}

// ProductGuess is a vision model's reading of a product photo.
type ProductGuess struct {
	Brand      string
	Name       string
	Confidence model.ConfidenceTier
}

// Config mirrors model.LLMConfig for the provider constructors.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string
	MaxTokens   int
	TimeoutSec  int
}

// FromModel converts the app-level config.
func FromModel(cfg model.LLMConfig) Config {
	return Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		VisionModel: cfg.VisionModel,
		MaxTokens:   cfg.MaxTokens,
		TimeoutSec:  cfg.TimeoutSec,
	}
}
