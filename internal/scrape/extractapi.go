package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pawlens/pawlens/internal/model"
)

// extractSchema describes the product fields the extract API should return.
var extractSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"name":        map[string]string{"type": "string"},
		"brand":       map[string]string{"type": "string"},
		"ingredients": map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}},
		"price":       map[string]string{"type": "string"},
		"imageURL":    map[string]string{"type": "string"},
	},
	"required": []string{"name", "ingredients"},
}

const extractPrompt = "Extract the pet food product name, brand, and the complete ingredient list exactly as printed on the label."

type extractRequest struct {
	URL    string                 `json:"url"`
	Schema map[string]interface{} `json:"extractionSchema"`
	Prompt string                 `json:"prompt"`
}

type extractResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Name        string   `json:"name"`
		Brand       string   `json:"brand"`
		Ingredients []string `json:"ingredients"`
		Price       string   `json:"price"`
		ImageURL    string   `json:"imageURL"`
	} `json:"data"`
}

// ExtractClient calls a hosted scrape/extract API that renders JavaScript
// pages server-side, used when local extraction cannot see the content.
// The timeout must accommodate full page renders.
type ExtractClient struct {
	http *resty.Client
}

// NewExtractClient creates an extract API client.
func NewExtractClient(baseURL, apiKey string, timeout time.Duration) *ExtractClient {
	return &ExtractClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetAuthToken(apiKey).
			SetHeader("Content-Type", "application/json"),
	}
}

// Extract asks the API to scrape one URL into structured product data.
func (c *ExtractClient) Extract(ctx context.Context, pageURL string) (*model.ScrapedProduct, error) {
	var body extractResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(extractRequest{URL: pageURL, Schema: extractSchema, Prompt: extractPrompt}).
		SetResult(&body).
		Post("/v1/extract")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(strings.ToLower(err.Error()), "timeout") {
			return nil, fmt.Errorf("extract api: %w", model.ErrTimeout)
		}
		return nil, fmt.Errorf("extract api: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("extract api: %w", model.ErrRateLimited)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("extract api: %w", model.ErrInvalidCredentials)
	default:
		return nil, fmt.Errorf("extract api: unexpected status %d", resp.StatusCode())
	}

	if !body.Success || len(body.Data.Ingredients) == 0 {
		return nil, model.ErrExtractionFailed
	}

	return &model.ScrapedProduct{
		Name:        body.Data.Name,
		Brand:       body.Data.Brand,
		Ingredients: body.Data.Ingredients,
		URL:         pageURL,
		ImageURL:    body.Data.ImageURL,
		Confidence:  model.ConfidenceHigh,
	}, nil
}
