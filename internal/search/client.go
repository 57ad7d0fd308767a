// Package search implements the web search stage of the resolution
// pipeline: query variations, prioritized sources, concurrent fan-out and
// result validation.
package search

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

// SearchClient is the web search API collaborator.
type SearchClient interface {
	Search(ctx context.Context, query string, count int) ([]model.SearchResult, error)
}

// serperRequest is the POST body of a Serper-style search API.
type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Client is the Serper-style search API client. Stateless; safe for
// concurrent use.
type Client struct {
	http *resty.Client
}

// NewClient creates a search client against the given base URL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("X-API-KEY", apiKey).
			SetHeader("Content-Type", "application/json"),
	}
}

// Search runs one query and returns the organic results.
func (c *Client) Search(ctx context.Context, query string, count int) ([]model.SearchResult, error) {
	var body serperResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(serperRequest{Q: query, Num: count}).
		SetResult(&body).
		Post("/search")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(strings.ToLower(err.Error()), "timeout") {
			return nil, fmt.Errorf("search: %w", model.ErrTimeout)
		}
		return nil, fmt.Errorf("search: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("search: %w", model.ErrRateLimited)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("search: %w", model.ErrInvalidCredentials)
	default:
		return nil, fmt.Errorf("search: unexpected status %d", resp.StatusCode())
	}

	results := make([]model.SearchResult, 0, len(body.Organic))
	for _, o := range body.Organic {
		results = append(results, model.SearchResult{
			Title:   o.Title,
			Link:    o.Link,
			Snippet: o.Snippet,
		})
	}
	return results, nil
}
