// Package openfoodfacts implements the barcode product database client.
package openfoodfacts

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

// productResponse is the wire shape of a barcode lookup. Status 1 with a
// product object means found; anything else is a miss.
type productResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Product *struct {
		Code           string `json:"code"`
		ProductName    string `json:"product_name"`
		Brands         string `json:"brands"`
		IngredientsTxt string `json:"ingredients_text"`
		ImageURL       string `json:"image_url"`
		ImageFrontURL  string `json:"image_front_url"`
	} `json:"product"`
}

// Client fetches products by barcode. It holds no mutable state and is safe
// for concurrent use.
type Client struct {
	http *resty.Client
}

// New creates a client against the given base URL.
func New(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent).
			SetRetryCount(0),
	}
}

// FetchProduct looks up a single barcode. Misses map to ErrProductNotFound;
// transport and protocol failures map onto the shared error taxonomy so the
// resolver can decide whether to try the next variant.
func (c *Client) FetchProduct(ctx context.Context, barcode string) (*model.ProductInfo, error) {
	var body productResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/api/v0/product/%s.json", barcode))
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
			return nil, fmt.Errorf("product api: %w", model.ErrTimeout)
		case strings.Contains(err.Error(), "unmarshal"), strings.Contains(err.Error(), "invalid character"):
			return nil, fmt.Errorf("product api: %w", model.ErrDecodingFailed)
		default:
			return nil, fmt.Errorf("product api: %w", err)
		}
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, model.ErrProductNotFound
	case resp.StatusCode() == http.StatusTooManyRequests:
		return nil, fmt.Errorf("product api: %w", model.ErrRateLimited)
	case resp.StatusCode() == http.StatusUnauthorized, resp.StatusCode() == http.StatusForbidden:
		return nil, fmt.Errorf("product api: %w", model.ErrInvalidCredentials)
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("product api: unexpected status %d", resp.StatusCode())
	}

	// A 200 without a JSON body leaves the result zero-valued; that is a
	// decoding failure, not a miss.
	if ct := resp.Header().Get("Content-Type"); !strings.Contains(strings.ToLower(ct), "json") {
		return nil, fmt.Errorf("product api: unexpected content type %q: %w", ct, model.ErrDecodingFailed)
	}

	if body.Status != 1 || body.Product == nil {
		return nil, model.ErrProductNotFound
	}

	imageURL := body.Product.ImageURL
	if imageURL == "" {
		imageURL = body.Product.ImageFrontURL
	}

	return &model.ProductInfo{
		Barcode:         barcode,
		Name:            body.Product.ProductName,
		Brand:           body.Product.Brands,
		IngredientsText: body.Product.IngredientsTxt,
		ImageURL:        imageURL,
		Source:          "openfoodfacts",
		FetchedAt:       time.Now().UTC(),
	}, nil
}

func isTimeout(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "timeout") ||
		strings.Contains(strings.ToLower(err.Error()), "deadline exceeded")
}
