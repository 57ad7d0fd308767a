package model

import "errors"

var (
	// ErrProductNotFound is returned when no source yields product data for a barcode.
	ErrProductNotFound = errors.New("product not found")

	// ErrNoResults is returned when web search produced no usable results.
	ErrNoResults = errors.New("no search results found")

	// ErrAllSourcesExhausted is returned when every source and query variant failed.
	ErrAllSourcesExhausted = errors.New("all sources exhausted")

	// ErrExtractionFailed is returned when a page was fetched but no valid
	// ingredient text could be extracted from it.
	ErrExtractionFailed = errors.New("ingredient extraction failed")

	// ErrRateLimited is returned on HTTP 429 from an external API.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidCredentials is returned on HTTP 401/403; non-retryable for that source.
	ErrInvalidCredentials = errors.New("invalid API credentials")

	// ErrTimeout is returned when an external call exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrDecodingFailed is returned when a response body could not be parsed.
	ErrDecodingFailed = errors.New("response decoding failed")

	// ErrCacheMiss is returned when a barcode is not present in the local cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidBarcode is returned for empty or malformed barcode input.
	ErrInvalidBarcode = errors.New("invalid barcode")
)
