// Package resolver turns a barcode into product data: local cache first,
// then the external product database, trying UPC-A/EAN-13 variants in order.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pawlens/pawlens/internal/model"
)

// ProductCache is the local cache collaborator.
type ProductCache interface {
	Lookup(barcode string) (*model.ProductInfo, error)
	Upsert(product *model.ProductInfo) error
}

// ProductAPI is the external product database collaborator.
type ProductAPI interface {
	FetchProduct(ctx context.Context, barcode string) (*model.ProductInfo, error)
}

// Resolver resolves barcodes. Each call probes variants sequentially;
// independent calls may run concurrently against the shared cache.
type Resolver struct {
	cache ProductCache
	api   ProductAPI
	log   *zap.Logger
}

// New creates a resolver. cache may be nil to disable the fast path.
func New(cache ProductCache, api ProductAPI, log *zap.Logger) *Resolver {
	return &Resolver{cache: cache, api: api, log: log}
}

// Resolve looks up a barcode: every variant against the cache, then every
// variant against the product API. An API hit is upserted into the cache in
// the background; caching failure is non-fatal. Exhaustion of all variants
// on both tiers returns ErrProductNotFound.
func (r *Resolver) Resolve(ctx context.Context, barcode string) (*model.ProductInfo, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("resolve: %w", model.ErrInvalidBarcode)
	}

	variants := barcodeVariants(barcode)

	if r.cache != nil {
		for _, variant := range variants {
			product, err := r.cache.Lookup(variant)
			if err == nil {
				r.log.Debug("cache hit", zap.String("barcode", variant))
				return product, nil
			}
			if !errors.Is(err, model.ErrCacheMiss) {
				r.log.Warn("cache lookup failed", zap.String("barcode", variant), zap.Error(err))
			}
		}
	}

	for _, variant := range variants {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		product, err := r.api.FetchProduct(ctx, variant)
		if err != nil {
			if errors.Is(err, model.ErrInvalidCredentials) {
				// No variant will fare better against a 401/403.
				return nil, err
			}
			r.log.Debug("product api miss", zap.String("barcode", variant), zap.Error(err))
			continue
		}

		if r.cache != nil {
			// Fire and forget; a failed upsert never fails the scan.
			go func(p model.ProductInfo) {
				if err := r.cache.Upsert(&p); err != nil {
					r.log.Warn("cache upsert failed", zap.String("barcode", p.Barcode), zap.Error(err))
				}
			}(*product)
		}
		return product, nil
	}

	return nil, model.ErrProductNotFound
}
