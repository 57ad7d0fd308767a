package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pawlens/pawlens/internal/model"
)

// ProductStore is the typed product cache the resolver consumes: lookup and
// upsert by barcode, idempotent puts, last-write-wins. Reads are concurrent;
// writes are serialized through a single mutex.
type ProductStore struct {
	backend Cache
	ttl     time.Duration
	writeMu sync.Mutex
}

// NewProductStore wraps a byte-level cache with product-typed access.
func NewProductStore(backend Cache, ttl time.Duration) *ProductStore {
	return &ProductStore{backend: backend, ttl: ttl}
}

// Lookup returns the cached product for a barcode, or ErrCacheMiss.
func (s *ProductStore) Lookup(barcode string) (*model.ProductInfo, error) {
	data, found := s.backend.Get(Key(barcode))
	if !found {
		return nil, model.ErrCacheMiss
	}

	var product model.ProductInfo
	if err := json.Unmarshal(data, &product); err != nil {
		// A corrupt entry behaves like a miss; drop it so the next
		// upsert rewrites it cleanly.
		_ = s.backend.Delete(Key(barcode))
		return nil, model.ErrCacheMiss
	}
	return &product, nil
}

// Upsert stores a product keyed by its barcode.
func (s *ProductStore) Upsert(product *model.ProductInfo) error {
	if product == nil || product.Barcode == "" {
		return fmt.Errorf("upsert: %w", model.ErrInvalidBarcode)
	}

	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.backend.Set(Key(product.Barcode), data, s.ttl)
}

// Count returns the number of cached products.
func (s *ProductStore) Count() int {
	return s.backend.Count()
}
