package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/pawlens/pawlens/internal/model"
)

func TestProductStore_LookupMiss(t *testing.T) {
	store := NewProductStore(NewMemoryCache(time.Minute, time.Minute), time.Minute)

	_, err := store.Lookup("0123456789012")
	if !errors.Is(err, model.ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestProductStore_UpsertAndLookup(t *testing.T) {
	store := NewProductStore(NewMemoryCache(time.Minute, time.Minute), time.Minute)

	product := &model.ProductInfo{
		Barcode: "0123456789012",
		Name:    "Chicken Dinner",
		Brand:   "Acme Pet",
		Source:  "openfoodfacts",
	}
	if err := store.Upsert(product); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Lookup("0123456789012")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.Name != "Chicken Dinner" || got.Brand != "Acme Pet" {
		t.Errorf("Expected cached product back, got %+v", got)
	}
	if store.Count() != 1 {
		t.Errorf("Expected count 1, got %d", store.Count())
	}
}

func TestProductStore_UpsertIdempotent(t *testing.T) {
	store := NewProductStore(NewMemoryCache(time.Minute, time.Minute), time.Minute)

	first := &model.ProductInfo{Barcode: "0123456789012", Name: "First"}
	second := &model.ProductInfo{Barcode: "0123456789012", Name: "Second"}
	if err := store.Upsert(first); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Upsert(second); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// Last write wins, no duplicate entries.
	got, err := store.Lookup("0123456789012")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.Name != "Second" {
		t.Errorf("Expected last write to win, got %q", got.Name)
	}
	if store.Count() != 1 {
		t.Errorf("Expected count 1 after re-upsert, got %d", store.Count())
	}
}

func TestProductStore_UpsertInvalid(t *testing.T) {
	store := NewProductStore(NewMemoryCache(time.Minute, time.Minute), time.Minute)

	if err := store.Upsert(nil); !errors.Is(err, model.ErrInvalidBarcode) {
		t.Errorf("Expected ErrInvalidBarcode for nil product, got %v", err)
	}
	if err := store.Upsert(&model.ProductInfo{Name: "No Barcode"}); !errors.Is(err, model.ErrInvalidBarcode) {
		t.Errorf("Expected ErrInvalidBarcode for empty barcode, got %v", err)
	}
}

func TestProductStore_CorruptEntryBehavesAsMiss(t *testing.T) {
	backend := NewMemoryCache(time.Minute, time.Minute)
	store := NewProductStore(backend, time.Minute)

	if err := backend.Set(Key("0123456789012"), []byte("{not json"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	_, err := store.Lookup("0123456789012")
	if !errors.Is(err, model.ErrCacheMiss) {
		t.Fatalf("Expected ErrCacheMiss for corrupt entry, got %v", err)
	}
	// The corrupt entry must have been dropped.
	if backend.Count() != 0 {
		t.Errorf("Expected corrupt entry to be deleted, count is %d", backend.Count())
	}
}

func TestKey_DeterministicAndNamespaced(t *testing.T) {
	a := Key("0123456789012")
	b := Key("0123456789012")
	c := Key("9999999999999")

	if a != b {
		t.Error("Expected identical keys for identical barcodes")
	}
	if a == c {
		t.Error("Expected distinct keys for distinct barcodes")
	}
	if len(a) <= len("pawlens:v1:") {
		t.Errorf("Expected namespaced hashed key, got %q", a)
	}
}
