package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestLayeredCache_ReadThroughPromotion(t *testing.T) {
	fast := NewMemoryCache(time.Minute, time.Minute)
	slow := NewMemoryCache(time.Minute, time.Minute)
	layered := NewLayeredCache(fast, slow)

	// Seed only the slow layer, as if the fast layer had evicted.
	if err := slow.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, found := layered.Get("k")
	if !found || !bytes.Equal(data, []byte("v")) {
		t.Fatalf("Expected hit from slow layer, got found=%v data=%q", found, data)
	}

	// The hit must have been promoted into the fast layer.
	if _, found := fast.Get("k"); !found {
		t.Error("Expected slow-layer hit to be promoted to the fast layer")
	}
}

func TestLayeredCache_SetWritesAllLayers(t *testing.T) {
	fast := NewMemoryCache(time.Minute, time.Minute)
	slow := NewMemoryCache(time.Minute, time.Minute)
	layered := NewLayeredCache(fast, slow)

	if err := layered.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	for name, layer := range map[string]*MemoryCache{"fast": fast, "slow": slow} {
		if _, found := layer.Get("k"); !found {
			t.Errorf("Expected %s layer to hold the entry", name)
		}
	}
}

func TestLayeredCache_DeleteAllLayers(t *testing.T) {
	fast := NewMemoryCache(time.Minute, time.Minute)
	slow := NewMemoryCache(time.Minute, time.Minute)
	layered := NewLayeredCache(fast, slow)

	if err := layered.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := layered.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := layered.Get("k"); found {
		t.Error("Expected entry gone from every layer")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data, found := c.Get("k")
	if !found || !bytes.Equal(data, []byte("v")) {
		t.Fatalf("Expected round trip, got found=%v data=%q", found, data)
	}
	if c.Count() != 1 {
		t.Errorf("Expected 1 cache file, got %d", c.Count())
	}

	// An already-expired entry reads as a miss and is removed.
	if err := c.Set("expired", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get("expired"); found {
		t.Error("Expected expired entry to miss")
	}
	if c.Count() != 1 {
		t.Errorf("Expected expired file removed, count is %d", c.Count())
	}
}
