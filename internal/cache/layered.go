package cache

import "time"

// LayeredCache reads through its layers in order and backfills faster
// layers on a hit; writes go to every layer.
type LayeredCache struct {
	layers []Cache
}

// NewLayeredCache composes caches fastest-first.
func NewLayeredCache(layers ...Cache) *LayeredCache {
	return &LayeredCache{layers: layers}
}

// Get checks each layer in order. A hit in a slower layer is promoted into
// the layers before it.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	for i, layer := range c.layers {
		if data, found := layer.Get(key); found {
			for j := 0; j < i; j++ {
				_ = c.layers[j].Set(key, data, 0)
			}
			return data, true
		}
	}
	return nil, false
}

// Set writes to every layer; the first error wins but all layers are attempted.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	var firstErr error
	for _, layer := range c.layers {
		if err := layer.Set(key, value, ttl); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Delete removes the key from every layer.
func (c *LayeredCache) Delete(key string) error {
	var firstErr error
	for _, layer := range c.layers {
		if err := layer.Delete(key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Clear clears every layer.
func (c *LayeredCache) Clear() error {
	var firstErr error
	for _, layer := range c.layers {
		if err := layer.Clear(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Count reports the largest layer's entry count; slower layers hold the
// superset of what the faster ones do.
func (c *LayeredCache) Count() int {
	max := 0
	for _, layer := range c.layers {
		if n := layer.Count(); n > max {
			max = n
		}
	}
	return max
}
