// Package cache provides the local product cache: a byte-level layered
// store (memory, disk, optional Redis) and a typed product store on top.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the byte-level store interface every layer implements.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
	Count() int
}

// Key generates a namespaced cache key from a barcode.
func Key(barcode string) string {
	hash := sha256.Sum256([]byte(barcode))
	return "pawlens:v1:" + hex.EncodeToString(hash[:])
}
