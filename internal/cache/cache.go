// Package cache stores fetched source payloads so repeated runs within a
// short window do not re-hit third-party APIs and scraped pages.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage contract shared by the memory, disk, and layered
// implementations.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a request URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "catalyst:v1:" + hex.EncodeToString(sum[:])
}
