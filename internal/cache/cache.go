package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage interface for fetched page snapshots. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a URL. The version segment guards
// against stale entries when the snapshot encoding changes.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "rankscope:v1:" + hex.EncodeToString(hash[:])
}
