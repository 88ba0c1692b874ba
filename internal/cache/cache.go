// Package cache stores analysis results and fetched pages with a TTL, in
// Redis when configured and in process memory otherwise.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for ttl. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Key hashes its parts into a stable, fixed-length cache key with the given
// namespace prefix.
func Key(namespace string, parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return namespace + ":" + hex.EncodeToString(h[:])
}

// New returns a RedisCache when redisURL is set and reachable, otherwise a
// MemoryCache.
func New(ctx context.Context, redisURL string) (Cache, error) {
	if redisURL == "" {
		log.Printf("[cache] using in-memory cache")
		return NewMemoryCache(), nil
	}
	rc, err := NewRedisCache(ctx, redisURL)
	if err != nil {
		return nil, err
	}
	log.Printf("[cache] using redis cache")
	return rc, nil
}
