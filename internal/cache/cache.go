// Package cache stores search hits per (source, query) so repeated claims and
// overlapping query variants do not hit the search APIs again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Cache is a byte-oriented TTL cache
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a fixed-length cache key from a namespace and its parts
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "claimcheck:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg: memory only when no directory is
// set, memory in front of disk otherwise. It returns nil when disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
