// Package cache provides the fitness cache used by evaluators to avoid
// re-scoring genomes whose fitness key has already been judged.
package cache

import (
	"context"
	"time"
)

// Cache defines the interface for caching fitness scores.
type Cache interface {
	// Get retrieves a cached value by key.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given key and TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a cached value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error

	// Stats returns cache statistics.
	Stats() Stats

	// Close releases any resources held by the cache.
	Close() error
}

// Stats contains cache performance statistics.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Sets    int64 `json:"sets"`
	Deletes int64 `json:"deletes"`
	Entries int64 `json:"entries"`
}

// Config holds cache configuration.
type Config struct {
	// Type of cache: "memory" or "sqlite"
	Type string `json:"type" yaml:"type"`

	// Maximum number of entries held by the memory backend (0 = default)
	MaxEntries int `json:"max_entries" yaml:"max_entries"`

	// Default TTL for cache entries (0 = no expiration)
	DefaultTTL time.Duration `json:"default_ttl" yaml:"default_ttl"`

	// Path to the SQLite database file (sqlite backend only)
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Enable WAL mode for better concurrent read performance (sqlite only)
	EnableWAL bool `json:"enable_wal,omitempty" yaml:"enable_wal,omitempty"`
}

// New creates a cache instance based on the configuration.
func New(config Config) (Cache, error) {
	switch config.Type {
	case "sqlite":
		return NewSQLiteCache(config)
	case "memory":
		return NewMemoryCache(config)
	default:
		// Default to memory cache
		return NewMemoryCache(config)
	}
}
