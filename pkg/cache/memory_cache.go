package cache

import (
	"context"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mutualist/evoprompt/pkg/errors"
)

const defaultMaxEntries = 1024

// MemoryCache implements an in-memory fitness cache with LRU eviction.
type MemoryCache struct {
	config  Config
	entries *lru.Cache[string, memoryEntry]

	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// NewMemoryCache creates an LRU-bounded in-memory cache.
func NewMemoryCache(config Config) (*MemoryCache, error) {
	maxEntries := config.MaxEntries
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}

	entries, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, errors.Wrap(err, errors.CacheFailure, "failed to create LRU store")
	}

	return &MemoryCache{
		config:  config,
		entries: entries,
	}, nil
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := errors.CheckContext(ctx, "cache get"); err != nil {
		return nil, false, err
	}

	entry, ok := c.entries.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false, nil
	}
	if entry.expired() {
		c.entries.Remove(key)
		c.misses.Add(1)
		return nil, false, nil
	}

	c.hits.Add(1)
	value := append([]byte(nil), entry.value...)
	return value, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := errors.CheckContext(ctx, "cache set"); err != nil {
		return err
	}

	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	c.entries.Add(key, memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: expiresAt,
	})
	c.sets.Add(1)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := errors.CheckContext(ctx, "cache delete"); err != nil {
		return err
	}

	if c.entries.Remove(key) {
		c.deletes.Add(1)
	}
	return nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	if err := errors.CheckContext(ctx, "cache clear"); err != nil {
		return err
	}

	c.entries.Purge()
	return nil
}

func (c *MemoryCache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Sets:    c.sets.Load(),
		Deletes: c.deletes.Load(),
		Entries: int64(c.entries.Len()),
	}
}

func (c *MemoryCache) Close() error {
	c.entries.Purge()
	return nil
}
