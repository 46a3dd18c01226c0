package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns one constructor per cache implementation so the shared
// behavior is tested uniformly.
func backends(t *testing.T) map[string]func() Cache {
	t.Helper()
	return map[string]func() Cache{
		"memory": func() Cache {
			c, err := NewMemoryCache(Config{MaxEntries: 16})
			require.NoError(t, err)
			return c
		},
		"sqlite": func() Cache {
			c, err := NewSQLiteCache(Config{Path: filepath.Join(t.TempDir(), "cache.db")})
			require.NoError(t, err)
			return c
		},
	}
}

func TestCacheSetGet(t *testing.T) {
	for name, newCache := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := newCache()
			defer c.Close()
			ctx := context.Background()

			_, found, err := c.Get(ctx, "0-1-2_0.50")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, c.Set(ctx, "0-1-2_0.50", []byte("7.5"), 0))

			value, found, err := c.Get(ctx, "0-1-2_0.50")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []byte("7.5"), value)

			stats := c.Stats()
			assert.Equal(t, int64(1), stats.Hits)
			assert.Equal(t, int64(1), stats.Misses)
			assert.Equal(t, int64(1), stats.Sets)
			assert.Equal(t, int64(1), stats.Entries)
		})
	}
}

func TestCacheOverwrite(t *testing.T) {
	for name, newCache := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := newCache()
			defer c.Close()
			ctx := context.Background()

			require.NoError(t, c.Set(ctx, "k", []byte("1.0"), 0))
			require.NoError(t, c.Set(ctx, "k", []byte("2.0"), 0))

			value, found, err := c.Get(ctx, "k")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, []byte("2.0"), value)
		})
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	for name, newCache := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := newCache()
			defer c.Close()
			ctx := context.Background()

			require.NoError(t, c.Set(ctx, "k", []byte("9.0"), time.Millisecond))
			time.Sleep(5 * time.Millisecond)

			_, found, err := c.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestCacheDelete(t *testing.T) {
	for name, newCache := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := newCache()
			defer c.Close()
			ctx := context.Background()

			require.NoError(t, c.Set(ctx, "k", []byte("3.0"), 0))
			require.NoError(t, c.Delete(ctx, "k"))

			_, found, err := c.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, found)
			assert.Equal(t, int64(1), c.Stats().Deletes)
		})
	}
}

func TestCacheClear(t *testing.T) {
	for name, newCache := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := newCache()
			defer c.Close()
			ctx := context.Background()

			require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
			require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
			require.NoError(t, c.Clear(ctx))

			assert.Equal(t, int64(0), c.Stats().Entries)
		})
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	c, err := NewMemoryCache(Config{MaxEntries: 2})
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))

	_, found, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found, "oldest entry evicted")

	_, found, err = c.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestSQLiteCachePersistsAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	c, err := NewSQLiteCache(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "k", []byte("6.5"), 0))
	require.NoError(t, c.Close())

	c, err = NewSQLiteCache(Config{Path: path})
	require.NoError(t, err)
	defer c.Close()

	value, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("6.5"), value)
}

func TestSQLiteCacheRequiresPath(t *testing.T) {
	_, err := NewSQLiteCache(Config{})
	require.Error(t, err)
}

func TestNewFactory(t *testing.T) {
	t.Run("defaults to memory", func(t *testing.T) {
		c, err := New(Config{})
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &MemoryCache{}, c)
	})

	t.Run("sqlite", func(t *testing.T) {
		c, err := New(Config{Type: "sqlite", Path: filepath.Join(t.TempDir(), "c.db")})
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &SQLiteCache{}, c)
	})
}
