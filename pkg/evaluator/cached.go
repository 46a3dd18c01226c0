package evaluator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/mutualist/evoprompt/pkg/cache"
	"github.com/mutualist/evoprompt/pkg/genome"
	"github.com/mutualist/evoprompt/pkg/logging"
)

// Cached wraps an evaluator with a fitness cache keyed by the genome's
// fitness key and the task. Cache failures degrade to a direct evaluation
// rather than failing the scoring call.
type Cached struct {
	inner Evaluator
	store cache.Cache
	ttl   time.Duration
}

// NewCached builds a caching wrapper. A zero TTL defers to the cache's
// default expiration.
func NewCached(inner Evaluator, store cache.Cache, ttl time.Duration) *Cached {
	return &Cached{inner: inner, store: store, ttl: ttl}
}

func (c *Cached) Evaluate(ctx context.Context, g *genome.Genome, task string) (float64, error) {
	logger := logging.GetLogger()
	ctx = logging.WithGenomeID(ctx, g.ID)
	key := cacheKey(g, task)

	if value, found, err := c.store.Get(ctx, key); err != nil {
		logger.Warn(ctx, "fitness cache lookup failed: %v", err)
	} else if found {
		if score, err := strconv.ParseFloat(string(value), 64); err == nil {
			return score, nil
		}
		logger.Warn(ctx, "discarding malformed fitness cache entry for %s", key)
	}

	score, err := c.inner.Evaluate(ctx, g, task)
	if err != nil {
		return 0, err
	}

	encoded := []byte(strconv.FormatFloat(score, 'f', -1, 64))
	if err := c.store.Set(ctx, key, encoded, c.ttl); err != nil {
		logger.Warn(ctx, "fitness cache write failed: %v", err)
	}

	return score, nil
}

// Stats exposes the underlying cache statistics.
func (c *Cached) Stats() cache.Stats {
	return c.store.Stats()
}

// cacheKey combines the genome's fitness key with a task digest so the same
// genes scored against different tasks never collide.
func cacheKey(g *genome.Genome, task string) string {
	digest := sha256.Sum256([]byte(task))
	return fmt.Sprintf("fitness_%s_%s", hex.EncodeToString(digest[:])[:16], g.FitnessKey())
}
