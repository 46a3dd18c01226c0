package cache

import (
	"context"
	"database/sql"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mutualist/evoprompt/pkg/errors"
)

// SQLiteCache implements a persistent fitness cache backed by SQLite, so
// judged scores survive across runs.
type SQLiteCache struct {
	config Config
	db     *sql.DB

	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS fitness_cache (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	expires_at INTEGER,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fitness_cache_expires ON fitness_cache(expires_at);
`

// NewSQLiteCache creates a SQLite-backed cache at the configured path.
func NewSQLiteCache(config Config) (*SQLiteCache, error) {
	if config.Path == "" {
		return nil, errors.New(errors.InvalidConfig, "sqlite cache requires a database path")
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CacheFailure, "failed to open cache database")
	}

	if config.EnableWAL {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, errors.Wrap(err, errors.CacheFailure, "failed to enable WAL mode")
		}
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.CacheFailure, "failed to create cache schema")
	}

	return &SQLiteCache{config: config, db: db}, nil
}

func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var expiresAt sql.NullInt64

	row := c.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM fitness_cache WHERE key = ?", key)
	if err := row.Scan(&value, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			c.misses.Add(1)
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, errors.CacheFailure, "cache lookup failed")
	}

	if expiresAt.Valid && time.Now().UnixNano() > expiresAt.Int64 {
		_, _ = c.db.ExecContext(ctx, "DELETE FROM fitness_cache WHERE key = ?", key)
		c.misses.Add(1)
		return nil, false, nil
	}

	c.hits.Add(1)
	return value, true, nil
}

func (c *SQLiteCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: time.Now().Add(ttl).UnixNano(), Valid: true}
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO fitness_cache (key, value, expires_at, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt, time.Now().UnixNano())
	if err != nil {
		return errors.Wrap(err, errors.CacheFailure, "cache write failed")
	}

	c.sets.Add(1)
	return nil
}

func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	result, err := c.db.ExecContext(ctx, "DELETE FROM fitness_cache WHERE key = ?", key)
	if err != nil {
		return errors.Wrap(err, errors.CacheFailure, "cache delete failed")
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		c.deletes.Add(affected)
	}
	return nil
}

func (c *SQLiteCache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM fitness_cache"); err != nil {
		return errors.Wrap(err, errors.CacheFailure, "cache clear failed")
	}
	return nil
}

func (c *SQLiteCache) Stats() Stats {
	var entries int64
	_ = c.db.QueryRow("SELECT COUNT(*) FROM fitness_cache").Scan(&entries)

	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Sets:    c.sets.Load(),
		Deletes: c.deletes.Load(),
		Entries: entries,
	}
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
