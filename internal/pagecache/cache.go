// Package pagecache keeps rendered pages for a short time.
//
// An entry lives until its expiry passes or the cache is cleared; writes to
// the underlying data never invalidate it, so readers may see a page up to one
// TTL old. Concurrent misses each render and store; the last write wins.
package pagecache

import (
	"context"
	"time"

	"chronicle/internal/config"
	"chronicle/internal/monitoring"

	"go.uber.org/zap"
)

// IndexPageKey names the cached first page of the global feed.
const IndexPageKey = "index_page"

// DefaultTTL is how long a rendered page stays valid.
const DefaultTTL = 20 * time.Second

// Entry is a rendered page and the instant it stops being served.
type Entry struct {
	Body      []byte    `json:"body"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists entries. Get reports ok=false for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
	Clear(ctx context.Context) error
}

type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func New(store Store, ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{store: store, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Fetch returns the stored page for key while it is unexpired, otherwise it
// calls render and stores the result. Nothing is stored when render fails.
func (c *Cache) Fetch(ctx context.Context, key string, render func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		config.Logger.Warn("page cache read failed, rendering", zap.String("key", key), zap.Error(err))
		ok = false
	}
	now := c.now()
	if ok && now.Before(entry.ExpiresAt) {
		monitoring.PageCacheEvents.WithLabelValues("hit").Inc()
		return entry.Body, nil
	}
	monitoring.PageCacheEvents.WithLabelValues("miss").Inc()

	body, err := render(ctx)
	if err != nil {
		return nil, err
	}

	fresh := Entry{Body: body, ExpiresAt: now.Add(c.ttl)}
	if err := c.store.Set(ctx, key, fresh, c.ttl); err != nil {
		config.Logger.Warn("page cache write failed", zap.String("key", key), zap.Error(err))
		return body, nil
	}
	monitoring.PageCacheEvents.WithLabelValues("store").Inc()
	return body, nil
}

// Clear drops every entry at once.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	monitoring.PageCacheEvents.WithLabelValues("clear").Inc()
	config.Logger.Info("🧹 Page cache cleared")
	return nil
}
