// Package coordcache provides the two-tier coordinate cache: a session-scoped
// in-memory LRU backed by an optional persistent store. The cache is a
// best-effort optimization, not a correctness-critical store: persistent-tier
// failures degrade to memory-only operation and never surface to callers.
package coordcache

import (
	"context"
	"log/slog"

	"watermap/internal/domain"
	"watermap/internal/observability"
)

// PersistentStore is the cross-session cache tier, keyed by the normalized
// location key.
type PersistentStore interface {
	Get(ctx context.Context, key domain.LocationKey) (domain.CoordinateRecord, bool, error)
	Upsert(ctx context.Context, key domain.LocationKey, rec domain.CoordinateRecord) error
}

// Cache layers an in-memory LRU over a persistent store. Construct one per
// view session and pass it by reference; there is no package-level state.
type Cache struct {
	mem     *lruTier
	store   PersistentStore // nil disables the persistent tier
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New creates a Cache with the given memory capacity and persistent tier.
// Pass a nil store for memory-only operation.
func New(maxEntries int, store PersistentStore, metrics *observability.Metrics, logger *slog.Logger) *Cache {
	return &Cache{
		mem:     newLRUTier(maxEntries),
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Get checks the memory tier first, then the persistent tier. Persistent hits
// backfill the memory tier so later lookups stay local.
func (c *Cache) Get(ctx context.Context, key domain.LocationKey) (domain.CoordinateRecord, bool) {
	if rec, ok := c.mem.get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("memory", "hit").Inc()
		return rec, true
	}
	c.metrics.CacheLookups.WithLabelValues("memory", "miss").Inc()

	if c.store == nil {
		return domain.CoordinateRecord{}, false
	}

	rec, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.metrics.CacheLookups.WithLabelValues("persistent", "miss").Inc()
		c.logger.Warn("persistent cache read failed", "key", key, "error", err)
		return domain.CoordinateRecord{}, false
	}
	if !ok {
		c.metrics.CacheLookups.WithLabelValues("persistent", "miss").Inc()
		return domain.CoordinateRecord{}, false
	}

	c.metrics.CacheLookups.WithLabelValues("persistent", "hit").Inc()
	c.mem.put(key, rec)
	return rec, true
}

// Put writes the record to both tiers unless doing so would downgrade a
// higher-confidence record already stored for the key, in which case the
// write is dropped silently. Persistent-tier failures are logged and
// swallowed.
func (c *Cache) Put(ctx context.Context, key domain.LocationKey, rec domain.CoordinateRecord) {
	if existing, ok := c.Get(ctx, key); ok && rec.Confidence < existing.Confidence {
		c.metrics.CacheWrites.WithLabelValues("memory", "dropped").Inc()
		return
	}

	c.mem.put(key, rec)
	c.metrics.CacheWrites.WithLabelValues("memory", "stored").Inc()

	if c.store == nil {
		return
	}
	if err := c.store.Upsert(ctx, key, rec); err != nil {
		c.metrics.CacheWrites.WithLabelValues("persistent", "error").Inc()
		c.logger.Warn("persistent cache write failed", "key", key, "error", err)
		return
	}
	c.metrics.CacheWrites.WithLabelValues("persistent", "stored").Inc()
}
