// Package resolve orchestrates coordinate resolution: cache lookup, external
// geocoding with query-string escalation, and deterministic fallback. Resolve
// is total — it always returns a usable coordinate and never errors outward.
package resolve

import (
	"context"
	"errors"
	"log/slog"

	"watermap/internal/coordcache"
	"watermap/internal/domain"
	"watermap/internal/observability"
)

// Options tunes a Resolver. Zero values take production defaults.
type Options struct {
	Bounds    domain.BoundingBox
	Centroid  domain.Coordinate
	Qualifier string
	Scoring   ScoreConfig
}

// Resolver converts locality descriptors into coordinates.
type Resolver struct {
	cache     *coordcache.Cache
	geocoder  domain.Geocoder // nil disables external lookups
	bounds    domain.BoundingBox
	centroid  domain.Coordinate
	qualifier string
	scoring   ScoreConfig
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New creates a Resolver. Pass a nil geocoder to resolve from cache and
// fallback only.
func New(cache *coordcache.Cache, geocoder domain.Geocoder, opts Options, metrics *observability.Metrics, logger *slog.Logger) *Resolver {
	if opts.Bounds == (domain.BoundingBox{}) {
		opts.Bounds = domain.GeorgiaBounds
	}
	if opts.Centroid == (domain.Coordinate{}) {
		opts.Centroid = domain.GeorgiaCentroid
	}
	if opts.Qualifier == "" {
		opts.Qualifier = "Georgia, USA"
	}
	if opts.Scoring == (ScoreConfig{}) {
		opts.Scoring = DefaultScoreConfig()
	}
	return &Resolver{
		cache:     cache,
		geocoder:  geocoder,
		bounds:    opts.Bounds,
		centroid:  opts.Centroid,
		qualifier: opts.Qualifier,
		scoring:   opts.Scoring,
		metrics:   metrics,
		logger:    logger,
	}
}

// Resolve returns a coordinate record for the location. Cache hits return
// immediately with source "cache". Otherwise candidate queries run from most
// to least specific; the first geocoder result inside the bounding box wins.
// When every candidate misses, a deterministic fallback anchored at the
// regional centroid is synthesized. The accepted record is written back to
// both cache tiers before returning.
func (r *Resolver) Resolve(ctx context.Context, loc domain.SystemLocation) domain.CoordinateRecord {
	key := loc.Key()

	if rec, ok := r.cache.Get(ctx, key); ok {
		rec.Source = domain.SourceCache
		r.metrics.ResolveResults.WithLabelValues(string(domain.SourceCache)).Inc()
		return rec
	}

	if rec, ok := r.resolveExternal(ctx, loc); ok {
		r.cache.Put(ctx, key, rec)
		r.metrics.ResolveResults.WithLabelValues(string(domain.SourceExternal)).Inc()
		return rec
	}

	rec := domain.FallbackCoordinate(loc.SystemID, r.centroid)
	r.cache.Put(ctx, key, rec)
	r.metrics.ResolveResults.WithLabelValues(string(domain.SourceFallback)).Inc()
	r.logger.Debug("coordinate fallback", "system_id", loc.SystemID, "key", key)
	return rec
}

// resolveExternal walks the candidate queries. Transport failures and empty
// results count as a miss for that candidate, never as resolver failure.
func (r *Resolver) resolveExternal(ctx context.Context, loc domain.SystemLocation) (domain.CoordinateRecord, bool) {
	if r.geocoder == nil {
		return domain.CoordinateRecord{}, false
	}

	for _, query := range buildQueries(loc, r.qualifier) {
		result, err := r.geocoder.Geocode(ctx, query)
		if err != nil {
			outcome := "error"
			if errors.Is(err, domain.ErrNoResult) {
				outcome = "empty"
			} else {
				r.logger.Warn("geocode candidate failed", "query", query, "error", err)
			}
			r.metrics.GeocodeRequests.WithLabelValues(outcome).Inc()
			continue
		}

		if !r.bounds.Contains(result.Coordinate) {
			r.metrics.GeocodeRequests.WithLabelValues("rejected").Inc()
			r.logger.Debug("geocode result outside bounds",
				"query", query, "lat", result.Lat, "lon", result.Lon)
			continue
		}

		r.metrics.GeocodeRequests.WithLabelValues("accepted").Inc()
		return domain.CoordinateRecord{
			Coordinate: result.Coordinate,
			Source:     domain.SourceExternal,
			Confidence: r.scoring.score(result),
		}, true
	}
	return domain.CoordinateRecord{}, false
}
