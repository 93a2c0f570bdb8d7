// Command bulkgeocode pre-warms the persistent coordinate cache by resolving
// every system in the catalog, so interactive map loads start from cache hits
// instead of live geocoding. It reports per-source counts when done.
//
// Usage:
//
//	go run ./cmd/bulkgeocode -limit 5000 -system-type CWS
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"watermap/internal/adapter/postgres"
	"watermap/internal/config"
	"watermap/internal/coordcache"
	"watermap/internal/domain"
	"watermap/internal/geocode"
	"watermap/internal/observability"
	"watermap/internal/resolve"
)

func main() {
	limit := flag.Int("limit", 0, "stop after resolving this many systems (0 = all)")
	systemType := flag.String("system-type", "", "only resolve systems of this type (CWS, TNCWS, NTNCWS)")
	flag.Parse()

	if err := run(*limit, *systemType); err != nil {
		fmt.Fprintln(os.Stderr, "bulkgeocode:", err)
		os.Exit(1)
	}
}

func run(limit int, systemType string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		return err
	}

	var geocoder domain.Geocoder
	if cfg.GeocoderEnabled {
		geocoder = geocode.NewClient(cfg.GeocoderKey, cfg.GeocoderTimeout, metrics, logger)
	} else {
		logger.Warn("external geocoding disabled, cache will hold fallback coordinates only")
	}

	cache := coordcache.New(cfg.MemoryCacheSize, postgres.NewCoordStore(db), metrics, logger)
	resolver := resolve.New(cache, geocoder, resolve.Options{
		Bounds:   cfg.Bounds,
		Centroid: cfg.Centroid,
	}, metrics, logger)

	catalog := postgres.NewCatalog(db)
	filters := domain.CatalogFilters{SystemType: systemType}
	if err := filters.Validate(); err != nil {
		return err
	}

	counts := map[domain.CoordinateSource]int{}
	resolved := 0
	for offset := 0; ; offset += cfg.BatchSize {
		page, err := catalog.ListSystems(ctx, filters, domain.Page{Limit: cfg.BatchSize, Offset: offset})
		if err != nil {
			return fmt.Errorf("list systems: %w", err)
		}
		if len(page.Systems) == 0 {
			break
		}
		for _, sys := range page.Systems {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := resolver.Resolve(ctx, sys.Location())
			counts[rec.Source]++
			resolved++
			if limit > 0 && resolved >= limit {
				break
			}
		}
		if limit > 0 && resolved >= limit {
			break
		}
		if offset+cfg.BatchSize >= page.Total {
			break
		}
		// Same inter-batch pacing as interactive builds.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(cfg.BatchDelay):
		}
	}

	fmt.Printf("resolved %d systems\n", resolved)
	fmt.Printf("  cache:    %d\n", counts[domain.SourceCache])
	fmt.Printf("  external: %d\n", counts[domain.SourceExternal])
	fmt.Printf("  fallback: %d\n", counts[domain.SourceFallback])
	return nil
}
