// Command server runs the map view engine: coordinate resolution, marker
// builds, and polygon zone analytics over the SDWIS catalog.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"watermap/internal/adapter/postgres"
	redisadapter "watermap/internal/adapter/redis"
	"watermap/internal/config"
	"watermap/internal/coordcache"
	"watermap/internal/domain"
	"watermap/internal/geocode"
	"watermap/internal/markers"
	"watermap/internal/observability"
	"watermap/internal/resolve"
	"watermap/internal/selection"
	"watermap/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Persistent cache tier (feature-selected via COORD_CACHE_BACKEND).
	var store coordcache.PersistentStore
	switch cfg.CacheBackend {
	case config.CacheBackendPostgres:
		store = postgres.NewCoordStore(db)
	case config.CacheBackendRedis:
		rs, err := redisadapter.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer rs.Close()
		store = rs
	case config.CacheBackendNone:
		logger.Info("persistent cache tier disabled")
	}

	// External geocoder (feature-flagged via GEOCODER_ENABLED / GEOCODER_API_KEY).
	var geocoder domain.Geocoder
	if cfg.GeocoderEnabled {
		geocoder = geocode.NewClient(cfg.GeocoderKey, cfg.GeocoderTimeout, metrics, logger)
		logger.Info("external geocoding enabled", "timeout", cfg.GeocoderTimeout)
	} else {
		logger.Info("external geocoding disabled")
	}

	cache := coordcache.New(cfg.MemoryCacheSize, store, metrics, logger)
	resolver := resolve.New(cache, geocoder, resolve.Options{
		Bounds:   cfg.Bounds,
		Centroid: cfg.Centroid,
	}, metrics, logger)
	builder := markers.New(resolver, clock, cfg.BatchSize, cfg.BatchDelay, metrics, logger)
	selector := selection.NewSelector(
		func(ctx context.Context, loc domain.SystemLocation) (domain.CoordinateRecord, bool) {
			return cache.Get(ctx, loc.Key())
		},
		clock, metrics, logger,
	)
	catalog := postgres.NewCatalog(db)

	srv := server.New(cfg, catalog, resolver, builder, selector, logger)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
