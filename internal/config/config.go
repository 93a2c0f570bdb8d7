package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"watermap/internal/domain"
)

// Cache backend selectors for the persistent coordinate cache tier.
const (
	CacheBackendPostgres = "postgres"
	CacheBackendRedis    = "redis"
	CacheBackendNone     = "none"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Catalog store and persistent cache tier.
	DatabaseURL   string
	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// External geocoder.
	GeocoderKey     string
	GeocoderEnabled bool
	GeocoderTimeout time.Duration

	// Marker build throttling.
	BatchSize  int
	BatchDelay time.Duration

	// In-memory cache tier.
	MemoryCacheSize int

	// Resolution tuning. The bounding box and confidence increments are
	// empirically tuned values, kept configurable rather than hard-coded.
	Bounds   domain.BoundingBox
	Centroid domain.Coordinate
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	geocoderTimeout, err := parseDuration("GEOCODER_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	batchDelay, err := parseDuration("BATCH_DELAY", 100*time.Millisecond)
	if err != nil {
		return nil, err
	}

	geocoderKey := os.Getenv("GEOCODER_API_KEY")
	geocoderEnabled := geocoderKey != ""
	if v := os.Getenv("GEOCODER_ENABLED"); v != "" {
		geocoderEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CORSOrigins:     splitAndTrim(envOrDefault("CORS_ORIGINS", "*")),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		CacheBackend:  envOrDefault("COORD_CACHE_BACKEND", CacheBackendPostgres),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		GeocoderKey:     geocoderKey,
		GeocoderEnabled: geocoderEnabled,
		GeocoderTimeout: geocoderTimeout,

		BatchSize:  envInt("BATCH_SIZE", 10),
		BatchDelay: batchDelay,

		MemoryCacheSize: envInt("COORD_CACHE_SIZE", 1000),

		Bounds: domain.BoundingBox{
			North: envFloat("BOUNDS_NORTH", domain.GeorgiaBounds.North),
			South: envFloat("BOUNDS_SOUTH", domain.GeorgiaBounds.South),
			East:  envFloat("BOUNDS_EAST", domain.GeorgiaBounds.East),
			West:  envFloat("BOUNDS_WEST", domain.GeorgiaBounds.West),
		},
		Centroid: domain.Coordinate{
			Lat: envFloat("CENTROID_LAT", domain.GeorgiaCentroid.Lat),
			Lon: envFloat("CENTROID_LON", domain.GeorgiaCentroid.Lon),
		},
	}

	switch cfg.CacheBackend {
	case CacheBackendPostgres, CacheBackendRedis, CacheBackendNone:
	default:
		return nil, fmt.Errorf("invalid COORD_CACHE_BACKEND %q", cfg.CacheBackend)
	}
	if cfg.CacheBackend == CacheBackendPostgres && cfg.DatabaseURL == "" {
		return nil, errors.New("COORD_CACHE_BACKEND is postgres but DATABASE_URL is not set")
	}
	if cfg.CacheBackend == CacheBackendRedis && cfg.RedisAddr == "" {
		return nil, errors.New("COORD_CACHE_BACKEND is redis but REDIS_ADDR is not set")
	}
	if cfg.GeocoderEnabled && cfg.GeocoderKey == "" {
		return nil, errors.New("GEOCODER_ENABLED is true but GEOCODER_API_KEY is not set")
	}
	if cfg.BatchSize <= 0 {
		return nil, errors.New("BATCH_SIZE must be positive")
	}
	if cfg.Bounds.South >= cfg.Bounds.North || cfg.Bounds.West >= cfg.Bounds.East {
		return nil, errors.New("bounding box is degenerate")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
