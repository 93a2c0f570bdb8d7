package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"watermap/internal/domain"
)

// CoordStore is the persistent coordinate cache tier backed by the
// coordinates_cache table.
type CoordStore struct {
	db *DB
}

// NewCoordStore wraps a database handle as a coordinate store.
func NewCoordStore(db *DB) *CoordStore {
	return &CoordStore{db: db}
}

// Get fetches the cached record for a location key. A missing row is not an
// error.
func (s *CoordStore) Get(ctx context.Context, key domain.LocationKey) (domain.CoordinateRecord, bool, error) {
	var rec domain.CoordinateRecord
	var source string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT latitude, longitude, source, confidence_score
		FROM coordinates_cache
		WHERE location_key = $1
	`, string(key)).Scan(&rec.Lat, &rec.Lon, &source, &rec.Confidence)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CoordinateRecord{}, false, nil
	}
	if err != nil {
		return domain.CoordinateRecord{}, false, err
	}
	rec.Source = domain.CoordinateSource(source)
	return rec, true, nil
}

// Upsert writes a record for a location key, replacing any existing row.
func (s *CoordStore) Upsert(ctx context.Context, key domain.LocationKey, rec domain.CoordinateRecord) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO coordinates_cache (location_key, latitude, longitude, source, confidence_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (location_key) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			source = EXCLUDED.source,
			confidence_score = EXCLUDED.confidence_score,
			updated_at = now()
	`, string(key), rec.Lat, rec.Lon, string(rec.Source), rec.Confidence)
	return err
}
