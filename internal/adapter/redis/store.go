// Package redis adapts the coordinate cache's persistent tier to a Redis
// instance. Records are stored as JSON under a "coord:" key prefix with no
// expiry; coordinates for a location do not go stale.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"watermap/internal/domain"
)

const keyPrefix = "coord:"

// Store is a Redis-backed coordinate store.
type Store struct {
	client *redis.Client
}

// Open connects a client and verifies connectivity.
func Open(ctx context.Context, addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &Store{client: client}, nil
}

// NewStore wraps an existing client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Close() error { return s.client.Close() }

// Get fetches the cached record for a location key. A missing key is not an
// error.
func (s *Store) Get(ctx context.Context, key domain.LocationKey) (domain.CoordinateRecord, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CoordinateRecord{}, false, nil
	}
	if err != nil {
		return domain.CoordinateRecord{}, false, err
	}
	var rec domain.CoordinateRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.CoordinateRecord{}, false, fmt.Errorf("decode cached coordinate: %w", err)
	}
	return rec, true, nil
}

// Upsert writes a record for a location key, replacing any existing value.
func (s *Store) Upsert(ctx context.Context, key domain.LocationKey, rec domain.CoordinateRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+string(key), raw, 0).Err()
}
