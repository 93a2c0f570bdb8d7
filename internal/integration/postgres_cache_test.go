//go:build integration

package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"watermap/internal/adapter/postgres"
	"watermap/internal/domain"
)

// startPostgres runs a throwaway Postgres container, applies the embedded
// migrations, and returns a connected pool.
func startPostgres(ctx context.Context, t *testing.T) *postgres.DB {
	t.Helper()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("watermap"),
		tcpostgres.WithUsername("watermap"),
		tcpostgres.WithPassword("watermap"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, postgres.Migrate(ctx, url), "apply migrations")

	db, err := postgres.Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

// TestCoordStoreRoundTrip verifies the persistent cache tier: upsert, read
// back, overwrite, and the not-found case.
func TestCoordStoreRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	db := startPostgres(ctx, t)
	store := postgres.NewCoordStore(db)

	key := domain.NewLocationKey("Fulton", "Atlanta", "Acme Water")

	_, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	rec := domain.CoordinateRecord{
		Coordinate: domain.Coordinate{Lat: 33.749, Lon: -84.388},
		Source:     domain.SourceExternal,
		Confidence: 0.9,
	}
	require.NoError(t, store.Upsert(ctx, key, rec))

	got, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rec, got)

	// Upsert replaces in place rather than inserting a second row.
	rec.Confidence = 1.0
	require.NoError(t, store.Upsert(ctx, key, rec))
	got, found, err = store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1.0, got.Confidence)
}

// TestCatalogListSystems verifies filter clauses and pagination against real
// SQL, not just the clause builder.
func TestCatalogListSystems(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	db := startPostgres(ctx, t)
	catalog := postgres.NewCatalog(db)

	seed := []struct {
		pwsid, name, systemType, county string
		population                      int
	}{
		{"GA0670000", "Acme Water", "CWS", "Fulton", 40000},
		{"GA0670001", "Fulton Wells", "TNCWS", "Fulton", 300},
		{"GA0890000", "Decatur Municipal", "CWS", "DeKalb", 25000},
	}
	for _, s := range seed {
		_, err := db.Pool.Exec(ctx, `
			INSERT INTO water_systems (pwsid, pws_name, pws_type_code, population_served_count, county_served, state_code)
			VALUES ($1, $2, $3, $4, $5, 'GA')
		`, s.pwsid, s.name, s.systemType, s.population, s.county)
		require.NoError(t, err)
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO violations (pwsid, violation_code, violation_category_code, non_compl_per_begin_date, violation_status, is_health_based_ind)
		VALUES ('GA0670000', '01', 'MCL', '2024-02-01', 'Unaddressed', TRUE)
	`)
	require.NoError(t, err)

	all, err := catalog.ListSystems(ctx, domain.CatalogFilters{}, domain.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Len(t, all.Systems, 3)

	cws, err := catalog.ListSystems(ctx, domain.CatalogFilters{SystemType: "CWS"}, domain.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, cws.Total)

	// Pagination reports the unpaginated total.
	page, err := catalog.ListSystems(ctx, domain.CatalogFilters{}, domain.Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Systems, 2)

	violations, err := catalog.ListViolations(ctx, []string{"GA0670000"}, domain.CatalogFilters{})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "MCL", violations[0].Category)
	assert.True(t, violations[0].IsHealthBased)
	assert.True(t, violations[0].Active())
}
