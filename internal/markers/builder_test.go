package markers

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watermap/internal/coordcache"
	"watermap/internal/domain"
	"watermap/internal/observability"
	"watermap/internal/resolve"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testBuilder resolves via fallback only (nil geocoder), which keeps
// coordinates deterministic without network or mock plumbing.
func testBuilder(clock clockwork.Clock, batchSize int, delay time.Duration) *Builder {
	metrics := observability.NewMetricsForTesting()
	logger := discardLogger()
	cache := coordcache.New(100, nil, metrics, logger)
	resolver := resolve.New(cache, nil, resolve.Options{}, metrics, logger)
	return New(resolver, clock, batchSize, delay, metrics, logger)
}

func testSystems(n int) []domain.WaterSystem {
	systems := make([]domain.WaterSystem, n)
	for i := range systems {
		systems[i] = domain.WaterSystem{
			PWSID:            string(rune('A'+i)) + "0000000",
			Name:             "System " + string(rune('A'+i)),
			City:             "Atlanta",
			County:           "Fulton",
			PopulationServed: (i + 1) * 1000,
		}
	}
	return systems
}

func TestBuild_ClassifiesAndSizes(t *testing.T) {
	b := testBuilder(clockwork.NewRealClock(), 10, 0)

	systems := []domain.WaterSystem{
		{PWSID: "GA001", Name: "Clean", PopulationServed: 40000},
		{PWSID: "GA002", Name: "Troubled", PopulationServed: 900},
		{PWSID: "GA003", Name: "Critical", PopulationServed: 250000},
	}
	violations := []domain.Violation{
		{PWSID: "GA002", Status: "Unaddressed"},
		{PWSID: "GA003", Status: "Addressed", IsHealthBased: true},
		{PWSID: "GA003", Status: "Resolved", IsHealthBased: true},
	}

	result, err := b.Build(context.Background(), systems, violations, domain.DefaultDisplayFilters())
	require.NoError(t, err)
	require.Len(t, result.Markers, 3)

	byID := make(map[string]Marker)
	for _, m := range result.Markers {
		byID[m.SystemID] = m
	}

	assert.Equal(t, domain.ClassCompliant, byID["GA001"].Classification)
	assert.Equal(t, domain.ClassViolation, byID["GA002"].Classification)
	assert.Equal(t, domain.ClassCritical, byID["GA003"].Classification)

	assert.InDelta(t, 20.0, byID["GA001"].Size, 1e-9) // sqrt(400)
	assert.Equal(t, 8.0, byID["GA002"].Size)          // clamped low
	assert.Equal(t, 25.0, byID["GA003"].Size)         // clamped high

	assert.Equal(t, 1, byID["GA003"].ActiveViolations)
	assert.Equal(t, 1, byID["GA003"].HealthBased)
}

func TestBuild_HeatPointsSkipCompliant(t *testing.T) {
	b := testBuilder(clockwork.NewRealClock(), 10, 0)

	systems := []domain.WaterSystem{
		{PWSID: "GA001", Name: "Clean"},
		{PWSID: "GA002", Name: "Critical"},
	}
	violations := []domain.Violation{
		{PWSID: "GA002", Status: "Unaddressed", IsHealthBased: true},
	}

	result, err := b.Build(context.Background(), systems, violations, domain.DefaultDisplayFilters())
	require.NoError(t, err)

	require.Len(t, result.HeatPoints, 1)
	assert.Equal(t, 5.0, result.HeatPoints[0].Weight)
}

func TestBuild_HeatWeightGrading(t *testing.T) {
	tests := []struct {
		name        string
		active      int
		healthBased int
		want        float64
	}{
		{"health based", 1, 1, 5},
		{"many active", 4, 0, 3},
		{"some active", 2, 0, 2},
		{"one active", 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, heatWeight(tt.active, tt.healthBased))
		})
	}
}

func TestBuild_FiltersDropMarkersAndHeat(t *testing.T) {
	b := testBuilder(clockwork.NewRealClock(), 10, 0)

	systems := []domain.WaterSystem{
		{PWSID: "GA001", Name: "Clean"},
		{PWSID: "GA002", Name: "Troubled"},
	}
	violations := []domain.Violation{
		{PWSID: "GA002", Status: "Unaddressed"},
	}
	filters := domain.DisplayFilters{ShowCompliant: true, ShowHeatmap: true}

	result, err := b.Build(context.Background(), systems, violations, filters)
	require.NoError(t, err)

	require.Len(t, result.Markers, 1)
	assert.Equal(t, "GA001", result.Markers[0].SystemID)
	assert.Empty(t, result.HeatPoints, "filtered-out systems contribute no heat")
}

func TestBuild_HeatmapDisabled(t *testing.T) {
	b := testBuilder(clockwork.NewRealClock(), 10, 0)

	systems := []domain.WaterSystem{{PWSID: "GA002", Name: "Troubled"}}
	violations := []domain.Violation{{PWSID: "GA002", Status: "Unaddressed"}}
	filters := domain.DisplayFilters{ShowViolation: true}

	result, err := b.Build(context.Background(), systems, violations, filters)
	require.NoError(t, err)

	assert.Len(t, result.Markers, 1)
	assert.Empty(t, result.HeatPoints)
}

func TestBuild_EmptyInput(t *testing.T) {
	b := testBuilder(clockwork.NewRealClock(), 10, 0)

	result, err := b.Build(context.Background(), nil, nil, domain.DefaultDisplayFilters())
	require.NoError(t, err)
	assert.Empty(t, result.Markers)
	assert.Empty(t, result.HeatPoints)
}

func TestBuild_BatchesAreDelayed(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := testBuilder(clock, 2, 100*time.Millisecond)

	done := make(chan BuildResult, 1)
	go func() {
		result, err := b.Build(context.Background(), testSystems(4), nil, domain.DefaultDisplayFilters())
		require.NoError(t, err)
		done <- result
	}()

	// First batch settles, then the builder sleeps between batches.
	clock.BlockUntil(1)
	select {
	case <-done:
		t.Fatal("build finished without waiting out the inter-batch delay")
	default:
	}

	clock.Advance(100 * time.Millisecond)
	result := <-done
	assert.Len(t, result.Markers, 4)
}

func TestBuild_SupersededRunDiscarded(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := testBuilder(clock, 1, 50*time.Millisecond)

	errCh := make(chan error, 1)
	go func() {
		_, err := b.Build(context.Background(), testSystems(3), nil, domain.DefaultDisplayFilters())
		errCh <- err
	}()

	// Wait for the first run to park on its inter-batch delay, then start a
	// newer run that finishes immediately (single system, no delay needed).
	clock.BlockUntil(1)
	_, err := b.Build(context.Background(), testSystems(1), nil, domain.DefaultDisplayFilters())
	require.NoError(t, err)

	clock.Advance(50 * time.Millisecond)
	assert.ErrorIs(t, <-errCh, ErrSuperseded)
}

func TestBuild_ContextCancellation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := testBuilder(clock, 1, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := b.Build(ctx, testSystems(3), nil, domain.DefaultDisplayFilters())
		errCh <- err
	}()

	clock.BlockUntil(1)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestMarkerSize(t *testing.T) {
	assert.Equal(t, 8.0, markerSize(0), "zero population defaults small")
	assert.Equal(t, 8.0, markerSize(500))
	assert.InDelta(t, 10.0, markerSize(10000), 1e-9)
	assert.Equal(t, 25.0, markerSize(10_000_000))
}
