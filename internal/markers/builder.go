// Package markers turns catalog systems into map primitives: classified,
// sized markers and optional heatmap contributions. Resolution runs in
// bounded-concurrency batches with an inter-batch delay so a full view load
// stays polite toward the external geocoder.
package markers

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"watermap/internal/domain"
	"watermap/internal/observability"
	"watermap/internal/resolve"
)

// ErrSuperseded reports that a newer build run started while this one was in
// flight. The stale run's results are discarded, not merged.
var ErrSuperseded = errors.New("markers: build superseded by newer run")

// Marker is a single map marker for a water system.
type Marker struct {
	SystemID         string                  `json:"system_id"`
	Name             string                  `json:"name"`
	Position         domain.Coordinate       `json:"position"`
	Classification   domain.Classification   `json:"classification"`
	Size             float64                 `json:"size"`
	Population       int                     `json:"population"`
	ActiveViolations int                     `json:"active_violations"`
	HealthBased      int                     `json:"health_based_violations"`
	CoordinateSource domain.CoordinateSource `json:"coordinate_source"`
	Confidence       float64                 `json:"confidence"`
}

// HeatPoint is one weighted contribution to the violation density surface.
type HeatPoint struct {
	Position domain.Coordinate `json:"position"`
	Weight   float64           `json:"weight"`
}

// BuildResult is the output of one build run. Order carries no meaning;
// consumption is purely visual placement.
type BuildResult struct {
	Markers    []Marker    `json:"markers"`
	HeatPoints []HeatPoint `json:"heat_points"`
}

// Marker size bounds in display units.
const (
	minMarkerSize = 8
	maxMarkerSize = 25
)

// Builder resolves and classifies systems in sequential batches.
type Builder struct {
	resolver   *resolve.Resolver
	clock      clockwork.Clock
	batchSize  int
	batchDelay time.Duration
	metrics    *observability.Metrics
	logger     *slog.Logger

	run atomic.Uint64
}

// New creates a Builder. batchSize bounds concurrent resolutions; batchDelay
// separates consecutive batches.
func New(resolver *resolve.Resolver, clock clockwork.Clock, batchSize int, batchDelay time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Builder {
	return &Builder{
		resolver:   resolver,
		clock:      clock,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		metrics:    metrics,
		logger:     logger,
	}
}

// Build resolves every system, classifies it from its violations, applies
// the display filters, and returns markers plus heat points. Starting a new
// Build supersedes any run still in flight: the older call returns
// ErrSuperseded and its partial results are discarded.
func (b *Builder) Build(ctx context.Context, systems []domain.WaterSystem, violations []domain.Violation, filters domain.DisplayFilters) (BuildResult, error) {
	runID := b.run.Add(1)
	start := b.clock.Now()
	grouped := domain.GroupViolationsBySystem(violations)

	var out BuildResult
	for i := 0; i < len(systems); i += b.batchSize {
		end := i + b.batchSize
		if end > len(systems) {
			end = len(systems)
		}
		batch := systems[i:end]
		b.metrics.BuildBatchSize.Observe(float64(len(batch)))

		results := b.resolveBatch(ctx, batch, grouped)

		// Guard before applying any batch result: a newer run owns the view now.
		if b.run.Load() != runID {
			b.metrics.RunsSuperseded.Inc()
			b.logger.Info("marker build superseded", "run", runID, "processed", i)
			return BuildResult{}, ErrSuperseded
		}
		if err := ctx.Err(); err != nil {
			return BuildResult{}, err
		}

		for _, r := range results {
			if !filters.Allows(r.classification) {
				continue
			}
			out.Markers = append(out.Markers, r.marker)
			if filters.ShowHeatmap && r.classification != domain.ClassCompliant {
				out.HeatPoints = append(out.HeatPoints, HeatPoint{
					Position: r.marker.Position,
					Weight:   heatWeight(r.marker.ActiveViolations, r.marker.HealthBased),
				})
			}
		}

		if end < len(systems) {
			if !b.sleep(ctx, b.batchDelay) {
				return BuildResult{}, ctx.Err()
			}
		}
	}

	b.metrics.MarkersBuilt.Add(float64(len(out.Markers)))
	b.metrics.BuildDuration.Observe(b.clock.Since(start).Seconds())
	b.logger.Info("marker build complete",
		"run", runID,
		"systems", len(systems),
		"markers", len(out.Markers),
		"heat_points", len(out.HeatPoints),
	)
	return out, nil
}

type systemResult struct {
	marker         Marker
	classification domain.Classification
}

// resolveBatch resolves one batch concurrently. Systems within a batch have
// no ordering guarantee among themselves; the returned slice is indexed by
// batch position so output stays deterministic.
func (b *Builder) resolveBatch(ctx context.Context, batch []domain.WaterSystem, grouped map[string][]domain.Violation) []systemResult {
	results := make([]systemResult, len(batch))
	var wg sync.WaitGroup
	for i, sys := range batch {
		wg.Add(1)
		go func(i int, sys domain.WaterSystem) {
			defer wg.Done()
			results[i] = b.buildOne(ctx, sys, grouped[sys.PWSID])
		}(i, sys)
	}
	wg.Wait()
	return results
}

func (b *Builder) buildOne(ctx context.Context, sys domain.WaterSystem, violations []domain.Violation) systemResult {
	rec := b.resolver.Resolve(ctx, sys.Location())
	classification := domain.Classify(violations)

	active := 0
	healthBased := 0
	for _, v := range violations {
		if !v.Active() {
			continue
		}
		active++
		if v.IsHealthBased {
			healthBased++
		}
	}

	return systemResult{
		classification: classification,
		marker: Marker{
			SystemID:         sys.PWSID,
			Name:             sys.Name,
			Position:         rec.Coordinate,
			Classification:   classification,
			Size:             markerSize(sys.PopulationServed),
			Population:       sys.PopulationServed,
			ActiveViolations: active,
			HealthBased:      healthBased,
			CoordinateSource: rec.Source,
			Confidence:       rec.Confidence,
		},
	}
}

// markerSize maps population served onto a clamped square-root scale so large
// systems read bigger without dwarfing the map.
func markerSize(population int) float64 {
	if population <= 0 {
		population = 100
	}
	size := math.Sqrt(float64(population) / 100)
	return math.Max(minMarkerSize, math.Min(maxMarkerSize, size))
}

// heatWeight grades a non-compliant system's density contribution by severity
// and active-violation count.
func heatWeight(active, healthBased int) float64 {
	switch {
	case healthBased > 0:
		return 5
	case active > 3:
		return 3
	case active > 1:
		return 2
	default:
		return 1
	}
}

// sleep waits for the inter-batch delay, honoring context cancellation.
func (b *Builder) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-b.clock.After(d):
		return true
	}
}
