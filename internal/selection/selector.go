// Package selection manages user-drawn polygonal regions: the drawing state
// machine, spatial containment over resolved coordinates, and aggregate zone
// statistics.
package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"watermap/internal/domain"
	"watermap/internal/observability"
)

// State of the drawing lifecycle.
type State string

const (
	StateIdle            State = "idle"
	StateDrawing         State = "drawing"
	StateSelectionActive State = "selection-active"
)

var (
	// ErrInvalidTransition reports a lifecycle operation not allowed in the
	// current state.
	ErrInvalidTransition = errors.New("selection: invalid state transition")
	// ErrUnknownSelection reports a reselect of a selection id that does not
	// exist.
	ErrUnknownSelection = errors.New("selection: unknown selection id")
)

// SystemSnapshot is a contained system frozen at selection time, annotated
// with its classification and resolved position.
type SystemSnapshot struct {
	domain.WaterSystem
	Classification domain.Classification `json:"classification"`
	Position       domain.Coordinate     `json:"position"`
}

// PolygonSelection is a committed user-drawn region plus everything it
// contains.
type PolygonSelection struct {
	ID         string             `json:"id"`
	Polygon    Polygon            `json:"-"`
	AreaKm2    float64            `json:"area_km2"`
	Systems    []SystemSnapshot   `json:"systems"`
	Violations []domain.Violation `json:"violations"`
	CreatedAt  time.Time          `json:"created_at"`
}

// CoordinateLookup returns the already-resolved coordinate for a location,
// or false when nothing is cached yet. Containment is a best-effort view
// over resolved data: systems with no cached coordinate are excluded.
type CoordinateLookup func(ctx context.Context, loc domain.SystemLocation) (domain.CoordinateRecord, bool)

// Selector owns the drawing state machine and the committed selections.
// Transitions are user-triggered and strictly sequential; no concurrent
// drawing sessions are supported.
type Selector struct {
	state      State
	selections []*PolygonSelection
	active     string
	lookup     CoordinateLookup
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewSelector creates a Selector in the idle state.
func NewSelector(lookup CoordinateLookup, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Selector {
	return &Selector{
		state:   StateIdle,
		lookup:  lookup,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// State returns the current lifecycle state.
func (s *Selector) State() State { return s.state }

// Selections returns all committed selections, oldest first.
func (s *Selector) Selections() []*PolygonSelection { return s.selections }

// Active returns the selection currently inspected, or nil.
func (s *Selector) Active() *PolygonSelection {
	for _, sel := range s.selections {
		if sel.ID == s.active {
			return sel
		}
	}
	return nil
}

// StartDrawing enters drawing mode from idle or selection-active.
func (s *Selector) StartDrawing() error {
	if s.state == StateDrawing {
		return fmt.Errorf("%w: already drawing", ErrInvalidTransition)
	}
	s.state = StateDrawing
	s.active = ""
	return nil
}

// CancelDrawing abandons the in-progress polygon and returns to idle.
func (s *Selector) CancelDrawing() error {
	if s.state != StateDrawing {
		return fmt.Errorf("%w: not drawing", ErrInvalidTransition)
	}
	s.state = StateIdle
	return nil
}

// CompletePolygon commits a drawn ring. Invalid geometry is rejected and the
// selector stays in drawing mode so the user can retry. On success the new
// selection becomes active, holding snapshots of the contained systems that
// pass the display filters plus their active violations.
func (s *Selector) CompletePolygon(ctx context.Context, ring []domain.Coordinate, systems []domain.WaterSystem, violations []domain.Violation, filters domain.DisplayFilters) (*PolygonSelection, error) {
	if s.state != StateDrawing {
		return nil, fmt.Errorf("%w: polygon completed while not drawing", ErrInvalidTransition)
	}

	polygon, err := NewPolygon(ring)
	if err != nil {
		s.metrics.SelectionsRejected.Inc()
		return nil, err
	}

	grouped := domain.GroupViolationsBySystem(violations)
	sel := &PolygonSelection{
		ID:        uuid.NewString(),
		Polygon:   polygon,
		AreaKm2:   polygon.AreaKm2(),
		CreatedAt: s.clock.Now(),
	}

	for _, sys := range systems {
		rec, ok := s.lookup(ctx, sys.Location())
		if !ok {
			continue // not resolved in this view yet
		}
		if !polygon.Contains(rec.Coordinate) {
			continue
		}
		classification := domain.Classify(grouped[sys.PWSID])
		if !filters.Allows(classification) {
			continue
		}
		sel.Systems = append(sel.Systems, SystemSnapshot{
			WaterSystem:    sys,
			Classification: classification,
			Position:       rec.Coordinate,
		})
		sel.Violations = append(sel.Violations, domain.ActiveViolations(grouped[sys.PWSID])...)
	}

	s.selections = append(s.selections, sel)
	s.active = sel.ID
	s.state = StateSelectionActive
	s.metrics.SelectionsCreated.Inc()
	s.logger.Info("polygon selection created",
		"selection_id", sel.ID,
		"area_km2", sel.AreaKm2,
		"systems", len(sel.Systems),
	)
	return sel, nil
}

// Reselect switches which existing selection is inspected.
func (s *Selector) Reselect(id string) (*PolygonSelection, error) {
	if s.state != StateSelectionActive {
		return nil, fmt.Errorf("%w: no active selection", ErrInvalidTransition)
	}
	for _, sel := range s.selections {
		if sel.ID == id {
			s.active = id
			return sel, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSelection, id)
}

// ClearAll discards every selection and returns to idle from any state.
func (s *Selector) ClearAll() {
	s.selections = nil
	s.active = ""
	s.state = StateIdle
}
