package domain

import (
	"fmt"
	"time"
)

// DisplayFilters controls which classifications contribute markers and
// whether non-compliant systems feed the density surface. Systems filtered
// out contribute neither a marker nor a heat point.
type DisplayFilters struct {
	ShowCompliant bool `json:"show_compliant"`
	ShowViolation bool `json:"show_violation"`
	ShowCritical  bool `json:"show_critical"`
	ShowHeatmap   bool `json:"show_heatmap"`
}

// DefaultDisplayFilters shows everything.
func DefaultDisplayFilters() DisplayFilters {
	return DisplayFilters{
		ShowCompliant: true,
		ShowViolation: true,
		ShowCritical:  true,
		ShowHeatmap:   true,
	}
}

// Allows reports whether markers with the given classification pass the filter.
func (f DisplayFilters) Allows(c Classification) bool {
	switch c {
	case ClassCompliant:
		return f.ShowCompliant
	case ClassViolation:
		return f.ShowViolation
	case ClassCritical:
		return f.ShowCritical
	default:
		return false
	}
}

// CatalogFilters narrows catalog list queries. Zero values mean "no filter".
// Enumerated fields are validated at construction rather than by convention.
type CatalogFilters struct {
	SystemType     string
	OwnerType      string
	SourceType     string
	Classification Classification
	DateFrom       time.Time
	DateTo         time.Time
}

var (
	validSystemTypes = map[string]bool{"CWS": true, "TNCWS": true, "NTNCWS": true}
	validOwnerTypes  = map[string]bool{"F": true, "L": true, "M": true, "N": true, "P": true, "S": true}
	validSourceTypes = map[string]bool{"GW": true, "SW": true, "GU": true}
)

// Validate rejects filter values outside the SDWIS enumerations.
func (f CatalogFilters) Validate() error {
	if f.SystemType != "" && !validSystemTypes[f.SystemType] {
		return fmt.Errorf("invalid system type %q", f.SystemType)
	}
	if f.OwnerType != "" && !validOwnerTypes[f.OwnerType] {
		return fmt.Errorf("invalid owner type %q", f.OwnerType)
	}
	if f.SourceType != "" && !validSourceTypes[f.SourceType] {
		return fmt.Errorf("invalid source type %q", f.SourceType)
	}
	switch f.Classification {
	case "", ClassCompliant, ClassViolation, ClassCritical:
	default:
		return fmt.Errorf("invalid classification %q", f.Classification)
	}
	if !f.DateFrom.IsZero() && !f.DateTo.IsZero() && f.DateTo.Before(f.DateFrom) {
		return fmt.Errorf("date range ends before it starts")
	}
	return nil
}

// Page bounds a catalog list query.
type Page struct {
	Limit  int
	Offset int
}

// SystemPage is one page of catalog results plus the unpaginated total.
type SystemPage struct {
	Systems []WaterSystem
	Total   int
}
