package selection

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"watermap/internal/domain"
)

// ZoneExport is the downloadable snapshot of a selection: zone metadata, the
// polygon as a GeoJSON feature, the contained systems, and their active
// violations.
type ZoneExport struct {
	Zone struct {
		ID          string    `json:"id"`
		AreaKm2     float64   `json:"area_km2"`
		AreaDisplay string    `json:"area_display"`
		CreatedAt   time.Time `json:"created_at"`
	} `json:"zone"`
	Geometry   *geojson.Feature   `json:"geometry"`
	Statistics ZoneStatistics     `json:"statistics"`
	Systems    []SystemSnapshot   `json:"systems"`
	Violations []domain.Violation `json:"violations"`
}

// Export assembles the JSON-ready export document for a selection.
func Export(sel *PolygonSelection) ZoneExport {
	var out ZoneExport
	out.Zone.ID = sel.ID
	out.Zone.AreaKm2 = sel.AreaKm2
	out.Zone.AreaDisplay = FormatArea(sel.AreaKm2)
	out.Zone.CreatedAt = sel.CreatedAt
	out.Geometry = geojson.NewFeature(orb.Polygon{sel.Polygon.Ring()})
	out.Statistics = Summarize(sel)
	out.Systems = sel.Systems
	out.Violations = sel.Violations
	return out
}
