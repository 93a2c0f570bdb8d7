package selection

import "watermap/internal/domain"

// ZoneStatistics are aggregate metrics over one polygon selection. They are
// derived and ephemeral: recomputed on every call, never persisted.
type ZoneStatistics struct {
	TotalSystems     int     `json:"total_systems"`
	CompliantSystems int     `json:"compliant_systems"`
	ViolationSystems int     `json:"violation_systems"`
	CriticalSystems  int     `json:"critical_systems"`
	TotalPopulation  int     `json:"total_population"`
	ActiveViolations int     `json:"active_violations"`
	HealthBased      int     `json:"health_based_violations"`
	AreaKm2          float64 `json:"area_km2"`
	AreaDisplay      string  `json:"area_display"`

	AverageSystemSize float64 `json:"average_system_size"`
	PopulationDensity float64 `json:"population_density"` // people per km²
	SystemDensity     float64 `json:"system_density"`     // systems per km²
	ComplianceRate    float64 `json:"compliance_rate"`    // 0 when no systems
}

// Summarize computes zone statistics from a selection. An empty selection
// yields defined zeros; no division errors propagate.
func Summarize(sel *PolygonSelection) ZoneStatistics {
	stats := ZoneStatistics{
		AreaKm2:     sel.AreaKm2,
		AreaDisplay: FormatArea(sel.AreaKm2),
	}

	for _, sys := range sel.Systems {
		stats.TotalSystems++
		stats.TotalPopulation += sys.PopulationServed
		switch sys.Classification {
		case domain.ClassCompliant:
			stats.CompliantSystems++
		case domain.ClassViolation:
			stats.ViolationSystems++
		case domain.ClassCritical:
			stats.CriticalSystems++
		}
	}

	for _, v := range sel.Violations {
		if !v.Active() {
			continue
		}
		stats.ActiveViolations++
		if v.IsHealthBased {
			stats.HealthBased++
		}
	}

	if stats.TotalSystems > 0 {
		stats.AverageSystemSize = float64(stats.TotalPopulation) / float64(stats.TotalSystems)
		stats.ComplianceRate = float64(stats.CompliantSystems) / float64(stats.TotalSystems)
	}
	if sel.AreaKm2 > 0 {
		stats.PopulationDensity = float64(stats.TotalPopulation) / sel.AreaKm2
		stats.SystemDensity = float64(stats.TotalSystems) / sel.AreaKm2
	}
	return stats
}
