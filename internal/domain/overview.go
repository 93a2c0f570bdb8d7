package domain

// OverviewStats is the map-wide dashboard rollup across every system in the
// catalog, independent of display filters and selections.
type OverviewStats struct {
	Systems struct {
		Total           int            `json:"total"`
		Compliant       int            `json:"compliant"`
		Violation       int            `json:"violation"`
		Critical        int            `json:"critical"`
		TotalPopulation int            `json:"total_population"`
		Types           map[string]int `json:"types"`
	} `json:"systems"`
	Violations struct {
		Total       int `json:"total"`
		Active      int `json:"active"`
		HealthBased int `json:"health_based"`
		Resolved    int `json:"resolved"`
	} `json:"violations"`
}

// ComputeOverview derives the dashboard rollup from a full systems and
// violations listing. Classification is derived per system from its
// violations, same as marker classification.
func ComputeOverview(systems []WaterSystem, violations []Violation) OverviewStats {
	var stats OverviewStats
	stats.Systems.Types = make(map[string]int)

	grouped := GroupViolationsBySystem(violations)
	for _, sys := range systems {
		stats.Systems.Total++
		stats.Systems.TotalPopulation += sys.PopulationServed
		stats.Systems.Types[sys.Type]++
		switch Classify(grouped[sys.PWSID]) {
		case ClassCompliant:
			stats.Systems.Compliant++
		case ClassViolation:
			stats.Systems.Violation++
		case ClassCritical:
			stats.Systems.Critical++
		}
	}

	for _, v := range violations {
		stats.Violations.Total++
		if v.Active() {
			stats.Violations.Active++
		}
		if v.IsHealthBased {
			stats.Violations.HealthBased++
		}
		if v.Status == "Resolved" {
			stats.Violations.Resolved++
		}
	}
	return stats
}
