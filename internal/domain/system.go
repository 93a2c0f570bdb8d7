package domain

import "time"

// WaterSystem is a monitored public water system as served by the catalog
// store. Records are immutable within a view cycle; derived fields
// (classification, coordinates) are computed, not stored.
type WaterSystem struct {
	PWSID            string `json:"pwsid"`
	Name             string `json:"name"`
	Type             string `json:"type"` // CWS, TNCWS, NTNCWS
	Status           string `json:"status"`
	PopulationServed int    `json:"population_served"`
	OwnerType        string `json:"owner_type"`
	PrimarySource    string `json:"primary_source"` // GW, SW, GU
	City             string `json:"city"`
	County           string `json:"county"`
	State            string `json:"state"`
	ZipCode          string `json:"zip_code,omitempty"`
	LastReported     string `json:"last_reported,omitempty"`
}

// Location extracts the locality fields used for coordinate resolution.
func (s WaterSystem) Location() SystemLocation {
	return SystemLocation{
		SystemID: s.PWSID,
		Name:     s.Name,
		City:     s.City,
		County:   s.County,
	}
}

// Violation is an SDWIS violation record associated with a water system.
type Violation struct {
	ID            string     `json:"id"`
	PWSID         string     `json:"pwsid"`
	Code          string     `json:"code"`
	Category      string     `json:"category"` // MCL, MRDL, TT, MR, MON, RPT
	Contaminant   string     `json:"contaminant,omitempty"`
	BeginDate     time.Time  `json:"begin_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	Status        string     `json:"status"` // Unaddressed, Addressed, Resolved, Archived
	IsHealthBased bool       `json:"is_health_based"`
	Description   string     `json:"description,omitempty"`
}

// Active reports whether the violation still counts against the system.
func (v Violation) Active() bool {
	return v.Status == "Unaddressed" || v.Status == "Addressed"
}

// Classification is the derived compliance tier for a system.
type Classification string

const (
	ClassCompliant Classification = "compliant"
	ClassViolation Classification = "violation"
	ClassCritical  Classification = "critical"
)

// Classify derives a system's compliance classification from its violations.
// Any active health-based violation makes the system critical regardless of
// count; any other active violation makes it in-violation; otherwise the
// system is compliant.
func Classify(violations []Violation) Classification {
	active := false
	for _, v := range violations {
		if !v.Active() {
			continue
		}
		if v.IsHealthBased {
			return ClassCritical
		}
		active = true
	}
	if active {
		return ClassViolation
	}
	return ClassCompliant
}

// ActiveViolations filters a violation list down to active records.
func ActiveViolations(violations []Violation) []Violation {
	out := make([]Violation, 0, len(violations))
	for _, v := range violations {
		if v.Active() {
			out = append(out, v)
		}
	}
	return out
}

// GroupViolationsBySystem indexes violations by PWSID for per-system lookup.
func GroupViolationsBySystem(violations []Violation) map[string][]Violation {
	grouped := make(map[string][]Violation)
	for _, v := range violations {
		grouped[v.PWSID] = append(grouped[v.PWSID], v)
	}
	return grouped
}
