package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeOverview(t *testing.T) {
	systems := []WaterSystem{
		{PWSID: "GA1", Type: "CWS", PopulationServed: 40000},
		{PWSID: "GA2", Type: "CWS", PopulationServed: 25000},
		{PWSID: "GA3", Type: "TNCWS", PopulationServed: 300},
		{PWSID: "GA4", Type: "NTNCWS", PopulationServed: 800},
	}
	violations := []Violation{
		{ID: "v1", PWSID: "GA1", Status: "Unaddressed", IsHealthBased: true},
		{ID: "v2", PWSID: "GA2", Status: "Addressed"},
		{ID: "v3", PWSID: "GA2", Status: "Resolved"},
		{ID: "v4", PWSID: "GA3", Status: "Resolved", IsHealthBased: true},
	}

	stats := ComputeOverview(systems, violations)

	assert.Equal(t, 4, stats.Systems.Total)
	assert.Equal(t, 1, stats.Systems.Critical)
	assert.Equal(t, 1, stats.Systems.Violation)
	assert.Equal(t, 2, stats.Systems.Compliant)
	assert.Equal(t, 66100, stats.Systems.TotalPopulation)
	assert.Equal(t, map[string]int{"CWS": 2, "TNCWS": 1, "NTNCWS": 1}, stats.Systems.Types)

	assert.Equal(t, 4, stats.Violations.Total)
	assert.Equal(t, 2, stats.Violations.Active)
	assert.Equal(t, 2, stats.Violations.HealthBased)
	assert.Equal(t, 2, stats.Violations.Resolved)
}

func TestComputeOverview_Empty(t *testing.T) {
	stats := ComputeOverview(nil, nil)
	assert.Zero(t, stats.Systems.Total)
	assert.Zero(t, stats.Violations.Total)
	assert.NotNil(t, stats.Systems.Types)
}
