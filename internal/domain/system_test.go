package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		violations []Violation
		want       Classification
	}{
		{"no violations", nil, ClassCompliant},
		{
			"resolved only",
			[]Violation{{Status: "Resolved"}, {Status: "Archived"}},
			ClassCompliant,
		},
		{
			"active non-health",
			[]Violation{{Status: "Unaddressed", IsHealthBased: false}},
			ClassViolation,
		},
		{
			"addressed counts as active",
			[]Violation{{Status: "Addressed", IsHealthBased: false}},
			ClassViolation,
		},
		{
			"single health-based",
			[]Violation{{Status: "Unaddressed", IsHealthBased: true}},
			ClassCritical,
		},
		{
			"health-based wins regardless of count",
			[]Violation{
				{Status: "Unaddressed", IsHealthBased: false},
				{Status: "Addressed", IsHealthBased: true},
				{Status: "Unaddressed", IsHealthBased: false},
			},
			ClassCritical,
		},
		{
			"resolved health-based ignored",
			[]Violation{
				{Status: "Resolved", IsHealthBased: true},
				{Status: "Unaddressed", IsHealthBased: false},
			},
			ClassViolation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.violations))
		})
	}
}

func TestActiveViolations(t *testing.T) {
	vs := []Violation{
		{ID: "1", Status: "Unaddressed"},
		{ID: "2", Status: "Resolved"},
		{ID: "3", Status: "Addressed"},
		{ID: "4", Status: "Archived"},
	}

	active := ActiveViolations(vs)

	assert.Len(t, active, 2)
	assert.Equal(t, "1", active[0].ID)
	assert.Equal(t, "3", active[1].ID)
}

func TestGroupViolationsBySystem(t *testing.T) {
	vs := []Violation{
		{ID: "1", PWSID: "GA001"},
		{ID: "2", PWSID: "GA002"},
		{ID: "3", PWSID: "GA001"},
	}

	grouped := GroupViolationsBySystem(vs)

	assert.Len(t, grouped, 2)
	assert.Len(t, grouped["GA001"], 2)
	assert.Len(t, grouped["GA002"], 1)
}

func TestCatalogFilters_Validate(t *testing.T) {
	assert.NoError(t, CatalogFilters{}.Validate())
	assert.NoError(t, CatalogFilters{SystemType: "CWS", OwnerType: "L", SourceType: "GW", Classification: ClassCritical}.Validate())

	assert.Error(t, CatalogFilters{SystemType: "cws"}.Validate())
	assert.Error(t, CatalogFilters{OwnerType: "X"}.Validate())
	assert.Error(t, CatalogFilters{SourceType: "TAP"}.Validate())
	assert.Error(t, CatalogFilters{Classification: "shiny"}.Validate())
}
