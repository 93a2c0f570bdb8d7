package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"watermap/internal/domain"
)

func TestSystemFilterClauses(t *testing.T) {
	tests := []struct {
		name       string
		filters    domain.CatalogFilters
		wantWhere  string
		wantArgLen int
	}{
		{
			name:      "no filters",
			filters:   domain.CatalogFilters{},
			wantWhere: "",
		},
		{
			name:       "system type only",
			filters:    domain.CatalogFilters{SystemType: "CWS"},
			wantWhere:  "WHERE pws_type_code = $1",
			wantArgLen: 1,
		},
		{
			name: "all enum filters",
			filters: domain.CatalogFilters{
				SystemType:     "CWS",
				OwnerType:      "L",
				SourceType:     "GW",
				Classification: domain.ClassCritical,
			},
			wantWhere:  "WHERE pws_type_code = $1 AND owner_type_code = $2 AND primary_source_code = $3 AND compliance_status = $4",
			wantArgLen: 4,
		},
		{
			name: "date range",
			filters: domain.CatalogFilters{
				DateFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				DateTo:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			},
			wantWhere:  "WHERE last_reported_date >= $1 AND last_reported_date <= $2",
			wantArgLen: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := systemFilterClauses(tt.filters)
			assert.Equal(t, tt.wantWhere, where)
			assert.Len(t, args, tt.wantArgLen)
		})
	}
}

func TestSystemFilterClauses_DateArgsAreISODates(t *testing.T) {
	_, args := systemFilterClauses(domain.CatalogFilters{
		DateFrom: time.Date(2024, 3, 5, 13, 45, 0, 0, time.UTC),
	})
	assert.Equal(t, []any{"2024-03-05"}, args)
}

func TestViolationQuery(t *testing.T) {
	query, args := violationQuery([]string{"GA0670000", "GA0890001"}, domain.CatalogFilters{})
	assert.Contains(t, query, "WHERE pwsid = ANY($1)")
	assert.Contains(t, query, "ORDER BY non_compl_per_begin_date DESC")
	assert.Equal(t, []any{[]string{"GA0670000", "GA0890001"}}, args)

	query, args = violationQuery(nil, domain.CatalogFilters{})
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}

func TestPageLimit(t *testing.T) {
	assert.Equal(t, 25, pageLimit(domain.Page{}))
	assert.Equal(t, 25, pageLimit(domain.Page{Limit: -1}))
	assert.Equal(t, 100, pageLimit(domain.Page{Limit: 100}))
}
