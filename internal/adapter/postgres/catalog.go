package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"watermap/internal/domain"
)

// Catalog implements domain.CatalogStore over the water_systems and
// violations tables.
type Catalog struct {
	db *DB
}

// NewCatalog wraps a database handle as a catalog store.
func NewCatalog(db *DB) *Catalog {
	return &Catalog{db: db}
}

const systemColumns = `pwsid, pws_name, pws_type_code, pws_activity_code,
	population_served_count, COALESCE(owner_type_code, ''), COALESCE(primary_source_code, ''),
	COALESCE(city_served, ''), COALESCE(county_served, ''), COALESCE(state_code, ''),
	COALESCE(zip_code_served, ''), COALESCE(last_reported_date::text, '')`

// ListSystems returns one page of systems matching the filters plus the
// total match count, computed in the same query with a window function.
func (c *Catalog) ListSystems(ctx context.Context, filters domain.CatalogFilters, page domain.Page) (domain.SystemPage, error) {
	if err := filters.Validate(); err != nil {
		return domain.SystemPage{}, err
	}
	where, args := systemFilterClauses(filters)
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER ()
		FROM water_systems
		%s
		ORDER BY pwsid
		LIMIT $%d OFFSET $%d
	`, systemColumns, where, len(args)+1, len(args)+2)
	args = append(args, pageLimit(page), page.Offset)

	rows, err := c.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return domain.SystemPage{}, fmt.Errorf("list systems: %w", err)
	}
	defer rows.Close()

	var out domain.SystemPage
	for rows.Next() {
		var sys domain.WaterSystem
		if err := rows.Scan(&sys.PWSID, &sys.Name, &sys.Type, &sys.Status,
			&sys.PopulationServed, &sys.OwnerType, &sys.PrimarySource,
			&sys.City, &sys.County, &sys.State, &sys.ZipCode,
			&sys.LastReported, &out.Total); err != nil {
			return domain.SystemPage{}, fmt.Errorf("scan system: %w", err)
		}
		out.Systems = append(out.Systems, sys)
	}
	return out, rows.Err()
}

// ListViolations returns violations for the given systems, or for every
// system matching the filters when pwsids is empty.
func (c *Catalog) ListViolations(ctx context.Context, pwsids []string, filters domain.CatalogFilters) ([]domain.Violation, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	query, args := violationQuery(pwsids, filters)

	rows, err := c.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list violations: %w", err)
	}
	defer rows.Close()

	var out []domain.Violation
	for rows.Next() {
		var v domain.Violation
		if err := rows.Scan(&v.ID, &v.PWSID, &v.Code, &v.Category,
			&v.Contaminant, &v.BeginDate, &v.EndDate, &v.Status,
			&v.IsHealthBased, &v.Description); err != nil {
			return nil, fmt.Errorf("scan violation: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func pageLimit(page domain.Page) int {
	if page.Limit <= 0 {
		return 25
	}
	return page.Limit
}

// systemFilterClauses renders the WHERE clause for a systems query. The
// classification filter targets the imported compliance_status column, which
// is the catalog's own rollup; per-view classification is still derived from
// violations.
func systemFilterClauses(filters domain.CatalogFilters) (string, []any) {
	var clauses []string
	var args []any
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filters.SystemType != "" {
		add("pws_type_code = $%d", filters.SystemType)
	}
	if filters.OwnerType != "" {
		add("owner_type_code = $%d", filters.OwnerType)
	}
	if filters.SourceType != "" {
		add("primary_source_code = $%d", filters.SourceType)
	}
	if filters.Classification != "" {
		add("compliance_status = $%d", string(filters.Classification))
	}
	if !filters.DateFrom.IsZero() {
		add("last_reported_date >= $%d", filters.DateFrom.Format(time.DateOnly))
	}
	if !filters.DateTo.IsZero() {
		add("last_reported_date <= $%d", filters.DateTo.Format(time.DateOnly))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func violationQuery(pwsids []string, filters domain.CatalogFilters) (string, []any) {
	var clauses []string
	var args []any
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if len(pwsids) > 0 {
		add("pwsid = ANY($%d)", pwsids)
	}
	if !filters.DateFrom.IsZero() {
		add("non_compl_per_begin_date >= $%d", filters.DateFrom.Format(time.DateOnly))
	}
	if !filters.DateTo.IsZero() {
		add("non_compl_per_begin_date <= $%d", filters.DateTo.Format(time.DateOnly))
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}
	query := fmt.Sprintf(`
		SELECT id::text, pwsid, violation_code, violation_category_code,
			COALESCE(contaminant_code, ''), non_compl_per_begin_date,
			non_compl_per_end_date, violation_status, is_health_based_ind,
			COALESCE(description, '')
		FROM violations
		%s
		ORDER BY non_compl_per_begin_date DESC
	`, where)
	return query, args
}
