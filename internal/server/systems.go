package server

import (
	"net/http"
	"strconv"
	"time"

	"watermap/internal/domain"
)

const loadPageSize = 1000

func (s *Server) handleListSystems(w http.ResponseWriter, r *http.Request) {
	filters, err := catalogFiltersFromQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page := pageFromQuery(r)

	result, err := s.catalog.ListSystems(r.Context(), filters, page)
	if err != nil {
		s.logger.Error("list systems failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to list systems")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"systems":  result.Systems,
		"total":    result.Total,
		"has_more": page.Offset+len(result.Systems) < result.Total,
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc := domain.SystemLocation{
		SystemID: q.Get("system_id"),
		Name:     q.Get("name"),
		City:     q.Get("city"),
		County:   q.Get("county"),
	}
	if loc.Name == "" && loc.City == "" && loc.County == "" {
		respondWithError(w, http.StatusBadRequest, "at least one of name, city, county is required")
		return
	}

	rec := s.resolver.Resolve(r.Context(), loc)
	respondWithJSON(w, http.StatusOK, rec)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	systems, err := s.loadAllSystems(r, domain.CatalogFilters{})
	if err != nil {
		s.logger.Error("overview systems load failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load systems")
		return
	}
	violations, err := s.catalog.ListViolations(r.Context(), nil, domain.CatalogFilters{})
	if err != nil {
		s.logger.Error("overview violations load failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load violations")
		return
	}

	respondWithJSON(w, http.StatusOK, domain.ComputeOverview(systems, violations))
}

// loadAllSystems pages through the catalog until the full filtered listing
// is in memory. Marker builds and overview stats need the complete set.
func (s *Server) loadAllSystems(r *http.Request, filters domain.CatalogFilters) ([]domain.WaterSystem, error) {
	var all []domain.WaterSystem
	for offset := 0; ; offset += loadPageSize {
		page, err := s.catalog.ListSystems(r.Context(), filters, domain.Page{Limit: loadPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Systems...)
		if len(all) >= page.Total || len(page.Systems) == 0 {
			return all, nil
		}
	}
}

func catalogFiltersFromQuery(r *http.Request) (domain.CatalogFilters, error) {
	q := r.URL.Query()
	filters := domain.CatalogFilters{
		SystemType:     q.Get("system_type"),
		OwnerType:      q.Get("owner_type"),
		SourceType:     q.Get("source_type"),
		Classification: domain.Classification(q.Get("classification")),
	}
	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return domain.CatalogFilters{}, err
		}
		filters.DateFrom = t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return domain.CatalogFilters{}, err
		}
		filters.DateTo = t
	}
	return filters, filters.Validate()
}

func pageFromQuery(r *http.Request) domain.Page {
	q := r.URL.Query()
	page := domain.Page{Limit: 25}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		page.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		page.Offset = v
	}
	return page
}
