package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"watermap/internal/domain"
	"watermap/internal/markers"
)

type buildMarkersRequest struct {
	Filters *domain.DisplayFilters `json:"filters"`
	Catalog struct {
		SystemType     string `json:"system_type"`
		OwnerType      string `json:"owner_type"`
		SourceType     string `json:"source_type"`
		Classification string `json:"classification"`
	} `json:"catalog"`
}

// handleBuildMarkers runs a full marker build over the filtered catalog. A
// build superseded by a newer request answers 409; the client simply drops
// the stale response.
func (s *Server) handleBuildMarkers(w http.ResponseWriter, r *http.Request) {
	var req buildMarkersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	filters := domain.DefaultDisplayFilters()
	if req.Filters != nil {
		filters = *req.Filters
	}
	catalogFilters := domain.CatalogFilters{
		SystemType:     req.Catalog.SystemType,
		OwnerType:      req.Catalog.OwnerType,
		SourceType:     req.Catalog.SourceType,
		Classification: domain.Classification(req.Catalog.Classification),
	}
	if err := catalogFilters.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	systems, err := s.loadAllSystems(r, catalogFilters)
	if err != nil {
		s.logger.Error("marker systems load failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load systems")
		return
	}
	violations, err := s.loadViolations(r, systems)
	if err != nil {
		s.logger.Error("marker violations load failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load violations")
		return
	}

	result, err := s.builder.Build(r.Context(), systems, violations, filters)
	if errors.Is(err, markers.ErrSuperseded) {
		respondWithError(w, http.StatusConflict, "build superseded by a newer request")
		return
	}
	if err != nil {
		s.logger.Error("marker build failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "marker build failed")
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) loadViolations(r *http.Request, systems []domain.WaterSystem) ([]domain.Violation, error) {
	if len(systems) == 0 {
		return nil, nil
	}
	pwsids := make([]string, 0, len(systems))
	for _, sys := range systems {
		pwsids = append(pwsids, sys.PWSID)
	}
	return s.catalog.ListViolations(r.Context(), pwsids, domain.CatalogFilters{})
}
