package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"watermap/internal/domain"
	"watermap/internal/selection"
)

func (s *Server) handleStartDrawing(w http.ResponseWriter, r *http.Request) {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	if err := s.selector.StartDrawing(); err != nil {
		respondWithError(w, http.StatusConflict, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"state": string(s.selector.State())})
}

func (s *Server) handleCancelDrawing(w http.ResponseWriter, r *http.Request) {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	if err := s.selector.CancelDrawing(); err != nil {
		respondWithError(w, http.StatusConflict, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"state": string(s.selector.State())})
}

type completePolygonRequest struct {
	Ring    []domain.Coordinate    `json:"ring"`
	Filters *domain.DisplayFilters `json:"filters"`
}

func (s *Server) handleCompletePolygon(w http.ResponseWriter, r *http.Request) {
	var req completePolygonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	filters := domain.DefaultDisplayFilters()
	if req.Filters != nil {
		filters = *req.Filters
	}

	systems, err := s.loadAllSystems(r, domain.CatalogFilters{})
	if err != nil {
		s.logger.Error("selection systems load failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load systems")
		return
	}
	violations, err := s.loadViolations(r, systems)
	if err != nil {
		s.logger.Error("selection violations load failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load violations")
		return
	}

	s.selMu.Lock()
	sel, err := s.selector.CompletePolygon(r.Context(), req.Ring, systems, violations, filters)
	s.selMu.Unlock()
	if errors.Is(err, selection.ErrInvalidGeometry) {
		respondWithError(w, http.StatusUnprocessableEntity, "invalid polygon geometry")
		return
	}
	if errors.Is(err, selection.ErrInvalidTransition) {
		respondWithError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "selection failed")
		return
	}
	respondWithJSON(w, http.StatusCreated, sel)
}

func (s *Server) handleClearSelections(w http.ResponseWriter, r *http.Request) {
	s.selMu.Lock()
	s.selector.ClearAll()
	s.selMu.Unlock()
	respondWithJSON(w, http.StatusOK, map[string]string{"state": string(selection.StateIdle)})
}

func (s *Server) handleListSelections(w http.ResponseWriter, r *http.Request) {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	respondWithJSON(w, http.StatusOK, map[string]any{
		"state":      s.selector.State(),
		"selections": s.selector.Selections(),
	})
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.findSelection(chi.URLParam(r, "id"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "unknown selection")
		return
	}
	respondWithJSON(w, http.StatusOK, sel)
}

func (s *Server) handleReselect(w http.ResponseWriter, r *http.Request) {
	s.selMu.Lock()
	sel, err := s.selector.Reselect(chi.URLParam(r, "id"))
	s.selMu.Unlock()
	if errors.Is(err, selection.ErrUnknownSelection) {
		respondWithError(w, http.StatusNotFound, "unknown selection")
		return
	}
	if err != nil {
		respondWithError(w, http.StatusConflict, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, sel)
}

func (s *Server) handleSelectionStats(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.findSelection(chi.URLParam(r, "id"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "unknown selection")
		return
	}
	respondWithJSON(w, http.StatusOK, selection.Summarize(sel))
}

func (s *Server) handleSelectionExport(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.findSelection(chi.URLParam(r, "id"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "unknown selection")
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="zone-`+sel.ID+`.json"`)
	respondWithJSON(w, http.StatusOK, selection.Export(sel))
}

func (s *Server) findSelection(id string) (*selection.PolygonSelection, bool) {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	for _, sel := range s.selector.Selections() {
		if sel.ID == id {
			return sel, true
		}
	}
	return nil, false
}
