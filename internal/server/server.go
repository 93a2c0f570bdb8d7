// Package server exposes the map view engine over HTTP: catalog listings,
// coordinate resolution, marker builds, and the polygon selection lifecycle.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"watermap/internal/config"
	"watermap/internal/domain"
	"watermap/internal/markers"
	"watermap/internal/resolve"
	"watermap/internal/selection"
)

// Server wires the engine components behind a chi router.
type Server struct {
	server *http.Server
	router *chi.Mux

	catalog  domain.CatalogStore
	resolver *resolve.Resolver
	builder  *markers.Builder

	// The selection state machine is single-session; handler access is
	// serialized.
	selMu    sync.Mutex
	selector *selection.Selector

	logger *slog.Logger
}

// New builds the router and binds all routes.
func New(cfg *config.Config, catalog domain.CatalogStore, resolver *resolve.Resolver, builder *markers.Builder, selector *selection.Selector, logger *slog.Logger) *Server {
	s := &Server{
		catalog:  catalog,
		resolver: resolver,
		builder:  builder,
		selector: selector,
		logger:   logger,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/systems", s.handleListSystems)
		r.Get("/resolve", s.handleResolve)
		r.Get("/stats/overview", s.handleOverview)

		r.Post("/markers", s.handleBuildMarkers)

		r.Route("/selection", func(r chi.Router) {
			r.Post("/draw", s.handleStartDrawing)
			r.Post("/cancel", s.handleCancelDrawing)
			r.Post("/complete", s.handleCompletePolygon)
			r.Delete("/", s.handleClearSelections)
			r.Get("/", s.handleListSelections)
			r.Get("/{id}", s.handleGetSelection)
			r.Post("/{id}/reselect", s.handleReselect)
			r.Get("/{id}/stats", s.handleSelectionStats)
			r.Get("/{id}/export", s.handleSelectionExport)
		})
	})

	s.router = router
	s.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts serving until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
