package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/metrics", s.handleMetrics)

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", s.handleListRooms)
			r.Get("/{id}", s.handleGetRoom)
		})

		r.Get("/gates", s.handleListGates)

		r.Route("/routes", func(r chi.Router) {
			r.Post("/", s.handleFindRoute)
			r.Post("/alternatives", s.handleFindAlternatives)
		})

		r.Get("/history", s.handleHistory)
		r.Get("/analytics", s.handleAnalytics)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(s.adminMiddleware)

			r.Put("/gates/{id}/state", s.handleSetGateState)
			r.Put("/paths/{id}/state", s.handleSetPathState)
			r.Post("/floorplan/reload", s.handleReloadFloorPlan)
			r.Get("/audit", s.handleListAudit)
		})

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	fp := s.service.Engine().FloorPlan()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   s.version,
		"floorplan": fp.ID,
		"rooms":     len(fp.Rooms),
	})
}
