package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/wayfinder-core/internal/audit"
	"github.com/nerrad567/wayfinder-core/internal/floorplan"
)

// gateStateRequest is the request body for PUT /gates/{id}/state.
type gateStateRequest struct {
	IsOpen *bool `json:"is_open"`
}

// pathStateRequest is the request body for PUT /paths/{id}/state.
type pathStateRequest struct {
	IsBlocked *bool  `json:"is_blocked"`
	Reason    string `json:"reason,omitempty"`
}

// handleSetGateState opens or closes a gate.
func (s *Server) handleSetGateState(w http.ResponseWriter, r *http.Request) {
	var req gateStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.IsOpen == nil {
		writeBadRequest(w, "is_open is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.service.SetGateOpen(id, *req.IsOpen); err != nil {
		writeChangeError(w, err)
		return
	}

	s.logger.Info("gate state set via API", "gate", id, "is_open", *req.IsOpen, "actor", actor(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"is_open": *req.IsOpen,
	})
}

// handleSetPathState blocks or unblocks a path.
func (s *Server) handleSetPathState(w http.ResponseWriter, r *http.Request) {
	var req pathStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.IsBlocked == nil {
		writeBadRequest(w, "is_blocked is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.service.SetPathBlocked(id, *req.IsBlocked, req.Reason); err != nil {
		writeChangeError(w, err)
		return
	}

	s.logger.Info("path state set via API", "path", id, "is_blocked", *req.IsBlocked, "actor", actor(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         id,
		"is_blocked": *req.IsBlocked,
	})
}

// handleReloadFloorPlan re-reads the configured floor-plan file.
func (s *Server) handleReloadFloorPlan(w http.ResponseWriter, r *http.Request) {
	if s.floorPlanPath == "" {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "no floor plan source configured")
		return
	}

	if err := s.service.Reload(s.floorPlanPath); err != nil {
		s.logger.Warn("floor plan reload failed", "error", err, "actor", actor(r))
		if errors.Is(err, floorplan.ErrInvalidFloorPlan) {
			writeChangeError(w, err)
			return
		}
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, "floor plan could not be loaded")
		return
	}

	fp := s.service.Engine().FloorPlan()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "reloaded",
		"floorplan": fp.ID,
		"rooms":     len(fp.Rooms),
		"gates":     len(fp.Gates),
		"paths":     len(fp.Paths),
	})
}

// handleListAudit lists gate, path and floor-plan changes, newest first.
// Filters: ?action=, ?entity_type=, ?entity_id=, ?limit=, ?offset=.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "audit log is disabled")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeBadRequest(w, name+" must be a non-negative integer")
			return
		}
		*dst = n
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing audit logs", "error", err)
		writeInternalError(w, "failed to list audit logs")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
