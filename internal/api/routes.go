package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nerrad567/wayfinder-core/internal/floorplan"
	"github.com/nerrad567/wayfinder-core/internal/wayfinding"
)

// routeRequest is the request body for POST /routes and /routes/alternatives.
type routeRequest struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Time        string `json:"time,omitempty"`
	AvoidStairs bool   `json:"avoid_stairs,omitempty"`
	TimeAware   bool   `json:"time_aware,omitempty"`
}

// decodeRouteRequest reads and validates a routeRequest into a Query.
func (s *Server) decodeRouteRequest(r *http.Request) (wayfinding.Query, error) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return wayfinding.Query{}, errors.New("invalid JSON body")
	}
	at, err := s.parseAt(req.Time)
	if err != nil {
		return wayfinding.Query{}, err
	}
	return wayfinding.Query{
		From:        strings.TrimSpace(req.From),
		To:          strings.TrimSpace(req.To),
		At:          at,
		AvoidStairs: req.AvoidStairs,
		TimeAware:   req.TimeAware,
	}, nil
}

// parseAt accepts "HH:MM" (today, site time zone) or RFC 3339.
// An empty string yields the zero time.
func (s *Server) parseAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if c, err := floorplan.ParseClock(raw); err == nil {
		return c.On(s.now(), s.loc), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.New("time must be HH:MM or RFC 3339")
	}
	return t, nil
}

// handleFindRoute computes the optimal route for a query.
func (s *Server) handleFindRoute(w http.ResponseWriter, r *http.Request) {
	q, err := s.decodeRouteRequest(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	route, err := s.service.FindRoute(r.Context(), q)
	if err != nil {
		writeRouteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

// handleFindAlternatives returns candidate routes, best first.
func (s *Server) handleFindAlternatives(w http.ResponseWriter, r *http.Request) {
	q, err := s.decodeRouteRequest(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	routes, err := s.service.FindAlternatives(r.Context(), q)
	if err != nil {
		writeRouteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"routes": routes,
		"count":  len(routes),
	})
}

// handleListGates evaluates every gate at ?at= (default now).
func (s *Server) handleListGates(w http.ResponseWriter, r *http.Request) {
	at, err := s.parseAt(r.URL.Query().Get("at"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if at.IsZero() {
		at = s.now()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"at":    at.In(s.loc).Format(time.RFC3339),
		"gates": s.service.GateStates(at),
	})
}
