package api

import (
	"net/http"
	"strconv"
	"time"
)

// Analytics window bounds in days.
const (
	defaultAnalyticsDays = 7
	maxAnalyticsDays     = 365
)

// handleHistory returns recent route queries, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "route history is disabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing route history", "error", err)
		writeInternalError(w, "failed to list history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleAnalytics summarises route history over the last ?days= days.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "route history is disabled")
		return
	}

	days := defaultAnalyticsDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAnalyticsDays {
			writeBadRequest(w, "days must be between 1 and 365")
			return
		}
		days = n
	}

	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	summary, err := s.history.Summary(r.Context(), since)
	if err != nil {
		s.logger.Error("summarising route history", "error", err)
		writeInternalError(w, "failed to summarise history")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
