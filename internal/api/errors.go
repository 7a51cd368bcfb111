package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/wayfinder-core/internal/floorplan"
	"github.com/nerrad567/wayfinder-core/internal/wayfinding"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeForbidden    = "forbidden"
	ErrCodeInternal     = "internal_error"
	ErrCodeValidation   = "validation_error"
	ErrCodeUnavailable  = "unavailable"
	ErrCodeNoRoute      = "no_route"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeForbidden writes a 403 error response.
func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeRouteError maps a wayfinding failure to a response that does not
// reveal floor-plan identifiers.
func writeRouteError(w http.ResponseWriter, err error) {
	switch wayfinding.ErrorKind(err) {
	case wayfinding.KindInvalidQuery:
		writeBadRequest(w, "from and to are required")
	case wayfinding.KindRoomNotFound:
		writeNotFound(w, "room not found")
	case wayfinding.KindGateNotFound:
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, "room has no usable entrance")
	case wayfinding.KindNoPathFound:
		writeError(w, http.StatusUnprocessableEntity, ErrCodeNoRoute, "no route between the requested rooms")
	default:
		writeInternalError(w, "route computation failed")
	}
}

// writeChangeError maps a gate/path state change failure.
func writeChangeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, floorplan.ErrGateNotFound):
		writeNotFound(w, "gate not found")
	case errors.Is(err, floorplan.ErrPathNotFound):
		writeNotFound(w, "path not found")
	case errors.Is(err, floorplan.ErrInvalidFloorPlan):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, "floor plan is invalid")
	default:
		writeInternalError(w, "state change failed")
	}
}
