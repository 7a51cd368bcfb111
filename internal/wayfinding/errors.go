package wayfinding

import (
	"errors"

	"github.com/nerrad567/wayfinder-core/internal/floorplan"
	"github.com/nerrad567/wayfinder-core/internal/routing"
)

// ErrInvalidQuery is returned when a query is missing an endpoint.
var ErrInvalidQuery = errors.New("wayfinding: from and to are required")

// Error kinds recorded in events and route history.
const (
	KindRoomNotFound = "room_not_found"
	KindGateNotFound = "gate_not_found"
	KindNoPathFound  = "no_path_found"
	KindInvalidQuery = "invalid_query"
	KindInternal     = "internal"
)

// ErrorKind classifies err into one of the Kind constants.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, routing.ErrRoomNotFound):
		return KindRoomNotFound
	case errors.Is(err, routing.ErrGateNotFound):
		return KindGateNotFound
	case errors.Is(err, routing.ErrNoPathFound):
		return KindNoPathFound
	case errors.Is(err, ErrInvalidQuery):
		return KindInvalidQuery
	default:
		return KindInternal
	}
}

// IsNotFound reports whether err means an unknown gate or path was named
// in a state change.
func IsNotFound(err error) bool {
	return errors.Is(err, floorplan.ErrGateNotFound) || errors.Is(err, floorplan.ErrPathNotFound)
}
