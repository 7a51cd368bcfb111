package floorplan

import "errors"

var (
	// ErrInvalidFloorPlan is returned when a floor plan breaks a structural invariant.
	ErrInvalidFloorPlan = errors.New("floorplan: invalid floor plan")

	// ErrInvalidClock is returned for a time-of-day that is not HH:MM.
	ErrInvalidClock = errors.New("floorplan: invalid time of day")

	// ErrInvalidWeekday is returned for an unrecognised day name.
	ErrInvalidWeekday = errors.New("floorplan: invalid weekday")

	// ErrInvalidGeometry is returned when a room declares neither or both shapes.
	ErrInvalidGeometry = errors.New("floorplan: invalid geometry")

	// ErrGateNotFound is returned by copy-on-write mutations for an unknown gate.
	ErrGateNotFound = errors.New("floorplan: gate not found")

	// ErrPathNotFound is returned by copy-on-write mutations for an unknown path.
	ErrPathNotFound = errors.New("floorplan: path not found")
)
