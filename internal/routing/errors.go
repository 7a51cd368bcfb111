package routing

import "errors"

var (
	// ErrRoomNotFound is returned when either endpoint room is not in the floor plan.
	ErrRoomNotFound = errors.New("routing: room not found")

	// ErrGateNotFound is returned when a room's primary gate has no gate record.
	ErrGateNotFound = errors.New("routing: gate not found for room")

	// ErrNoPathFound is returned when the target gate is unreachable.
	ErrNoPathFound = errors.New("routing: no path found")

	// ErrNodeNotFound is returned by ShortestPath for an ID absent from the graph.
	ErrNodeNotFound = errors.New("routing: node not in graph")

	// ErrCorruptPredecessors is returned when path reconstruction does not
	// reach the source within node-count steps.
	ErrCorruptPredecessors = errors.New("routing: predecessor chain is cyclic")
)
