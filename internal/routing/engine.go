package routing

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/nerrad567/wayfinder-core/internal/access"
	"github.com/nerrad567/wayfinder-core/internal/floorplan"
)

// DefaultWalkingSpeed is the nominal walking speed in distance units per second.
const DefaultWalkingSpeed = 1.4

// Logger defines the logging interface used by the Engine.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// snapshot is an immutable floor plan with its derived graph and indexes.
type snapshot struct {
	plan  *floorplan.FloorPlan
	graph Graph
	edges map[edgeKey]floorplan.Path
	rooms map[string]floorplan.Room
	gates map[string]floorplan.Gate
	areas map[string]floorplan.SpecialArea
}

func newSnapshot(fp *floorplan.FloorPlan) *snapshot {
	g, edges := build(fp)
	s := &snapshot{
		plan:  fp,
		graph: g,
		edges: edges,
		rooms: make(map[string]floorplan.Room, len(fp.Rooms)),
		gates: make(map[string]floorplan.Gate, len(fp.Gates)),
		areas: make(map[string]floorplan.SpecialArea, len(fp.SpecialAreas)),
	}
	// First declaration wins for lookups, matching a linear find.
	for _, r := range fp.Rooms {
		if _, dup := s.rooms[r.ID]; !dup {
			s.rooms[r.ID] = r
		}
	}
	for _, gt := range fp.Gates {
		if _, dup := s.gates[gt.ID]; !dup {
			s.gates[gt.ID] = gt
		}
	}
	for _, a := range fp.SpecialAreas {
		s.areas[a.ID] = a
	}
	return s
}

// nodeName returns a display name for a gate or special area.
func (s *snapshot) nodeName(id string) string {
	if g, ok := s.gates[id]; ok && g.Name != "" {
		return g.Name
	}
	if a, ok := s.areas[id]; ok && a.Name != "" {
		return a.Name
	}
	return id
}

func (s *snapshot) roomName(id string) string {
	if r, ok := s.rooms[id]; ok && r.Name != "" {
		return r.Name
	}
	return id
}

// Engine answers route queries against the current floor plan.
//
// Thread Safety:
//   - All methods are safe for concurrent use. UpdateGraph replaces the
//     snapshot atomically; queries already running finish on the old one.
type Engine struct {
	current      atomic.Pointer[snapshot]
	walkingSpeed float64
	logger       Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWalkingSpeed sets the speed used for time estimates. Non-positive values are ignored.
func WithWalkingSpeed(unitsPerSecond float64) EngineOption {
	return func(e *Engine) {
		if unitsPerSecond > 0 {
			e.walkingSpeed = unitsPerSecond
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine builds the graph for fp. The engine keeps fp; callers must not
// modify it afterwards.
func NewEngine(fp *floorplan.FloorPlan, opts ...EngineOption) *Engine {
	e := &Engine{
		walkingSpeed: DefaultWalkingSpeed,
		logger:       noopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.UpdateGraph(fp)
	return e
}

// UpdateGraph rebuilds the graph from scratch for fp and swaps it in.
func (e *Engine) UpdateGraph(fp *floorplan.FloorPlan) {
	if fp == nil {
		fp = &floorplan.FloorPlan{}
	}
	s := newSnapshot(fp)
	e.current.Store(s)
	e.logger.Debug("routing graph rebuilt",
		"floorplan", fp.ID,
		"nodes", len(s.graph),
		"edges", s.graph.EdgeCount(),
	)
}

// FloorPlan returns the plan currently in use. Treat it as read-only.
func (e *Engine) FloorPlan() *floorplan.FloorPlan {
	return e.current.Load().plan
}

// Graph returns the adjacency map currently in use. Treat it as read-only.
func (e *Engine) Graph() Graph {
	return e.current.Load().graph
}

// WalkingSpeed returns the configured speed in units per second.
func (e *Engine) WalkingSpeed() float64 {
	return e.walkingSpeed
}

// query holds per-call options.
type query struct {
	at          time.Time
	evaluator   *access.Evaluator
	avoidStairs bool
}

// QueryOption adjusts a single route query.
type QueryOption func(*query)

// WithAccessRules evaluates gate and path access rules at instant at while
// searching, and enforces gate directions at the two endpoints.
func WithAccessRules(at time.Time, eval *access.Evaluator) QueryOption {
	return func(q *query) {
		q.at = at
		q.evaluator = eval
	}
}

// AvoidStairs excludes stairs paths and stairs gates other than the endpoints.
func AvoidStairs() QueryOption {
	return func(q *query) {
		q.avoidStairs = true
	}
}

// FindOptimalPath computes the shortest route between two rooms using each
// room's primary gate.
//
// The first step is the departure from fromRoomID at distance 0; each later
// step is one traversed edge, and the last one arrives at toRoomID. When
// both rooms are the same the route is a single zero-distance step.
//
// Returns:
//   - ErrRoomNotFound if either room is unknown
//   - ErrGateNotFound if a room's primary gate has no record
//   - ErrNoPathFound if the target is unreachable
func (e *Engine) FindOptimalPath(fromRoomID, toRoomID string, opts ...QueryOption) ([]RouteStep, error) {
	s := e.current.Load()

	var q query
	for _, opt := range opts {
		opt(&q)
	}

	fromRoom, ok := s.rooms[fromRoomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, fromRoomID)
	}
	toRoom, ok := s.rooms[toRoomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, toRoomID)
	}

	fromGate, ok := s.gates[fromRoom.PrimaryGate()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGateNotFound, fromRoomID)
	}
	toGate, ok := s.gates[toRoom.PrimaryGate()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGateNotFound, toRoomID)
	}

	if fromRoomID == toRoomID {
		return []RouteStep{{
			RoomID:      fromRoomID,
			From:        fromGate.ID,
			To:          fromGate.ID,
			Instruction: "You are already at " + s.roomName(fromRoomID),
		}}, nil
	}

	if q.evaluator != nil {
		if !access.CanTraverse(fromGate, floorplan.DirectionOut) || !access.CanTraverse(toGate, floorplan.DirectionIn) {
			return nil, fmt.Errorf("%w: %s to %s (gate direction)", ErrNoPathFound, fromRoomID, toRoomID)
		}
	}

	path, err := ShortestPath(s.graph, fromGate.ID, toGate.ID, e.filter(s, q, fromGate.ID, toGate.ID))
	if err != nil {
		if errors.Is(err, ErrNoPathFound) {
			e.logger.Debug("no route", "from", fromRoomID, "to", toRoomID)
			return nil, fmt.Errorf("%w: %s to %s", ErrNoPathFound, fromRoomID, toRoomID)
		}
		return nil, err
	}

	return e.assemble(s, path, fromRoom, toRoom), nil
}

// filter builds the relaxation filter for q, or nil when nothing applies.
func (e *Engine) filter(s *snapshot, q query, source, target string) EdgeFilter {
	if q.evaluator == nil && !q.avoidStairs {
		return nil
	}
	return func(from, to string) bool {
		p := s.edges[keyOf(from, to)]
		gate, isGate := s.gates[to]

		if q.avoidStairs {
			if p.Type == floorplan.PathStairs {
				return false
			}
			if isGate && gate.Type == floorplan.GateStairs && to != target && to != source {
				return false
			}
		}

		if q.evaluator != nil {
			if !q.evaluator.PathAvailable(p, q.at) {
				return false
			}
			if isGate && !q.evaluator.GateAvailable(gate, q.at) {
				return false
			}
			if from == source {
				if g, ok := s.gates[from]; ok && !q.evaluator.GateAvailable(g, q.at) {
					return false
				}
			}
		}
		return true
	}
}

// FindAlternativePaths returns candidate routes, best first. Only the
// optimal route is produced; k-shortest paths is not implemented.
func (e *Engine) FindAlternativePaths(fromRoomID, toRoomID string, opts ...QueryOption) ([][]RouteStep, error) {
	best, err := e.FindOptimalPath(fromRoomID, toRoomID, opts...)
	if err != nil {
		return nil, err
	}
	return [][]RouteStep{best}, nil
}

// TotalDistance returns the cumulative distance of the final step.
func TotalDistance(route []RouteStep) float64 {
	if len(route) == 0 {
		return 0
	}
	return route[len(route)-1].CumulativeDistance
}

// EstimatedTime returns the walking time for route rounded up to whole seconds.
func (e *Engine) EstimatedTime(route []RouteStep) time.Duration {
	secs := math.Ceil(TotalDistance(route) / e.walkingSpeed)
	return time.Duration(secs) * time.Second
}

// IsPathAccessible reports whether every gate the route reaches is open.
// Special-area nodes have no door and always count as open.
func (e *Engine) IsPathAccessible(route []RouteStep) bool {
	s := e.current.Load()
	for _, step := range route {
		if g, ok := s.gates[step.To]; ok {
			if !g.IsOpen {
				return false
			}
			continue
		}
		if _, ok := s.areas[step.To]; !ok {
			return false
		}
	}
	return true
}

// NavigationInstructions returns the short summary shown above a route.
func (e *Engine) NavigationInstructions(route []RouteStep) []string {
	if len(route) == 0 {
		return nil
	}
	s := e.current.Load()

	start := s.roomName(route[0].RoomID)
	end := s.roomName(route[len(route)-1].RoomID)

	out := []string{"Start at " + start}
	if len(route) > 1 {
		out = append(out, "Head to the main corridor")
	}
	return append(out, "Arrive at "+end)
}

// SearchRoomsByName matches query against room name, ID and type, ignoring case.
func (e *Engine) SearchRoomsByName(query string) []floorplan.Room {
	return floorplan.SearchRooms(e.current.Load().plan.Rooms, query)
}

// GetRoomByID returns a room of the current plan.
func (e *Engine) GetRoomByID(id string) (floorplan.Room, bool) {
	r, ok := e.current.Load().rooms[id]
	return r, ok
}

// GetRoomsByType returns rooms of exactly type t.
func (e *Engine) GetRoomsByType(t floorplan.RoomType) []floorplan.Room {
	return floorplan.FilterRoomsByType(e.current.Load().plan.Rooms, t)
}

// UnreachableRooms lists rooms whose primary gate cannot be reached from
// fromRoomID on the static graph. Useful as a load-time sanity check.
func (e *Engine) UnreachableRooms(fromRoomID string) ([]string, error) {
	s := e.current.Load()
	room, ok := s.rooms[fromRoomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, fromRoomID)
	}
	if _, ok := s.gates[room.PrimaryGate()]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrGateNotFound, fromRoomID)
	}

	reach, err := Distances(s.graph, room.PrimaryGate(), nil)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, r := range s.plan.Rooms {
		if _, ok := reach[r.PrimaryGate()]; !ok {
			out = append(out, r.ID)
		}
	}
	return out, nil
}
