package routing

import (
	"time"

	"github.com/nerrad567/wayfinder-core/internal/access"
	"github.com/nerrad567/wayfinder-core/internal/floorplan"
)

// RouteStep is one leg of a route.
//
// Step 0 is the departure: From and To are both the source gate and
// Distance is 0. Every later step walks one edge from From to To. RoomID is
// set on the first and last step only.
type RouteStep struct {
	RoomID             string             `json:"room_id,omitempty"`
	From               string             `json:"from"`
	To                 string             `json:"to"`
	PathID             string             `json:"path_id,omitempty"`
	PathType           floorplan.PathType `json:"path_type,omitempty"`
	Instruction        string             `json:"instruction"`
	Distance           float64            `json:"distance"`
	CumulativeDistance float64            `json:"cumulative_distance"`
	EstimatedTime      time.Duration      `json:"-"`
}

// assemble converts a gate sequence into steps.
func (e *Engine) assemble(s *snapshot, p Path, fromRoom, toRoom floorplan.Room) []RouteStep {
	first := p.Nodes[0]
	steps := make([]RouteStep, 0, len(p.Nodes))
	steps = append(steps, RouteStep{
		RoomID:      fromRoom.ID,
		From:        first,
		To:          first,
		Instruction: "Leave " + s.roomName(fromRoom.ID) + " through " + s.nodeName(first),
	})

	cumulative := 0.0
	last := len(p.Nodes) - 1
	for i := 1; i <= last; i++ {
		from, to := p.Nodes[i-1], p.Nodes[i]
		edge := s.edges[keyOf(from, to)]
		d := s.graph[from][to]
		cumulative += d

		step := RouteStep{
			From:               from,
			To:                 to,
			PathID:             edge.ID,
			PathType:           edge.Type,
			Distance:           d,
			CumulativeDistance: cumulative,
			EstimatedTime:      e.duration(d),
		}
		if i == last {
			step.RoomID = toRoom.ID
		}
		step.Instruction = s.instruction(edge, to, step.RoomID)
		steps = append(steps, step)
	}
	return steps
}

func (e *Engine) duration(distance float64) time.Duration {
	return time.Duration(distance / e.walkingSpeed * float64(time.Second))
}

// instruction describes walking edge into node to. Stairs and time-limited
// gates or paths are called out so the analyzer can flag them.
func (s *snapshot) instruction(edge floorplan.Path, to, arriveRoom string) string {
	name := s.nodeName(to)
	gate, isGate := s.gates[to]

	var text string
	switch {
	case edge.Type == floorplan.PathStairs || (isGate && gate.Type == floorplan.GateStairs):
		text = "Take the stairs to " + name
	case edge.Type == floorplan.PathFastTravel:
		text = "Cut through " + name
	case arriveRoom != "":
		text = "Arrive at " + s.roomName(arriveRoom) + " via " + name
	default:
		text = "Continue along the " + string(pathTypeOrCorridor(edge.Type)) + " to " + name
	}

	if access.PathIsTimeDependent(edge) || (isGate && access.IsTimeDependent(gate)) {
		text += " (restricted hours)"
	}
	return text
}

func pathTypeOrCorridor(t floorplan.PathType) floorplan.PathType {
	if t == "" {
		return floorplan.PathCorridor
	}
	return t
}
