package wayfinding

import (
	"time"

	"github.com/nerrad567/wayfinder-core/internal/access"
	"github.com/nerrad567/wayfinder-core/internal/analyzer"
	"github.com/nerrad567/wayfinder-core/internal/floorplan"
	"github.com/nerrad567/wayfinder-core/internal/routing"
)

// Query is a route request between two rooms.
//
// A zero At means now. TimeAware and AvoidStairs are OR-ed with the
// service defaults.
type Query struct {
	From        string    `json:"from"`
	To          string    `json:"to"`
	At          time.Time `json:"at"`
	AvoidStairs bool      `json:"avoid_stairs,omitempty"`
	TimeAware   bool      `json:"time_aware,omitempty"`
}

// NavigationRoute is a computed route with display metadata.
type NavigationRoute struct {
	ID            string              `json:"id"`
	From          string              `json:"from"`
	To            string              `json:"to"`
	RequestedAt   time.Time           `json:"requested_at"`
	Steps         []routing.RouteStep `json:"steps"`
	Instructions  []string            `json:"instructions"`
	TotalDistance float64             `json:"total_distance"`
	TotalTime     time.Duration       `json:"-"`
	TotalSeconds  int                 `json:"total_seconds"`
	Valid         bool                `json:"is_valid"`
	Warnings      []string            `json:"warnings"`
	Analysis      analyzer.Analysis   `json:"analysis"`
}

// EventType names a service event.
type EventType string

// Event types.
const (
	EventRouteComputed    EventType = "route.computed"
	EventRouteFailed      EventType = "route.failed"
	EventFloorPlanUpdated EventType = "floorplan.updated"
)

// Change kinds carried by floorplan.updated.
const (
	ChangeGate      = "gate"
	ChangePath      = "path"
	ChangeFloorPlan = "floorplan"
)

// Change describes what a floorplan.updated event altered.
type Change struct {
	Kind      string `json:"kind"`
	ID        string `json:"id"`
	IsOpen    *bool  `json:"is_open,omitempty"`
	IsBlocked *bool  `json:"is_blocked,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Event is delivered to every Listener.
type Event struct {
	Type      EventType        `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Query     *Query           `json:"query,omitempty"`
	Route     *NavigationRoute `json:"route,omitempty"`
	ErrorKind string           `json:"error_kind,omitempty"`
	Err       error            `json:"-"`
	Duration  time.Duration    `json:"-"`
	Change    *Change          `json:"change,omitempty"`
}

// Listener receives service events.
type Listener func(Event)

// GateState pairs a gate with its evaluated status.
type GateState struct {
	Gate   floorplan.Gate `json:"gate"`
	Status access.Status  `json:"status"`
}
