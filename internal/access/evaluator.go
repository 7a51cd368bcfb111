package access

import (
	"time"

	"github.com/nerrad567/wayfinder-core/internal/floorplan"
)

// State is the display state of a gate or path at an instant.
type State string

// States.
const (
	StateOpen       State = "open"
	StateClosed     State = "closed"
	StateRestricted State = "restricted"
	StateBlocked    State = "blocked"
)

// Reason codes explain a non-open State.
const (
	ReasonClosed           = "closed"
	ReasonBlocked          = "blocked"
	ReasonOutsideHours     = "outside_hours"
	ReasonOutsideOpening   = "outside_opening_hours"
	ReasonRestrictedAfter  = "restricted_after"
	ReasonRestrictedBefore = "restricted_before"
	ReasonOutsideAllowed   = "outside_allowed_times"
)

// Status is the result of evaluating a gate or path.
type Status struct {
	State  State  `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// Available reports whether the status permits traversal.
func (s Status) Available() bool {
	return s.State == StateOpen
}

var open = Status{State: StateOpen}

// Evaluator evaluates access rules in a fixed location.
// The zero value is not usable; construct with New.
type Evaluator struct {
	loc *time.Location
}

// New returns an Evaluator for loc. A nil loc means UTC.
func New(loc *time.Location) *Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	return &Evaluator{loc: loc}
}

// Location returns the evaluator's time zone.
func (e *Evaluator) Location() *time.Location {
	return e.loc
}

// GateAvailable reports whether g can be passed at t.
func (e *Evaluator) GateAvailable(g floorplan.Gate, t time.Time) bool {
	return e.GateStatus(g, t).Available()
}

// PathAvailable reports whether p can be walked at t.
func (e *Evaluator) PathAvailable(p floorplan.Path, t time.Time) bool {
	return e.PathStatus(p, t).Available()
}

// GateStatus evaluates g at t and explains the outcome.
func (e *Evaluator) GateStatus(g floorplan.Gate, t time.Time) Status {
	if !g.IsOpen {
		return Status{State: StateClosed, Reason: ReasonClosed}
	}

	local := t.In(e.loc)

	if tr := g.TimeRestriction; tr != nil {
		h := local.Hour()
		if h < tr.OpenHour || h >= tr.CloseHour {
			return Status{State: StateRestricted, Reason: ReasonOutsideHours}
		}
	}

	if len(g.OpeningHours) > 0 && !anyContains(g.OpeningHours, local) {
		return Status{State: StateRestricted, Reason: ReasonOutsideOpening}
	}

	return ruleStatus(g.AccessRule, local)
}

// PathStatus evaluates p at t and explains the outcome.
func (e *Evaluator) PathStatus(p floorplan.Path, t time.Time) Status {
	if p.IsBlocked {
		return Status{State: StateBlocked, Reason: ReasonBlocked}
	}
	return ruleStatus(p.AccessRule, t.In(e.loc))
}

// ruleStatus applies an AccessRule to an instant already in the site location.
func ruleStatus(r *floorplan.AccessRule, local time.Time) Status {
	if r == nil {
		return open
	}

	now := floorplan.ClockOf(local)
	if r.RestrictedAfter != nil && now >= *r.RestrictedAfter {
		return Status{State: StateRestricted, Reason: ReasonRestrictedAfter}
	}
	if r.RestrictedBefore != nil && now < *r.RestrictedBefore {
		return Status{State: StateRestricted, Reason: ReasonRestrictedBefore}
	}
	if len(r.AllowedTimes) > 0 && !anyContains(r.AllowedTimes, local) {
		return Status{State: StateRestricted, Reason: ReasonOutsideAllowed}
	}
	return open
}

func anyContains(windows []floorplan.TimeWindow, t time.Time) bool {
	for _, w := range windows {
		if w.Contains(t) {
			return true
		}
	}
	return false
}

// CanTraverse reports whether the gate's direction rule permits dir.
// A gate without a rule, or with an empty direction, allows both.
func CanTraverse(g floorplan.Gate, dir floorplan.Direction) bool {
	if g.AccessRule == nil {
		return true
	}
	switch g.AccessRule.AllowedDirections {
	case "", floorplan.DirectionBoth:
		return true
	default:
		return g.AccessRule.AllowedDirections == dir
	}
}

// IsTimeDependent reports whether any time-based rule is attached to g.
func IsTimeDependent(g floorplan.Gate) bool {
	return g.TimeRestriction != nil || len(g.OpeningHours) > 0 || ruleIsTimed(g.AccessRule)
}

// PathIsTimeDependent reports whether p carries a time-based rule.
func PathIsTimeDependent(p floorplan.Path) bool {
	return ruleIsTimed(p.AccessRule)
}

func ruleIsTimed(r *floorplan.AccessRule) bool {
	if r == nil {
		return false
	}
	return r.TimeDependent || r.RestrictedAfter != nil || r.RestrictedBefore != nil || len(r.AllowedTimes) > 0
}
