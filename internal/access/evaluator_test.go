package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nerrad567/wayfinder-core/internal/floorplan"
)

func clock(s string) *floorplan.Clock {
	c := floorplan.MustClock(s)
	return &c
}

// monday returns 2026-03-02 (a Monday) at hh:mm UTC.
func monday(hh, mm int) time.Time {
	return time.Date(2026, 3, 2, hh, mm, 0, 0, time.UTC)
}

func TestGateStatus_FixedHourWindow(t *testing.T) {
	e := New(time.UTC)
	g := floorplan.Gate{ID: "g", IsOpen: true, TimeRestriction: &floorplan.HourWindow{OpenHour: 8, CloseHour: 22}}

	assert.False(t, e.GateAvailable(g, monday(23, 0)), "hour 23 is outside 8-22")
	assert.True(t, e.GateAvailable(g, monday(10, 0)), "hour 10 is inside 8-22")
	assert.True(t, e.GateAvailable(g, monday(8, 0)), "open hour is inclusive")
	assert.False(t, e.GateAvailable(g, monday(22, 0)), "close hour is exclusive")
	assert.Equal(t, Status{State: StateRestricted, Reason: ReasonOutsideHours}, e.GateStatus(g, monday(7, 59)))
}

func TestGateStatus_ClosedWinsOverTime(t *testing.T) {
	e := New(time.UTC)
	g := floorplan.Gate{ID: "g", IsOpen: false, TimeRestriction: &floorplan.HourWindow{OpenHour: 0, CloseHour: 24}}

	assert.Equal(t, Status{State: StateClosed, Reason: ReasonClosed}, e.GateStatus(g, monday(12, 0)))
}

func TestGateStatus_AccessRule(t *testing.T) {
	e := New(time.UTC)

	tests := []struct {
		name string
		rule *floorplan.AccessRule
		at   time.Time
		want Status
	}{
		{"no rule", nil, monday(3, 0), Status{State: StateOpen}},
		{"before restricted_after", &floorplan.AccessRule{RestrictedAfter: clock("22:00")}, monday(21, 59), Status{State: StateOpen}},
		{"at restricted_after", &floorplan.AccessRule{RestrictedAfter: clock("22:00")}, monday(22, 0), Status{State: StateRestricted, Reason: ReasonRestrictedAfter}},
		{"before restricted_before", &floorplan.AccessRule{RestrictedBefore: clock("07:30")}, monday(7, 29), Status{State: StateRestricted, Reason: ReasonRestrictedBefore}},
		{"at restricted_before", &floorplan.AccessRule{RestrictedBefore: clock("07:30")}, monday(7, 30), Status{State: StateOpen}},
		{"inside allowed window", &floorplan.AccessRule{AllowedTimes: []floorplan.TimeWindow{
			{Start: floorplan.MustClock("06:00"), End: floorplan.MustClock("09:00")},
			{Start: floorplan.MustClock("17:00"), End: floorplan.MustClock("19:00")},
		}}, monday(18, 0), Status{State: StateOpen}},
		{"outside every allowed window", &floorplan.AccessRule{AllowedTimes: []floorplan.TimeWindow{
			{Start: floorplan.MustClock("06:00"), End: floorplan.MustClock("09:00")},
		}}, monday(12, 0), Status{State: StateRestricted, Reason: ReasonOutsideAllowed}},
		{"allowed window on another day", &floorplan.AccessRule{AllowedTimes: []floorplan.TimeWindow{
			{Start: 0, End: floorplan.MustClock("24:00"), Days: []floorplan.Weekday{floorplan.Weekday(time.Saturday)}},
		}}, monday(12, 0), Status{State: StateRestricted, Reason: ReasonOutsideAllowed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := floorplan.Gate{ID: "g", IsOpen: true, AccessRule: tt.rule}
			assert.Equal(t, tt.want, e.GateStatus(g, tt.at))
		})
	}
}

func TestGateStatus_OpeningHours(t *testing.T) {
	e := New(time.UTC)
	g := floorplan.Gate{ID: "lib", IsOpen: true, OpeningHours: []floorplan.TimeWindow{
		{Start: floorplan.MustClock("08:00"), End: floorplan.MustClock("22:00")},
	}}

	assert.True(t, e.GateAvailable(g, monday(9, 15)))
	assert.Equal(t, Status{State: StateRestricted, Reason: ReasonOutsideOpening}, e.GateStatus(g, monday(6, 0)))
}

func TestGateStatus_UsesEvaluatorLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	e := New(tokyo)
	g := floorplan.Gate{ID: "g", IsOpen: true, TimeRestriction: &floorplan.HourWindow{OpenHour: 8, CloseHour: 22}}

	// 00:00 UTC is 09:00 in Tokyo.
	assert.True(t, e.GateAvailable(g, monday(0, 0)))
	// 14:00 UTC is 23:00 in Tokyo.
	assert.False(t, e.GateAvailable(g, monday(14, 0)))
	assert.Equal(t, tokyo, e.Location())
}

func TestNew_NilLocation(t *testing.T) {
	assert.Equal(t, time.UTC, New(nil).Location())
}

func TestPathStatus(t *testing.T) {
	e := New(time.UTC)

	blocked := floorplan.Path{ID: "p", IsBlocked: true, AccessRule: &floorplan.AccessRule{}}
	assert.Equal(t, Status{State: StateBlocked, Reason: ReasonBlocked}, e.PathStatus(blocked, monday(12, 0)))

	timed := floorplan.Path{ID: "p", AccessRule: &floorplan.AccessRule{RestrictedAfter: clock("20:00")}}
	assert.True(t, e.PathAvailable(timed, monday(19, 0)))
	assert.False(t, e.PathAvailable(timed, monday(20, 30)))

	plain := floorplan.Path{ID: "p"}
	assert.True(t, e.PathAvailable(plain, monday(3, 0)))
}

func TestCanTraverse(t *testing.T) {
	tests := []struct {
		name string
		rule *floorplan.AccessRule
		dir  floorplan.Direction
		want bool
	}{
		{"no rule", nil, floorplan.DirectionIn, true},
		{"empty direction", &floorplan.AccessRule{}, floorplan.DirectionOut, true},
		{"both", &floorplan.AccessRule{AllowedDirections: floorplan.DirectionBoth}, floorplan.DirectionIn, true},
		{"out only allows out", &floorplan.AccessRule{AllowedDirections: floorplan.DirectionOut}, floorplan.DirectionOut, true},
		{"out only rejects in", &floorplan.AccessRule{AllowedDirections: floorplan.DirectionOut}, floorplan.DirectionIn, false},
		{"in only rejects out", &floorplan.AccessRule{AllowedDirections: floorplan.DirectionIn}, floorplan.DirectionOut, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTraverse(floorplan.Gate{AccessRule: tt.rule}, tt.dir))
		})
	}
}

func TestIsTimeDependent(t *testing.T) {
	assert.False(t, IsTimeDependent(floorplan.Gate{}))
	assert.False(t, IsTimeDependent(floorplan.Gate{AccessRule: &floorplan.AccessRule{AllowedDirections: floorplan.DirectionIn}}))
	assert.True(t, IsTimeDependent(floorplan.Gate{TimeRestriction: &floorplan.HourWindow{OpenHour: 8, CloseHour: 18}}))
	assert.True(t, IsTimeDependent(floorplan.Gate{OpeningHours: []floorplan.TimeWindow{{}}}))
	assert.True(t, IsTimeDependent(floorplan.Gate{AccessRule: &floorplan.AccessRule{TimeDependent: true}}))
	assert.True(t, PathIsTimeDependent(floorplan.Path{AccessRule: &floorplan.AccessRule{RestrictedBefore: clock("06:00")}}))
	assert.False(t, PathIsTimeDependent(floorplan.Path{}))
}
