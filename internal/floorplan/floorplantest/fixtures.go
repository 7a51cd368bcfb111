// Package floorplantest provides small floor plans for tests.
package floorplantest

import "github.com/nerrad567/wayfinder-core/internal/floorplan"

// Corridor builds the canonical three-room test building:
//
//	gate-1 --25-- gate-corridor --30-- gate-2
//	                   |
//	                  280
//	                   |
//	             gate-library
//
// plus room-isolated whose gate has no paths at all. The library gate is
// open 08:00-22:00 and restricted after 22:00.
func Corridor() *floorplan.FloorPlan {
	after := floorplan.MustClock("22:00")
	return &floorplan.FloorPlan{
		ID:      "test-building",
		Name:    "Test Building",
		ViewBox: floorplan.Rect{Width: 400, Height: 400},
		Rooms: []floorplan.Room{
			{ID: "room-1", Name: "Test Room 1", Type: floorplan.RoomClassroom, Geometry: floorplan.NewRect(0, 0, 50, 50), Gates: []string{"gate-1"}},
			{ID: "room-2", Name: "Test Room 2", Type: floorplan.RoomClassroom, Geometry: floorplan.NewRect(100, 0, 50, 50), Gates: []string{"gate-2"}},
			{ID: "test-library", Name: "Test Library", Type: floorplan.RoomLibrary, Geometry: floorplan.NewPolygon(
				floorplan.Point{X: 300, Y: 300}, floorplan.Point{X: 400, Y: 300}, floorplan.Point{X: 400, Y: 400}, floorplan.Point{X: 300, Y: 400},
			), Gates: []string{"gate-library"}},
			{ID: "room-isolated", Name: "Isolated Store", Type: floorplan.RoomOffice, Geometry: floorplan.NewRect(200, 0, 20, 20), Gates: []string{"gate-isolated"}},
		},
		Gates: []floorplan.Gate{
			{ID: "gate-1", Name: "Gate 1", Type: floorplan.GateRoom, Position: floorplan.Point{X: 50, Y: 25}, Radius: 5, IsOpen: true},
			{ID: "gate-2", Name: "Gate 2", Type: floorplan.GateRoom, Position: floorplan.Point{X: 100, Y: 25}, Radius: 5, IsOpen: true},
			{ID: "gate-corridor", Name: "Corridor Junction", Type: floorplan.GateCorridor, Position: floorplan.Point{X: 75, Y: 100}, Radius: 8, IsOpen: true},
			{
				ID: "gate-library", Name: "Library Gate", Type: floorplan.GateLibrary, Position: floorplan.Point{X: 300, Y: 350}, Radius: 5, IsOpen: true,
				OpeningHours: []floorplan.TimeWindow{{Start: floorplan.MustClock("08:00"), End: floorplan.MustClock("22:00")}},
				AccessRule:   &floorplan.AccessRule{TimeDependent: true, RestrictedAfter: &after},
			},
			{ID: "gate-isolated", Name: "Store Gate", Type: floorplan.GateService, Position: floorplan.Point{X: 210, Y: 20}, Radius: 5, IsOpen: true},
		},
		Paths: []floorplan.Path{
			{ID: "path-1-corridor", From: "gate-1", To: "gate-corridor", Distance: 25, Type: floorplan.PathCorridor},
			{ID: "path-2-corridor", From: "gate-2", To: "gate-corridor", Distance: 30, Type: floorplan.PathCorridor},
			{ID: "path-corridor-library", From: "gate-corridor", To: "gate-library", Distance: 280, Type: floorplan.PathCorridor},
		},
	}
}
