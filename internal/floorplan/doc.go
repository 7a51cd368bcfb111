// Package floorplan models a single-floor building as rooms, gates and paths.
//
// A FloorPlan is the declarative input to the routing engine. It is loaded
// from YAML once at startup, validated, and then treated as read-only: state
// changes such as opening a gate or blocking a path produce a modified copy
// (WithGateOpen, WithPathBlocked) that replaces the old plan wholesale.
//
// Rooms own an ordered list of gate IDs; the first is the primary gate used
// as the routing endpoint. Gates are graph nodes. Paths are undirected,
// weighted edges between two gates or between a gate and a declared
// special area.
//
// Sample data is allowed to be untidy. Two rooms may share a gate and
// duplicate paths between the same pair are accepted; nothing here tries
// to repair them.
package floorplan
