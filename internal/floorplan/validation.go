package floorplan

import (
	"fmt"
	"strings"
)

const maxIDLength = 100

// Validate checks the structural invariants of a floor plan and reports every
// problem it finds in one error wrapping ErrInvalidFloorPlan.
//
// It enforces:
//   - room and gate IDs are present and unique
//   - every room has at least one gate and each resolves to a declared gate
//   - every path endpoint resolves to a gate or a special area
//   - path distances are strictly positive
//   - hour windows are in range and open before they close
//   - time windows are not empty (start equal to end)
//   - directions are in, out or both
//
// Shared gates between rooms and duplicate edges are accepted as-is.
func Validate(fp *FloorPlan) error {
	if fp == nil {
		return fmt.Errorf("%w: nil floor plan", ErrInvalidFloorPlan)
	}

	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	nodes := make(map[string]bool, len(fp.Gates)+len(fp.SpecialAreas))

	gateIDs := make(map[string]bool, len(fp.Gates))
	for i, g := range fp.Gates {
		if err := validateID(g.ID); err != nil {
			add("gates[%d]: %v", i, err)
			continue
		}
		if gateIDs[g.ID] {
			add("gate %q declared more than once", g.ID)
		}
		gateIDs[g.ID] = true
		nodes[g.ID] = true

		if g.Radius < 0 {
			add("gate %q: radius must not be negative", g.ID)
		}
		if tr := g.TimeRestriction; tr != nil {
			if tr.OpenHour < 0 || tr.OpenHour > 24 || tr.CloseHour < 0 || tr.CloseHour > 24 {
				add("gate %q: time_restriction hours must be within 0-24", g.ID)
			} else if tr.OpenHour >= tr.CloseHour {
				add("gate %q: time_restriction open_hour must be before close_hour", g.ID)
			}
		}
		if err := validateWindows("opening_hours", g.OpeningHours); err != nil {
			add("gate %q: %v", g.ID, err)
		}
		if err := validateRule(g.AccessRule); err != nil {
			add("gate %q: %v", g.ID, err)
		}
	}

	for i, a := range fp.SpecialAreas {
		if err := validateID(a.ID); err != nil {
			add("special_areas[%d]: %v", i, err)
			continue
		}
		if gateIDs[a.ID] {
			add("special area %q collides with a gate id", a.ID)
		}
		nodes[a.ID] = true
	}

	roomIDs := make(map[string]bool, len(fp.Rooms))
	for i, r := range fp.Rooms {
		if err := validateID(r.ID); err != nil {
			add("rooms[%d]: %v", i, err)
			continue
		}
		if roomIDs[r.ID] {
			add("room %q declared more than once", r.ID)
		}
		roomIDs[r.ID] = true

		if strings.TrimSpace(r.Name) == "" {
			add("room %q: name is required", r.ID)
		}
		if r.Geometry.Kind() == "" {
			add("room %q: geometry is required", r.ID)
		} else if b := r.Geometry.Bounds(); b.Width <= 0 || b.Height <= 0 {
			add("room %q: geometry has no area", r.ID)
		}
		if len(r.Gates) == 0 {
			add("room %q: at least one gate is required", r.ID)
		}
		for _, gid := range r.Gates {
			if !gateIDs[gid] {
				add("room %q: gate %q is not declared", r.ID, gid)
			}
		}
	}

	for i, p := range fp.Paths {
		if err := validateID(p.ID); err != nil {
			add("paths[%d]: %v", i, err)
			continue
		}
		if !nodes[p.From] {
			add("path %q: from %q is not a gate or special area", p.ID, p.From)
		}
		if !nodes[p.To] {
			add("path %q: to %q is not a gate or special area", p.ID, p.To)
		}
		if !(p.Distance > 0) {
			add("path %q: distance must be positive", p.ID)
		}
		if err := validateRule(p.AccessRule); err != nil {
			add("path %q: %v", p.ID, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFloorPlan, strings.Join(errs, "; "))
	}
	return nil
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id is required")
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("id exceeds %d characters", maxIDLength)
	}
	return nil
}

func validateRule(r *AccessRule) error {
	if r == nil {
		return nil
	}
	switch r.AllowedDirections {
	case "", DirectionIn, DirectionOut, DirectionBoth:
	default:
		return fmt.Errorf("allowed_directions %q must be in, out or both", r.AllowedDirections)
	}
	return validateWindows("allowed_times", r.AllowedTimes)
}

// validateWindows rejects windows whose start equals their end, which
// would never match.
func validateWindows(field string, windows []TimeWindow) error {
	for i, w := range windows {
		if w.Start == w.End {
			return fmt.Errorf("%s[%d]: start and end must differ", field, i)
		}
	}
	return nil
}
