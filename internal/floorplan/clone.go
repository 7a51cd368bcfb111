package floorplan

import "fmt"

// Clone returns a deep copy that shares no slices or pointers with fp.
func (fp *FloorPlan) Clone() *FloorPlan {
	if fp == nil {
		return nil
	}
	out := &FloorPlan{
		ID:           fp.ID,
		Name:         fp.Name,
		ViewBox:      fp.ViewBox,
		Rooms:        make([]Room, len(fp.Rooms)),
		Gates:        make([]Gate, len(fp.Gates)),
		Paths:        make([]Path, len(fp.Paths)),
		SpecialAreas: append([]SpecialArea(nil), fp.SpecialAreas...),
	}
	for i, r := range fp.Rooms {
		r.Gates = append([]string(nil), r.Gates...)
		if poly, ok := r.Geometry.Polygon(); ok {
			r.Geometry = NewPolygon(poly...)
		}
		out.Rooms[i] = r
	}
	for i, g := range fp.Gates {
		if g.TimeRestriction != nil {
			tr := *g.TimeRestriction
			g.TimeRestriction = &tr
		}
		g.OpeningHours = cloneWindows(g.OpeningHours)
		g.AccessRule = g.AccessRule.clone()
		g.ConnectsTo = append([]string(nil), g.ConnectsTo...)
		out.Gates[i] = g
	}
	for i, p := range fp.Paths {
		p.Polyline = append([]Point(nil), p.Polyline...)
		p.AccessRule = p.AccessRule.clone()
		out.Paths[i] = p
	}
	return out
}

func (r *AccessRule) clone() *AccessRule {
	if r == nil {
		return nil
	}
	c := *r
	if r.RestrictedAfter != nil {
		v := *r.RestrictedAfter
		c.RestrictedAfter = &v
	}
	if r.RestrictedBefore != nil {
		v := *r.RestrictedBefore
		c.RestrictedBefore = &v
	}
	c.AllowedTimes = cloneWindows(r.AllowedTimes)
	return &c
}

func cloneWindows(ws []TimeWindow) []TimeWindow {
	if ws == nil {
		return nil
	}
	out := make([]TimeWindow, len(ws))
	for i, w := range ws {
		w.Days = append([]Weekday(nil), w.Days...)
		out[i] = w
	}
	return out
}

// WithGateOpen returns a copy of fp with the gate's open flag set.
func (fp *FloorPlan) WithGateOpen(gateID string, open bool) (*FloorPlan, error) {
	out := fp.Clone()
	for i := range out.Gates {
		if out.Gates[i].ID == gateID {
			out.Gates[i].IsOpen = open
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrGateNotFound, gateID)
}

// WithPathBlocked returns a copy of fp with every path carrying pathID
// blocked or unblocked. Unblocking clears the reason.
func (fp *FloorPlan) WithPathBlocked(pathID string, blocked bool, reason string) (*FloorPlan, error) {
	out := fp.Clone()
	found := false
	for i := range out.Paths {
		if out.Paths[i].ID != pathID {
			continue
		}
		found = true
		out.Paths[i].IsBlocked = blocked
		if blocked {
			out.Paths[i].BlockReason = reason
		} else {
			out.Paths[i].BlockReason = ""
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, pathID)
	}
	return out, nil
}
