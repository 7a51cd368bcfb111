package floorplan

import (
	"sort"
	"strings"
)

// RoomByID returns the room with the given id.
func (fp *FloorPlan) RoomByID(id string) (Room, bool) {
	for _, r := range fp.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

// GateByID returns the gate with the given id.
func (fp *FloorPlan) GateByID(id string) (Gate, bool) {
	for _, g := range fp.Gates {
		if g.ID == id {
			return g, true
		}
	}
	return Gate{}, false
}

// PathByID returns the first path with the given id.
func (fp *FloorPlan) PathByID(id string) (Path, bool) {
	for _, p := range fp.Paths {
		if p.ID == id {
			return p, true
		}
	}
	return Path{}, false
}

// SpecialAreaByID returns the special area with the given id.
func (fp *FloorPlan) SpecialAreaByID(id string) (SpecialArea, bool) {
	for _, a := range fp.SpecialAreas {
		if a.ID == id {
			return a, true
		}
	}
	return SpecialArea{}, false
}

// SearchRooms returns rooms whose name, id or type contains query,
// case-insensitively. A blank query returns every room.
func SearchRooms(rooms []Room, query string) []Room {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return append([]Room(nil), rooms...)
	}

	var out []Room
	for _, r := range rooms {
		if strings.Contains(strings.ToLower(r.Name), term) ||
			strings.Contains(strings.ToLower(r.ID), term) ||
			strings.Contains(strings.ToLower(string(r.Type)), term) {
			out = append(out, r)
		}
	}
	return out
}

// FilterRoomsByType keeps rooms whose type is one of types.
// No types returns every room.
func FilterRoomsByType(rooms []Room, types ...RoomType) []Room {
	if len(types) == 0 {
		return append([]Room(nil), rooms...)
	}
	want := make(map[RoomType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}

	var out []Room
	for _, r := range rooms {
		if want[r.Type] {
			out = append(out, r)
		}
	}
	return out
}

// SortRoomsByName returns a copy ordered by case-insensitive name.
func SortRoomsByName(rooms []Room) []Room {
	out := append([]Room(nil), rooms...)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// SortRoomsByType returns a copy ordered by type, then name.
func SortRoomsByType(rooms []Room) []Room {
	out := append([]Room(nil), rooms...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
