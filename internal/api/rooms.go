package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/wayfinder-core/internal/floorplan"
)

// handleListRooms lists rooms, optionally searched by ?q= and filtered by
// ?type= (comma separated). ?sort=type orders by type, otherwise by name.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	engine := s.service.Engine()
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	var rooms []floorplan.Room
	if q != "" {
		rooms = engine.SearchRoomsByName(q)
	} else {
		rooms = slices.Clone(engine.FloorPlan().Rooms)
	}

	if raw := r.URL.Query().Get("type"); raw != "" {
		var types []floorplan.RoomType
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, floorplan.RoomType(t))
			}
		}
		rooms = floorplan.FilterRoomsByType(rooms, types...)
	}

	if r.URL.Query().Get("sort") == "type" {
		rooms = floorplan.SortRoomsByType(rooms)
	} else {
		rooms = floorplan.SortRoomsByName(rooms)
	}

	if rooms == nil {
		rooms = []floorplan.Room{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// handleGetRoom returns one room with its primary gate.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	engine := s.service.Engine()
	room, ok := engine.GetRoomByID(chi.URLParam(r, "id"))
	if !ok {
		writeNotFound(w, "room not found")
		return
	}

	resp := map[string]any{"room": room}
	if g, ok := engine.FloorPlan().GateByID(room.PrimaryGate()); ok {
		resp["gate"] = g
		resp["gate_status"] = s.service.Evaluator().GateStatus(g, s.now())
	}
	writeJSON(w, http.StatusOK, resp)
}
