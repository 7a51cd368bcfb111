package floorplan

// RoomType categorises a destination.
type RoomType string

// Known room types. Floor plans may use others.
const (
	RoomClassroom RoomType = "classroom"
	RoomOffice    RoomType = "office"
	RoomLibrary   RoomType = "library"
	RoomToilet    RoomType = "toilet"
	RoomStairs    RoomType = "stairs"
	RoomCorridor  RoomType = "corridor"
)

// GateType categorises a gate.
type GateType string

// Gate types.
const (
	GateMain     GateType = "main"
	GateRoom     GateType = "room"
	GateLibrary  GateType = "library"
	GateCorridor GateType = "corridor"
	GateStairs   GateType = "stairs"
	GateToilet   GateType = "toilet"
	GateService  GateType = "service"
)

// PathType categorises an edge.
type PathType string

// Path types.
const (
	PathCorridor   PathType = "corridor"
	PathStairs     PathType = "stairs"
	PathOutdoor    PathType = "outdoor"
	PathFastTravel PathType = "fast-travel"
	PathEmergency  PathType = "emergency"
)

// Direction is the traversal direction allowed through a gate.
type Direction string

// Directions. An empty Direction behaves as DirectionBoth.
const (
	DirectionIn   Direction = "in"
	DirectionOut  Direction = "out"
	DirectionBoth Direction = "both"
)

// FloorPlan is a complete single-floor building description.
type FloorPlan struct {
	ID           string        `yaml:"id" json:"id"`
	Name         string        `yaml:"name" json:"name"`
	ViewBox      Rect          `yaml:"view_box" json:"view_box"`
	Rooms        []Room        `yaml:"rooms" json:"rooms"`
	Gates        []Gate        `yaml:"gates" json:"gates"`
	Paths        []Path        `yaml:"paths" json:"paths"`
	SpecialAreas []SpecialArea `yaml:"special_areas" json:"special_areas,omitempty"`
}

// Room is a named destination. Gates[0] is the primary gate.
type Room struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Type     RoomType `yaml:"type" json:"type"`
	Geometry Geometry `yaml:"geometry" json:"geometry"`
	Gates    []string `yaml:"gates" json:"gates"`
}

// PrimaryGate returns the routing gate, or "" when the room has none.
func (r Room) PrimaryGate() string {
	if len(r.Gates) == 0 {
		return ""
	}
	return r.Gates[0]
}

// Gate is a door, threshold or junction and a node in the routing graph.
type Gate struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Type     GateType `yaml:"type" json:"type"`
	Position Point    `yaml:"position" json:"position"`
	Radius   float64  `yaml:"radius" json:"radius"`
	IsOpen   bool     `yaml:"is_open" json:"is_open"`

	// TimeRestriction is a coarse hour-granularity window.
	TimeRestriction *HourWindow `yaml:"time_restriction,omitempty" json:"time_restriction,omitempty"`

	// OpeningHours lists windows during which the gate is usable.
	// Empty means no opening-hours limit.
	OpeningHours []TimeWindow `yaml:"opening_hours,omitempty" json:"opening_hours,omitempty"`

	AccessRule *AccessRule `yaml:"access_rule,omitempty" json:"access_rule,omitempty"`
	ConnectsTo []string    `yaml:"connects_to,omitempty" json:"connects_to,omitempty"`
}

// Path is an undirected weighted edge between two gates or special areas.
type Path struct {
	ID          string      `yaml:"id" json:"id"`
	From        string      `yaml:"from" json:"from"`
	To          string      `yaml:"to" json:"to"`
	Distance    float64     `yaml:"distance" json:"distance"`
	Type        PathType    `yaml:"type" json:"type"`
	Polyline    []Point     `yaml:"polyline,omitempty" json:"polyline,omitempty"`
	IsBlocked   bool        `yaml:"is_blocked" json:"is_blocked"`
	BlockReason string      `yaml:"block_reason,omitempty" json:"block_reason,omitempty"`
	AccessRule  *AccessRule `yaml:"access_rule,omitempty" json:"access_rule,omitempty"`
}

// Connects reports whether the path joins a and b in either direction.
func (p Path) Connects(a, b string) bool {
	return (p.From == a && p.To == b) || (p.From == b && p.To == a)
}

// HourWindow is an integer hour range, open when OpenHour <= hour < CloseHour.
type HourWindow struct {
	OpenHour  int `yaml:"open_hour" json:"open_hour"`
	CloseHour int `yaml:"close_hour" json:"close_hour"`
}

// AccessRule is the richer time and direction policy shared by gates and paths.
type AccessRule struct {
	TimeDependent     bool         `yaml:"time_dependent" json:"time_dependent"`
	RestrictedAfter   *Clock       `yaml:"restricted_after,omitempty" json:"restricted_after,omitempty"`
	RestrictedBefore  *Clock       `yaml:"restricted_before,omitempty" json:"restricted_before,omitempty"`
	AllowedDirections Direction    `yaml:"allowed_directions,omitempty" json:"allowed_directions,omitempty"`
	AllowedTimes      []TimeWindow `yaml:"allowed_times,omitempty" json:"allowed_times,omitempty"`
}

// SpecialArea is a named zone that can be a path endpoint without being a gate.
type SpecialArea struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Type       string `yaml:"type,omitempty" json:"type,omitempty"`
	Bounds     Rect   `yaml:"bounds" json:"bounds"`
	FastTravel bool   `yaml:"fast_travel" json:"fast_travel"`
}
