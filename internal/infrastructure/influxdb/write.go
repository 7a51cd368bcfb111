package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementRouteQueries     = "route_queries"
	MeasurementFloorPlanChanges = "floorplan_changes"
)

// Route query outcomes used as the outcome tag.
const (
	OutcomeOK = "ok"
)

// RouteMetric describes one route query.
type RouteMetric struct {
	From     string
	To       string
	Outcome  string // OutcomeOK or an error kind
	Distance float64
	Steps    int
	Duration time.Duration
	At       time.Time
}

// ChangeMetric describes one gate or path state change.
type ChangeMetric struct {
	Kind   string // gate or path
	ID     string
	Active bool // gate open, or path blocked
	At     time.Time
}

// WriteRouteMetric queues a route_queries point. Dropped when not connected.
func (c *Client) WriteRouteMetric(m RouteMetric) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(routePoint(m))
}

// WriteChangeMetric queues a floorplan_changes point. Dropped when not connected.
func (c *Client) WriteChangeMetric(m ChangeMetric) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(changePoint(m))
}

// WritePoint queues an arbitrary point stamped now.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}

func routePoint(m RouteMetric) *write.Point {
	at := m.At
	if at.IsZero() {
		at = time.Now()
	}
	outcome := m.Outcome
	if outcome == "" {
		outcome = OutcomeOK
	}
	return write.NewPoint(
		MeasurementRouteQueries,
		map[string]string{
			"outcome": outcome,
			"from":    m.From,
			"to":      m.To,
		},
		map[string]any{
			"distance":    m.Distance,
			"steps":       m.Steps,
			"duration_ms": float64(m.Duration.Microseconds()) / 1000,
		},
		at,
	)
}

func changePoint(m ChangeMetric) *write.Point {
	at := m.At
	if at.IsZero() {
		at = time.Now()
	}
	return write.NewPoint(
		MeasurementFloorPlanChanges,
		map[string]string{
			"kind": m.Kind,
			"id":   m.ID,
		},
		map[string]any{
			"active": m.Active,
		},
		at,
	)
}
