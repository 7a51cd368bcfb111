// Package telemetry turns wayfinding events into time-series points.
package telemetry

import (
	"github.com/nerrad567/wayfinder-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/wayfinder-core/internal/wayfinding"
)

// Writer is the subset of *influxdb.Client used here.
type Writer interface {
	WriteRouteMetric(m influxdb.RouteMetric)
	WriteChangeMetric(m influxdb.ChangeMetric)
}

// Recorder writes one point per route outcome or state change.
type Recorder struct {
	w Writer
}

// NewRecorder creates a Recorder over w.
func NewRecorder(w Writer) *Recorder {
	return &Recorder{w: w}
}

// Listen is a wayfinding.Listener.
func (r *Recorder) Listen(ev wayfinding.Event) {
	switch ev.Type {
	case wayfinding.EventRouteComputed, wayfinding.EventRouteFailed:
		if ev.Query == nil {
			return
		}
		m := influxdb.RouteMetric{
			From:     ev.Query.From,
			To:       ev.Query.To,
			Outcome:  influxdb.OutcomeOK,
			Duration: ev.Duration,
			At:       ev.Timestamp,
		}
		if ev.Route != nil {
			m.Distance = ev.Route.TotalDistance
			m.Steps = len(ev.Route.Steps)
		} else {
			m.Outcome = ev.ErrorKind
		}
		r.w.WriteRouteMetric(m)

	case wayfinding.EventFloorPlanUpdated:
		c := ev.Change
		if c == nil {
			return
		}
		m := influxdb.ChangeMetric{Kind: c.Kind, ID: c.ID, At: ev.Timestamp}
		switch {
		case c.IsOpen != nil:
			m.Active = *c.IsOpen
		case c.IsBlocked != nil:
			m.Active = *c.IsBlocked
		default:
			return
		}
		r.w.WriteChangeMetric(m)
	}
}
