package audit

import (
	"context"
	"time"

	"github.com/nerrad567/wayfinder-core/internal/wayfinding"
)

const recordTimeout = 2 * time.Second

// Logger is the logging interface used by the Recorder.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Recorder writes floorplan.updated events to a Repository.
type Recorder struct {
	repo   Repository
	logger Logger
}

// NewRecorder creates a Recorder. A nil logger discards write failures.
func NewRecorder(repo Repository, logger Logger) *Recorder {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Recorder{repo: repo, logger: logger}
}

// Listen is a wayfinding.Listener. Route events are ignored.
func (r *Recorder) Listen(ev wayfinding.Event) {
	log, ok := FromEvent(ev)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.repo.Create(ctx, log); err != nil {
		r.logger.Warn("recording audit log failed", "entity_type", log.EntityType, "entity_id", log.EntityID, "error", err)
	}
}

// FromEvent converts a floorplan.updated event into an audit entry.
func FromEvent(ev wayfinding.Event) (*AuditLog, bool) {
	if ev.Type != wayfinding.EventFloorPlanUpdated || ev.Change == nil {
		return nil, false
	}
	c := ev.Change

	log := &AuditLog{
		EntityType: c.Kind,
		EntityID:   c.ID,
		CreatedAt:  ev.Timestamp,
	}

	switch {
	case c.IsOpen != nil:
		log.Action = ActionClose
		if *c.IsOpen {
			log.Action = ActionOpen
		}
	case c.IsBlocked != nil:
		log.Action = ActionUnblock
		if *c.IsBlocked {
			log.Action = ActionBlock
		}
		if c.Reason != "" {
			log.Details = map[string]any{"reason": c.Reason}
		}
	case c.Kind == wayfinding.ChangeFloorPlan:
		log.Action = ActionReplace
	default:
		return nil, false
	}
	return log, true
}
