package history

import (
	"context"
	"time"

	"github.com/nerrad567/wayfinder-core/internal/wayfinding"
)

const recordTimeout = 2 * time.Second

// Logger defines the logging interface used by the Recorder.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Recorder writes route events to a Repository.
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

// Listen is a wayfinding.Listener. Events other than route outcomes are ignored.
func (r *Recorder) Listen(ev wayfinding.Event) {
	e, ok := EntryFromEvent(ev)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.repo.Record(ctx, e); err != nil {
		r.logger.Warn("recording route history failed", "from", e.From, "to", e.To, "error", err)
	}
}

// EntryFromEvent converts a route.computed or route.failed event.
func EntryFromEvent(ev wayfinding.Event) (Entry, bool) {
	if ev.Query == nil {
		return Entry{}, false
	}

	e := Entry{
		From:        ev.Query.From,
		To:          ev.Query.To,
		RequestedAt: ev.Query.At,
		Duration:    ev.Duration,
	}

	switch ev.Type {
	case wayfinding.EventRouteComputed:
		if ev.Route == nil {
			return Entry{}, false
		}
		route := ev.Route
		e.ID = route.ID
		e.Successful = true
		e.TotalDistance = route.TotalDistance
		e.TotalSeconds = route.TotalSeconds
		e.StepCount = len(route.Steps)
		e.Warnings = route.Warnings
		for _, s := range route.Steps {
			if s.PathID != "" {
				e.PathIDs = append(e.PathIDs, s.PathID)
			}
		}
	case wayfinding.EventRouteFailed:
		e.ErrorKind = ev.ErrorKind
	default:
		return Entry{}, false
	}

	if e.From == "" || e.To == "" {
		return Entry{}, false
	}
	return e, true
}
