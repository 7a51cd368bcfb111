package history

import (
	"context"
	"time"
)

// Entry is one logged route query.
type Entry struct {
	ID            string        `json:"id"`
	From          string        `json:"from"`
	To            string        `json:"to"`
	RequestedAt   time.Time     `json:"requested_at"`
	Successful    bool          `json:"successful"`
	TotalDistance float64       `json:"total_distance"`
	TotalSeconds  int           `json:"total_seconds"`
	StepCount     int           `json:"step_count"`
	PathIDs       []string      `json:"path_ids"`
	Warnings      []string      `json:"warnings"`
	ErrorKind     string        `json:"error_kind,omitempty"`
	Duration      time.Duration `json:"-"`
}

// Count is a keyed tally.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// HourCount is the number of searches in one hour of the day.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// Summary aggregates history since a point in time.
type Summary struct {
	Since               time.Time   `json:"since"`
	TotalSearches       int         `json:"total_searches"`
	SuccessfulSearches  int         `json:"successful_searches"`
	AverageDistance     float64     `json:"average_distance"`
	PopularDestinations []Count     `json:"popular_destinations"`
	BusyHours           []HourCount `json:"busy_hours"`
	ErrorTypes          []Count     `json:"error_types"`
}

// Repository stores and queries route history.
type Repository interface {
	// Record stores e. An empty ID is filled in.
	Record(ctx context.Context, e Entry) error

	// Recent returns the newest entries first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Summary aggregates entries requested at or after since.
	Summary(ctx context.Context, since time.Time) (*Summary, error)
}
