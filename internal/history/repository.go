package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500

	// topN bounds the destination and error tallies in a Summary.
	topN = 10

	// timeLayout has fixed width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000Z"
)

// SQLiteRepository implements Repository on the route_history table.
type SQLiteRepository struct {
	db  *sql.DB
	loc *time.Location
}

// NewSQLiteRepository creates a repository over db. Busy hours are bucketed
// in loc; nil means UTC.
func NewSQLiteRepository(db *sql.DB, loc *time.Location) *SQLiteRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &SQLiteRepository{db: db, loc: loc}
}

// Record inserts a history entry.
func (r *SQLiteRepository) Record(ctx context.Context, e Entry) error {
	if e.From == "" || e.To == "" {
		return fmt.Errorf("from and to are required")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.RequestedAt.IsZero() {
		e.RequestedAt = time.Now()
	}

	pathIDs, err := marshalList(e.PathIDs)
	if err != nil {
		return fmt.Errorf("marshalling path ids: %w", err)
	}
	warnings, err := marshalList(e.Warnings)
	if err != nil {
		return fmt.Errorf("marshalling warnings: %w", err)
	}

	var errorKind sql.NullString
	if e.ErrorKind != "" {
		errorKind = sql.NullString{String: e.ErrorKind, Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO route_history
		 (id, from_room, to_room, requested_at, successful, total_distance, total_seconds,
		  step_count, path_ids, warnings, error_kind, duration_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.From,
		e.To,
		e.RequestedAt.UTC().Format(timeLayout),
		boolToInt(e.Successful),
		e.TotalDistance,
		e.TotalSeconds,
		e.StepCount,
		pathIDs,
		warnings,
		errorKind,
		e.Duration.Microseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting route history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first (default 50, max 500).
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, from_room, to_room, requested_at, successful, total_distance, total_seconds,
		        step_count, path_ids, warnings, error_kind, duration_us
		 FROM route_history
		 ORDER BY requested_at DESC, id
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying route history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e              Entry
			requestedAt    string
			successful     int
			pathIDs        string
			warnings       string
			errorKind      sql.NullString
			durationMicros int64
		)
		if err := rows.Scan(&e.ID, &e.From, &e.To, &requestedAt, &successful, &e.TotalDistance,
			&e.TotalSeconds, &e.StepCount, &pathIDs, &warnings, &errorKind, &durationMicros); err != nil {
			return nil, fmt.Errorf("scanning route history: %w", err)
		}

		if e.RequestedAt, err = parseTimestamp(requestedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(pathIDs), &e.PathIDs); err != nil {
			return nil, fmt.Errorf("unmarshalling path ids: %w", err)
		}
		if err := json.Unmarshal([]byte(warnings), &e.Warnings); err != nil {
			return nil, fmt.Errorf("unmarshalling warnings: %w", err)
		}
		e.Successful = successful != 0
		e.ErrorKind = errorKind.String
		e.Duration = time.Duration(durationMicros) * time.Microsecond

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating route history: %w", err)
	}
	return entries, nil
}

// Summary aggregates entries requested at or after since.
func (r *SQLiteRepository) Summary(ctx context.Context, since time.Time) (*Summary, error) {
	cutoff := since.UTC().Format(timeLayout)
	s := &Summary{
		Since:               since,
		PopularDestinations: []Count{},
		BusyHours:           []HourCount{},
		ErrorTypes:          []Count{},
	}

	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(successful), 0),
		        AVG(CASE WHEN successful = 1 THEN total_distance END)
		 FROM route_history WHERE requested_at >= ?`,
		cutoff,
	).Scan(&s.TotalSearches, &s.SuccessfulSearches, &avg)
	if err != nil {
		return nil, fmt.Errorf("counting route history: %w", err)
	}
	s.AverageDistance = avg.Float64

	if s.PopularDestinations, err = r.tally(ctx,
		`SELECT to_room, COUNT(*) AS n FROM route_history
		 WHERE requested_at >= ? AND successful = 1
		 GROUP BY to_room ORDER BY n DESC, to_room LIMIT ?`, cutoff); err != nil {
		return nil, fmt.Errorf("tallying destinations: %w", err)
	}
	if s.ErrorTypes, err = r.tally(ctx,
		`SELECT error_kind, COUNT(*) AS n FROM route_history
		 WHERE requested_at >= ? AND successful = 0 AND error_kind IS NOT NULL
		 GROUP BY error_kind ORDER BY n DESC, error_kind LIMIT ?`, cutoff); err != nil {
		return nil, fmt.Errorf("tallying errors: %w", err)
	}
	if s.BusyHours, err = r.busyHours(ctx, cutoff); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteRepository) tally(ctx context.Context, query, cutoff string) ([]Count, error) {
	rows, err := r.db.QueryContext(ctx, query, cutoff, topN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Count{}
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// busyHours buckets searches by local hour of day, busiest first.
func (r *SQLiteRepository) busyHours(ctx context.Context, cutoff string) ([]HourCount, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT requested_at FROM route_history WHERE requested_at >= ?", cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying busy hours: %w", err)
	}
	defer rows.Close()

	var counts [24]int
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning busy hours: %w", err)
		}
		ts, err := parseTimestamp(raw)
		if err != nil {
			return nil, err
		}
		counts[ts.In(r.loc).Hour()]++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating busy hours: %w", err)
	}

	out := []HourCount{}
	for h, n := range counts {
		if n > 0 {
			out = append(out, HourCount{Hour: h, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// Prune deletes entries older than olderThan and returns the number removed.
func (r *SQLiteRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(timeLayout)
	result, err := r.db.ExecContext(ctx, "DELETE FROM route_history WHERE requested_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting route history: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	return string(b), err
}

func parseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(timeLayout, value)
	if err == nil {
		return ts, nil
	}
	if fallback, fallbackErr := time.Parse(time.RFC3339, value); fallbackErr == nil {
		return fallback, nil
	}
	return time.Time{}, fmt.Errorf("parsing requested_at: %w", err)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
