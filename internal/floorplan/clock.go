package floorplan

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const minutesPerDay = 24 * 60

// Clock is a time of day in minutes since midnight, written as "HH:MM".
type Clock int

// ParseClock parses "HH:MM" (24-hour). "24:00" is accepted as end of day.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(h*60 + m), nil
}

// MustClock is ParseClock for literals; it panics on bad input.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf returns the time of day of t in t's location.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

// Hour returns the hour component.
func (c Clock) Hour() int {
	return int(c) / 60
}

// Minute returns the minute component.
func (c Clock) Minute() int {
	return int(c) % 60
}

// On returns the wall-clock time c on the given day in loc.
func (c Clock) On(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, loc)
}

// String formats as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// UnmarshalYAML reads "HH:MM".
func (c *Clock) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML writes "HH:MM".
func (c Clock) MarshalYAML() (any, error) {
	return c.String(), nil
}

// MarshalText writes "HH:MM"; encoding/json uses it for keys and values.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText reads "HH:MM".
func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Weekday wraps time.Weekday with short-name text encoding ("mon", "tue", ...).
type Weekday time.Weekday

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekday accepts short or long English day names, case-insensitive.
func ParseWeekday(s string) (Weekday, error) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
	}
	return Weekday(d), nil
}

// String returns the three-letter lower-case name.
func (d Weekday) String() string {
	return strings.ToLower(time.Weekday(d).String()[:3])
}

// MarshalText writes the short name.
func (d Weekday) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalYAML reads a day name.
func (d *Weekday) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// UnmarshalText reads a day name.
func (d *Weekday) UnmarshalText(b []byte) error {
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeWindow is a daily time range, optionally limited to certain days.
// When Start > End the window wraps past midnight; the day check then
// applies to the day the window started.
type TimeWindow struct {
	Start Clock     `yaml:"start" json:"start"`
	End   Clock     `yaml:"end" json:"end"`
	Days  []Weekday `yaml:"days,omitempty" json:"days,omitempty"`
}

// Contains reports whether t (already in the site's location) falls inside the window.
// Start is inclusive and End exclusive, so a window with Start == End never
// matches; Validate rejects such windows.
func (w TimeWindow) Contains(t time.Time) bool {
	now := ClockOf(t)
	day := Weekday(t.Weekday())

	if w.Start <= w.End {
		return now >= w.Start && now < w.End && w.onDay(day)
	}
	// Overnight: the late part belongs to today, the early part to yesterday.
	if now >= w.Start {
		return w.onDay(day)
	}
	if now < w.End {
		return w.onDay((day + 6) % 7)
	}
	return false
}

func (w TimeWindow) onDay(d Weekday) bool {
	if len(w.Days) == 0 {
		return true
	}
	for _, allowed := range w.Days {
		if allowed == d {
			return true
		}
	}
	return false
}
