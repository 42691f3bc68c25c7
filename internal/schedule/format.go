// Package schedule converts game timestamps into the day and time labels shown
// on the games board.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DefaultGameDuration is used when no duration is configured.
const DefaultGameDuration = 2 * time.Hour

// Days lists the weekday keys in board order. Weeks start on Monday.
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DayAbbreviations is index-aligned with Days.
var DayAbbreviations = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// DefaultDay is selected before the visitor picks one.
const DefaultDay = "monday"

// Layouts tried after RFC3339. Timestamps without an offset are wall-clock
// times in the board's location; a bare date is midnight UTC.
const (
	localTimestampLayout = "2006-01-02T15:04:05.999999999"
	localMinuteLayout    = "2006-01-02T15:04"
	dateLayout           = "2006-01-02"
)

// ParseGameTime parses an upstream ISO timestamp. Offset-less timestamps are
// read in loc.
func ParseGameTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("game time is required")
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err == nil {
		return parsed, nil
	}
	for _, layout := range []string{localTimestampLayout, localMinuteLayout} {
		if local, lerr := time.ParseInLocation(layout, raw, resolveLocation(loc)); lerr == nil {
			return local, nil
		}
	}
	if date, derr := time.Parse(dateLayout, raw); derr == nil {
		return date, nil
	}
	return time.Time{}, fmt.Errorf("parse game time %q: %w", raw, err)
}

// FormatTimeRange renders "7:00 PM - 9:00 PM" for a game starting at start.
func FormatTimeRange(start time.Time, duration time.Duration, loc *time.Location) string {
	if duration <= 0 {
		duration = DefaultGameDuration
	}
	start = start.In(resolveLocation(loc))
	end := start.Add(duration)
	return fmt.Sprintf("%s - %s", start.Format("3:04 PM"), end.Format("3:04 PM"))
}

// DayKey returns the lowercase weekday name of t in loc, e.g. "monday".
func DayKey(t time.Time, loc *time.Location) string {
	return strings.ToLower(t.In(resolveLocation(loc)).Weekday().String())
}

// DayAbbreviation returns "MON".."SUN" for t in loc.
func DayAbbreviation(t time.Time, loc *time.Location) string {
	return strings.ToUpper(t.In(resolveLocation(loc)).Format("Mon"))
}

// MonthDay returns the short month and day, e.g. "Oct 19".
func MonthDay(t time.Time) string {
	return t.Format("Jan 2")
}

// DayLabel capitalises a day key for display.
func DayLabel(key string) string {
	if key == "" {
		return ""
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

// IsDay reports whether key names one of the seven weekdays.
func IsDay(key string) bool {
	return DayIndex(key) >= 0
}

// DayIndex returns the position of key in Days, or -1.
func DayIndex(key string) int {
	key = strings.ToLower(strings.TrimSpace(key))
	for i, day := range Days {
		if day == key {
			return i
		}
	}
	return -1
}

// CurrentWeek returns the dates of the Monday-start week containing now.
// A Sunday belongs to the week that ends on it.
func CurrentWeek(now time.Time, loc *time.Location) []time.Time {
	now = now.In(resolveLocation(loc))
	offset := int(now.Weekday()) - int(time.Monday)
	if now.Weekday() == time.Sunday {
		offset = 6
	}
	monday := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())

	week := make([]time.Time, len(Days))
	for i := range week {
		week[i] = monday.AddDate(0, 0, i)
	}
	return week
}

// LoadLocation resolves a configured timezone name, falling back to local time.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

func resolveLocation(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
