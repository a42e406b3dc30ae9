package dateutil

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date key format used across all collections
const DateLayout = "2006-01-02"

// FormatDate formats t as "YYYY-MM-DD" using its own calendar fields.
// Completions are keyed by local-date strings, so this must never round-trip
// through UTC: a UTC-based formatter shifts the key near midnight in
// non-UTC zones.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a "YYYY-MM-DD" string in the given location
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return t, nil
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsToday reports whether t falls on the same calendar day as now
func IsToday(t, now time.Time) bool {
	return t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day()
}

// DayOfWeek returns t's weekday as a number (0=Sunday, 6=Saturday)
func DayOfWeek(t time.Time) int {
	return int(t.Weekday())
}

// DisplayWeekRange returns the Sunday-to-Saturday display week containing t:
// Sunday 00:00:00 through Saturday 23:59:59.999 in t's location. This is the
// dashboard convention and deliberately distinct from the Monday-based ISO
// numbering used by WeekID; the two must not be unified.
func DisplayWeekRange(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// DisplayWeekDays returns the 7 dates of t's display week, Sunday first
func DisplayWeekDays(t time.Time) []time.Time {
	start, _ := DisplayWeekRange(t)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// WeekID returns the ISO-8601 week identifier for t, e.g. "2024-W50".
// ISO weeks start on Monday and week 1 is the week containing the year's
// first Thursday, so the year here can differ from t.Year() at the edges.
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// LastWeekID returns the ISO week identifier for the week before t's
func LastWeekID(t time.Time) string {
	return WeekID(t.AddDate(0, 0, -7))
}

// RelativeTime renders t relative to now, e.g. "5m ago" or "3h ago".
// Anything older than a week falls back to the plain date.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return FormatDate(t)
	}
}
