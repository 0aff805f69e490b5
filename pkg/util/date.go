package util

import (
	"strconv"
	"time"
)

// DateLayout is the calendar-day layout used for price and dividend dates.
const DateLayout = "2006-01-02"

// ParseTime tries RFC3339, the plain date layout, and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// MonthsBefore returns the instant m calendar months before end.
func MonthsBefore(end time.Time, m int) time.Time {
	return end.AddDate(0, -m, 0)
}

// Day truncates a time to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
