package utils

import "time"

// FromUnixSeconds returns the zero time for t <= 0 so callers decide how to render it.
func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).UTC()
}

// FormatLongDate renders dates the way mails show them, e.g. "Thursday, October 15, 2026".
func FormatLongDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatMonthDay renders e.g. "October 15, 2026".
func FormatMonthDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}
