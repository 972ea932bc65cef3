package utils

import "time"

// FormatTimestamp renders a timestamp for API responses
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
