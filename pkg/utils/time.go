package utils

import "time"

// FormatRFC3339 renders a timestamp for API responses. Externally visible
// times are always UTC.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
