package utils

import "time"

// FormatTime formats a time to RFC3339 with nanosecond precision, the
// format used for all persisted timestamps.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime parses a timestamp produced by FormatTime. It also accepts
// plain RFC3339 for records written by older builds.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
