package utils

import (
	"strings"
	"time"
)

// dateLayouts are the calendar-date shapes seen in task-manager CSV
// exports. The unpadded layouts also accept zero-padded values.
var dateLayouts = []string{
	"2006/1/2",
	"2006-1-2",
	"2006.1.2",
}

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseFlexibleDate parses a calendar date in any of the supported
// layouts and returns it anchored at midnight UTC. The boolean reports
// whether the value matched a known layout.
func ParseFlexibleDate(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MidnightUTC truncates a time to the start of its UTC day.
func MidnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
