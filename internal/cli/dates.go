// Package cli holds small parsers shared by command flags.
package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches "90d", "2w ago", "6mo", "12h ago".
var agoPattern = regexp.MustCompile(`^(\d+)\s*(mo|y|w|d|h|m)(?:\s+ago)?$`)

// ParsePast turns a point-in-time expression into an instant at or before now.
// It accepts "today", "yesterday", durations like "30d" or "2w ago",
// dates (2006-01-02) and RFC3339 timestamps.
func ParsePast(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	input := strings.ToLower(raw)

	switch input {
	case "now":
		return now, nil
	case "today":
		return midnight(now), nil
	case "yesterday":
		return midnight(now).AddDate(0, 0, -1), nil
	}

	if m := agoPattern.FindStringSubmatch(input); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return time.Time{}, fmt.Errorf("invalid time expression %q", raw)
		}
		return subtract(now, n, m[2]), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time expression %q: use e.g. 30d, 2w ago, yesterday or 2024-01-31", raw)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func subtract(now time.Time, n int, unit string) time.Time {
	switch unit {
	case "y":
		return now.AddDate(-n, 0, 0)
	case "mo":
		return now.AddDate(0, -n, 0)
	case "w":
		return now.AddDate(0, 0, -7*n)
	case "d":
		return now.AddDate(0, 0, -n)
	case "h":
		return now.Add(-time.Duration(n) * time.Hour)
	default:
		return now.Add(-time.Duration(n) * time.Minute)
	}
}
