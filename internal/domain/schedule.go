package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// isoTimestamp matches an extended-format ISO-8601 date with an optional
// time part: two-digit hour, optional minutes and seconds, optional
// fraction, and an optional Z or ±hh[[:]mm] offset. Offsets are accepted
// but the clock hour is read as written.
var isoTimestamp = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})` +
		`(?:[T ](\d{2})(?::(\d{2})(?::(\d{2})(?:[.,]\d+)?)?)?` +
		`(Z|[+-](\d{2})(?::?(\d{2}))?)?)?$`)

// FormatError reports a schedule timestamp that is not an ISO-8601 date-time.
type FormatError struct {
	Field string
	Value string
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid timestamp %q: want ISO-8601 like 2025-09-20T08:30:00", e.Value)
	}
	return fmt.Sprintf("invalid %s %q: want ISO-8601 like 2025-09-20T08:30:00", e.Field, e.Value)
}

// HourOf returns the local clock hour (0-23) of an ISO-8601 timestamp.
// A date without a time part is hour 0.
func HourOf(timestamp string) (int, error) {
	hour, ok := parseHour(timestamp)
	if !ok {
		return 0, &FormatError{Value: timestamp}
	}
	return hour, nil
}

func parseHour(timestamp string) (int, bool) {
	m := isoTimestamp.FindStringSubmatch(timestamp)
	if m == nil {
		return 0, false
	}

	year, month, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if month < 1 || month > 12 || day < 1 {
		return 0, false
	}
	if date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC); date.Day() != day {
		return 0, false
	}

	hour := atoi(m[4])
	switch {
	case hour > 23, atoi(m[5]) > 59, atoi(m[6]) > 59:
		return 0, false
	case atoi(m[8]) > 23, atoi(m[9]) > 59:
		return 0, false
	}
	return hour, true
}

// atoi parses a digits-only capture; an empty capture is 0.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
