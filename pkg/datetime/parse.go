// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/iwvelando/finance-suggest/pkg/constants"
)

const (
	// DateLayout is the format expected in config files and is also the output
	// date format.
	DateLayout = constants.DateLayout
)

// timestampLayouts carry a clock component; dateLayouts do not. ParseDate tries
// timestamps first.
var (
	timestampLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	dateLayouts = []string{
		DateLayout,
		"2006/01/02",
		"02 Jan 2006",
		"Jan 2, 2006",
		"January 2, 2006",
	}
)

// ParseDate parses a calendar date or timestamp in any of the accepted layouts.
// A bare calendar date is midnight UTC.
func ParseDate(value string) (time.Time, error) {
	t, _, err := parse(value)
	return t, err
}

// ParseEvaluationTime parses an evaluation instant. A bare calendar date means
// the last nanosecond of that day, so transactions dated that day are in range.
func ParseEvaluationTime(value string) (time.Time, error) {
	t, dateOnly, err := parse(value)
	if err != nil {
		return time.Time{}, err
	}
	if dateOnly {
		return EndOfDay(t), nil
	}
	return t, nil
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func parse(value string) (time.Time, bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false, fmt.Errorf("date cannot be empty")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, false, nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized date %q", value)
}

// WithinWindow reports whether date falls in [now - days, now].
func WithinWindow(date, now time.Time, days int) bool {
	lower := now.AddDate(0, 0, -days)
	return !date.Before(lower) && !date.After(now)
}

// MonthsUntil converts the time left until target into whole months of
// daysPerMonth days, rounding up and never returning less than 1.
func MonthsUntil(now, target time.Time, daysPerMonth int) int {
	if daysPerMonth <= 0 {
		daysPerMonth = constants.DaysPerMonth
	}
	days := target.Sub(now).Hours() / 24
	months := int(math.Ceil(days / float64(daysPerMonth)))
	if months < 1 {
		return 1
	}
	return months
}
