package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

func ParseDay(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DayLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", value, err)
	}
	return parsed, nil
}

func FormatDay(value time.Time) string {
	return value.Format(DayLayout)
}

// DefaultFromDay returns the default sync lower bound: one week before now.
func DefaultFromDay(now time.Time) string {
	return FormatDay(now.AddDate(0, 0, -7))
}

// DayOf extracts the calendar-day component of a tracker timestamp, the
// portion before the time separator. Day bounds are compared as ISO strings,
// so no timezone conversion happens here.
func DayOf(timestamp string) string {
	day, _, _ := strings.Cut(timestamp, "T")
	return day
}
