package services

import (
	"strings"
	"time"
)

const CalendarDateLayout = "2006-01-02"

// CalendarDate strips the time of day, keeping the calendar day as observed in
// value's own location. The result is anchored at UTC midnight so day
// arithmetic never crosses a DST transition.
func CalendarDate(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateAtLocation returns the calendar day value falls on in location.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return CalendarDate(value.In(location))
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns to - from in whole calendar days. Unix seconds are used
// because time.Duration saturates after roughly 292 years.
func DaysBetween(from time.Time, to time.Time) int {
	return int((CalendarDate(to).Unix() - CalendarDate(from).Unix()) / secondsPerDay)
}

func AddDays(value time.Time, days int) time.Time {
	return CalendarDate(value).AddDate(0, 0, days)
}

func ParseCalendarDate(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(CalendarDateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}

func FormatCalendarDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(CalendarDateLayout)
}
