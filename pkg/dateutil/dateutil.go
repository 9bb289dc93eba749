package dateutil

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date layout used on every boundary
const DateLayout = "2006-01-02"

// Date returns midnight UTC of the given calendar date
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize drops the clock and the location, keeping only the calendar date
func Normalize(date time.Time) time.Time {
	return Date(date.Year(), date.Month(), date.Day())
}

// StartOfMonth returns the first day of the month for the given date
func StartOfMonth(year int, month time.Month) time.Time {
	return Date(year, month, 1)
}

// EndOfMonth returns the last day of the month
func EndOfMonth(year int, month time.Month) time.Time {
	return Date(year, month+1, 0)
}

// DaysInMonth returns the number of calendar days in the month
func DaysInMonth(year int, month time.Month) int {
	return EndOfMonth(year, month).Day()
}

// DaysInYear returns 365 or 366
func DaysInYear(year int) int {
	return Date(year, time.December, 31).YearDay()
}

// IsWeekday returns true if the date is Monday-Friday
func IsWeekday(date time.Time) bool {
	weekday := date.Weekday()
	return weekday >= time.Monday && weekday <= time.Friday
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// DaysBetween returns the inclusive number of calendar days from start to end.
// It is zero when end is before start.
func DaysBetween(start, end time.Time) int {
	start, end = Normalize(start), Normalize(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date into midnight UTC
func ParseDate(dateStr string) (time.Time, error) {
	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", dateStr, err)
	}
	return date, nil
}
