package dateutil

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	input := time.Date(2024, 1, 10, 1, 30, 0, 0, msk)

	result := Normalize(input)

	if result.Location() != time.UTC {
		t.Errorf("Normalize(%v) location = %v, want UTC", input, result.Location())
	}
	if !result.Equal(Date(2024, time.January, 10)) {
		t.Errorf("Normalize(%v) = %v, want 2024-01-10", input, result)
	}
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    time.Month
		wantDays int
	}{
		{"January", 2024, time.January, 31},
		{"Leap February", 2024, time.February, 29},
		{"Common February", 2025, time.February, 28},
		{"April", 2025, time.April, 30},
		{"December", 2025, time.December, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysInMonth(tt.year, tt.month); got != tt.wantDays {
				t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.wantDays)
			}

			start := StartOfMonth(tt.year, tt.month)
			end := EndOfMonth(tt.year, tt.month)
			if start.Day() != 1 || start.Month() != tt.month {
				t.Errorf("StartOfMonth = %v", start)
			}
			if end.Day() != tt.wantDays || end.Month() != tt.month {
				t.Errorf("EndOfMonth = %v", end)
			}
		})
	}
}

func TestDaysInYear(t *testing.T) {
	if got := DaysInYear(2024); got != 366 {
		t.Errorf("DaysInYear(2024) = %d, want 366", got)
	}
	if got := DaysInYear(2025); got != 365 {
		t.Errorf("DaysInYear(2025) = %d, want 365", got)
	}
}

func TestIsWeekday(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  bool
	}{
		{"Monday is weekday", time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), true},
		{"Wednesday is weekday", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"Friday is weekday", time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), true},
		{"Saturday is not weekday", time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC), false},
		{"Sunday is not weekday", time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsWeekday(tt.input)

			if result != tt.want {
				t.Errorf("IsWeekday(%v) = %v, want %v",
					tt.input.Format("2006-01-02 Mon"), result, tt.want)
			}
			if IsWeekend(tt.input) == tt.want {
				t.Errorf("IsWeekend(%v) disagrees with IsWeekday", tt.input.Format("2006-01-02 Mon"))
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"Same day", Date(2024, 1, 10), Date(2024, 1, 10), 1},
		{"One week", Date(2024, 1, 10), Date(2024, 1, 16), 7},
		{"Across months", Date(2024, 1, 30), Date(2024, 2, 2), 4},
		{"Reversed", Date(2024, 1, 16), Date(2024, 1, 10), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.start, tt.end); got != tt.want {
				t.Errorf("DaysBetween(%v, %v) = %d, want %d",
					FormatDate(tt.start), FormatDate(tt.end), got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"ISO format YYYY-MM-DD", "2024-01-10", Date(2024, 1, 10), false},
		{"Leap day", "2024-02-29", Date(2024, 2, 29), false},
		{"Russian format is rejected", "10.01.2024", time.Time{}, true},
		{"Impossible day", "2023-02-29", time.Time{}, true},
		{"Empty string", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}

			if !tt.wantErr && !result.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	input := time.Date(2024, 1, 10, 10, 30, 45, 0, time.UTC)
	if got := FormatDate(input); got != "2024-01-10" {
		t.Errorf("FormatDate(%v) = %v, want 2024-01-10", input, got)
	}
}
