package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/EkaterinaAI/VacationSalaryCalculator/pkg/dateutil"
)

var (
	// ErrUnsupportedRegion is returned by sources that only know some regions
	ErrUnsupportedRegion = errors.New("unsupported region")
	// ErrYearNotFound is returned when a source has no data for the requested year
	ErrYearNotFound = errors.New("no holiday data for year")
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
	DayTypeShortened
)

// DayInfo represents information about a specific day
type DayInfo struct {
	Date         time.Time
	Type         DayType
	WorkingHours int
	Note         string
}

// Holiday is a weekday on which nobody works in the region
type Holiday struct {
	Date time.Time
	Name string
}

// Calendar returns public holidays of a region for a whole year
type Calendar interface {
	// HolidaysForYear returns the set of holidays of the region in the given year
	HolidaysForYear(ctx context.Context, year int, region string) (*HolidaySet, error)
}

// HolidaySet is the read-only set of holidays of one region and year
type HolidaySet struct {
	Year   int
	Region string
	days   map[string]Holiday
}

// NewHolidaySet builds a set; holidays outside the year are ignored
func NewHolidaySet(year int, region string, holidays ...Holiday) *HolidaySet {
	set := &HolidaySet{
		Year:   year,
		Region: normalizeRegion(region),
		days:   make(map[string]Holiday, len(holidays)),
	}
	for _, h := range holidays {
		date := dateutil.Normalize(h.Date)
		if date.Year() != year {
			continue
		}
		key := dateutil.FormatDate(date)
		if existing, ok := set.days[key]; ok && existing.Name != "" {
			continue
		}
		set.days[key] = Holiday{Date: date, Name: h.Name}
	}
	return set
}

// Contains reports whether the date is a holiday
func (s *HolidaySet) Contains(date time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s.days[dateutil.FormatDate(date)]
	return ok
}

// Len returns the number of holidays in the set
func (s *HolidaySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.days)
}

// Holidays returns the holidays in chronological order
func (s *HolidaySet) Holidays() []Holiday {
	if s == nil {
		return nil
	}
	out := make([]Holiday, 0, len(s.days))
	for _, h := range s.days {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// StaticCalendar serves fixed, already known holiday sets
type StaticCalendar struct {
	sets map[string]*HolidaySet // key: "region:year"
}

// NewStaticCalendar creates a calendar from prepared sets
func NewStaticCalendar(sets ...*HolidaySet) *StaticCalendar {
	sc := &StaticCalendar{sets: make(map[string]*HolidaySet, len(sets))}
	for _, set := range sets {
		sc.sets[setKey(set.Region, set.Year)] = set
	}
	return sc
}

// HolidaysForYear returns the prepared set or ErrYearNotFound
func (sc *StaticCalendar) HolidaysForYear(_ context.Context, year int, region string) (*HolidaySet, error) {
	set, ok := sc.sets[setKey(region, year)]
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", ErrYearNotFound, normalizeRegion(region), year)
	}
	return set, nil
}

func setKey(region string, year int) string {
	return fmt.Sprintf("%s:%d", normalizeRegion(region), year)
}

func normalizeRegion(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}

// holidaysFromDays turns a day-by-day classification into holidays.
// Only weekdays count: weekend days are never working days anyway.
func holidaysFromDays(year int, region string, days []DayInfo) *HolidaySet {
	holidays := make([]Holiday, 0, 16)
	for _, day := range days {
		if day.Type != DayTypeHoliday || !dateutil.IsWeekday(day.Date) {
			continue
		}
		holidays = append(holidays, Holiday{Date: day.Date, Name: day.Note})
	}
	return NewHolidaySet(year, region, holidays...)
}
