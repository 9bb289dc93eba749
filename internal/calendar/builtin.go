package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/EkaterinaAI/VacationSalaryCalculator/pkg/dateutil"
	cal "github.com/rickar/cal/v2"
)

// RegionRU is the only region the builtin calendar knows
const RegionRU = "ru"

// Non-January holidays falling on a weekend move to the following Monday.
// January days off are moved by government decree only, which is not modelled here.
var weekendToMonday = []cal.AltDay{
	{Day: time.Saturday, Offset: 2},
	{Day: time.Sunday, Offset: 1},
}

func fixedHoliday(name string, month time.Month, day int, observed []cal.AltDay) *cal.Holiday {
	return &cal.Holiday{
		Name:     name,
		Type:     cal.ObservancePublic,
		Month:    month,
		Day:      day,
		Observed: observed,
		Func:     cal.CalcDayOfMonth,
	}
}

// Labour Code of the Russian Federation, article 112
var russianHolidays = []*cal.Holiday{
	fixedHoliday("New Year holidays", time.January, 1, nil),
	fixedHoliday("New Year holidays", time.January, 2, nil),
	fixedHoliday("New Year holidays", time.January, 3, nil),
	fixedHoliday("New Year holidays", time.January, 4, nil),
	fixedHoliday("New Year holidays", time.January, 5, nil),
	fixedHoliday("New Year holidays", time.January, 6, nil),
	fixedHoliday("Orthodox Christmas", time.January, 7, nil),
	fixedHoliday("New Year holidays", time.January, 8, nil),
	fixedHoliday("Defender of the Fatherland Day", time.February, 23, weekendToMonday),
	fixedHoliday("International Women's Day", time.March, 8, weekendToMonday),
	fixedHoliday("Spring and Labour Day", time.May, 1, weekendToMonday),
	fixedHoliday("Victory Day", time.May, 9, weekendToMonday),
	fixedHoliday("Russia Day", time.June, 12, weekendToMonday),
	{
		Name:      "Unity Day",
		Type:      cal.ObservancePublic,
		StartYear: 2005,
		Month:     time.November,
		Day:       4,
		Observed:  weekendToMonday,
		Func:      cal.CalcDayOfMonth,
	},
}

// BuiltinCalendar computes statutory Russian holidays offline
type BuiltinCalendar struct {
	holidays []*cal.Holiday
}

// NewBuiltinCalendar creates the offline calendar for region "ru"
func NewBuiltinCalendar() *BuiltinCalendar {
	return &BuiltinCalendar{holidays: russianHolidays}
}

// HolidaysForYear returns statutory holidays observed on weekdays
func (bc *BuiltinCalendar) HolidaysForYear(_ context.Context, year int, region string) (*HolidaySet, error) {
	if normalizeRegion(region) != RegionRU {
		return nil, fmt.Errorf("%w: builtin calendar knows only %q, got %q", ErrUnsupportedRegion, RegionRU, region)
	}

	holidays := make([]Holiday, 0, len(bc.holidays))
	for _, h := range bc.holidays {
		_, observed := h.Calc(year)
		if observed.IsZero() {
			continue
		}
		date := dateutil.Normalize(observed)
		if !dateutil.IsWeekday(date) {
			continue
		}
		holidays = append(holidays, Holiday{Date: date, Name: h.Name})
	}

	return NewHolidaySet(year, RegionRU, holidays...), nil
}
