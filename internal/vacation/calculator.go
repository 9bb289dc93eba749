package vacation

import (
	"context"
	"fmt"
	"time"

	"github.com/EkaterinaAI/VacationSalaryCalculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HolidayLookup answers whether a date is a public holiday of a fixed region
type HolidayLookup interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

// MonthPay is the contribution of one calendar month to the vacation pay
type MonthPay struct {
	Year             int
	Month            time.Month
	VacationDays     int             // working days of the vacation inside the month
	MonthWorkingDays int             // working days of the whole month
	DailyRate        decimal.Decimal // salary / MonthWorkingDays, rounded half-up to 2 places
	Pay              decimal.Decimal // DailyRate * VacationDays, not rounded
}

// Result is the outcome of a vacation pay calculation
type Result struct {
	WorkingDays int
	VacationPay Money
	StartDate   time.Time
	EndDate     time.Time
}

// Calculator computes working days and vacation pay
type Calculator struct {
	holidays HolidayLookup
	logger   *zap.Logger
}

// NewCalculator creates a calculator over the given holiday lookup
func NewCalculator(holidays HolidayLookup, logger *zap.Logger) *Calculator {
	return &Calculator{
		holidays: holidays,
		logger:   logger,
	}
}

// IsWorkingDay reports whether the date is a weekday that is not a holiday
func (c *Calculator) IsWorkingDay(ctx context.Context, date time.Time) (bool, error) {
	if dateutil.IsWeekend(date) {
		return false, nil
	}

	holiday, err := c.holidays.IsHoliday(ctx, dateutil.Normalize(date))
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", dateutil.FormatDate(date), err)
	}
	return !holiday, nil
}

// CountWorkingDays counts working days from start to end inclusive.
// A reversed range has no days.
func (c *Calculator) CountWorkingDays(ctx context.Context, start, end time.Time) (int, error) {
	start = dateutil.Normalize(start)
	end = dateutil.Normalize(end)

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		working, err := c.IsWorkingDay(ctx, d)
		if err != nil {
			return 0, err
		}
		if working {
			count++
		}
	}
	return count, nil
}

// CountWorkingDaysInMonth counts working days of the whole calendar month
func (c *Calculator) CountWorkingDaysInMonth(ctx context.Context, year int, month time.Month) (int, error) {
	return c.CountWorkingDays(ctx, dateutil.StartOfMonth(year, month), dateutil.EndOfMonth(year, month))
}

// Breakdown splits the vacation by calendar month in chronological order.
// Every month the range touches is listed, including months without vacation working days.
func (c *Calculator) Breakdown(ctx context.Context, averageSalary decimal.Decimal, start, end time.Time) ([]MonthPay, error) {
	start = dateutil.Normalize(start)
	end = dateutil.Normalize(end)

	var months []MonthPay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if len(months) == 0 || months[len(months)-1].Month != d.Month() || months[len(months)-1].Year != d.Year() {
			months = append(months, MonthPay{Year: d.Year(), Month: d.Month()})
		}

		working, err := c.IsWorkingDay(ctx, d)
		if err != nil {
			return nil, err
		}
		if working {
			months[len(months)-1].VacationDays++
		}
	}

	for i := range months {
		m := &months[i]

		total, err := c.CountWorkingDaysInMonth(ctx, m.Year, m.Month)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			return nil, &NoWorkingDaysError{Year: m.Year, Month: m.Month}
		}

		m.MonthWorkingDays = total
		m.DailyRate = averageSalary.DivRound(decimal.NewFromInt(int64(total)), CurrencyPlaces)
		m.Pay = m.DailyRate.Mul(decimal.NewFromInt(int64(m.VacationDays)))
	}

	return months, nil
}

// CalculateVacationPay sums the per-month pay of the vacation.
// The sum is not rounded; callers round it to currency precision.
func (c *Calculator) CalculateVacationPay(ctx context.Context, averageSalary decimal.Decimal, start, end time.Time) (decimal.Decimal, error) {
	months, err := c.Breakdown(ctx, averageSalary, start, end)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, m := range months {
		total = total.Add(m.Pay)
	}
	return total, nil
}

// Total sums the vacation working days and rounds the pay of a breakdown
func Total(months []MonthPay) (int, Money) {
	days := 0
	pay := decimal.Zero
	for _, m := range months {
		days += m.VacationDays
		pay = pay.Add(m.Pay)
	}
	return days, NewMoney(pay)
}

// Calculate counts working days and computes rounded vacation pay
// from a single pass over the range
func (c *Calculator) Calculate(ctx context.Context, averageSalary decimal.Decimal, start, end time.Time) (Result, error) {
	start = dateutil.Normalize(start)
	end = dateutil.Normalize(end)

	months, err := c.Breakdown(ctx, averageSalary, start, end)
	if err != nil {
		return Result{}, err
	}

	workingDays, pay := Total(months)
	result := Result{
		WorkingDays: workingDays,
		VacationPay: pay,
		StartDate:   start,
		EndDate:     end,
	}

	c.logger.Debug("Vacation pay calculated",
		zap.String("start", dateutil.FormatDate(start)),
		zap.String("end", dateutil.FormatDate(end)),
		zap.Int("working_days", result.WorkingDays),
		zap.String("vacation_pay", result.VacationPay.String()))

	return result, nil
}
