package vacation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EkaterinaAI/VacationSalaryCalculator/internal/calendar"
	"github.com/EkaterinaAI/VacationSalaryCalculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type lookupFunc func(ctx context.Context, date time.Time) (bool, error)

func (f lookupFunc) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	return f(ctx, date)
}

func builtinCalculator(t *testing.T) *Calculator {
	t.Helper()
	table := calendar.NewTable(calendar.NewBuiltinCalendar(), calendar.RegionRU, 0, zap.NewNop())
	return NewCalculator(table, zap.NewNop())
}

// January 2024 with fifteen working days, one holiday on Jan 12
func staticCalculator(t *testing.T) *Calculator {
	t.Helper()
	var holidays []calendar.Holiday
	for _, day := range []int{1, 2, 3, 4, 5, 8, 12, 31} {
		holidays = append(holidays, calendar.Holiday{Date: dateutil.Date(2024, time.January, day)})
	}
	source := calendar.NewStaticCalendar(calendar.NewHolidaySet(2024, calendar.RegionRU, holidays...))
	table := calendar.NewTable(source, calendar.RegionRU, 0, zap.NewNop())
	return NewCalculator(table, zap.NewNop())
}

// February 2024 where every weekday is a holiday
func noWorkingDaysCalculator(t *testing.T) *Calculator {
	t.Helper()
	var holidays []calendar.Holiday
	for d := dateutil.Date(2024, time.February, 1); d.Month() == time.February; d = d.AddDate(0, 0, 1) {
		holidays = append(holidays, calendar.Holiday{Date: d})
	}
	source := calendar.NewStaticCalendar(calendar.NewHolidaySet(2024, calendar.RegionRU, holidays...))
	return NewCalculator(calendar.NewTable(source, calendar.RegionRU, 0, zap.NewNop()), zap.NewNop())
}

func TestCalculator_IsWorkingDay(t *testing.T) {
	c := builtinCalculator(t)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"New Year holiday", dateutil.Date(2024, 1, 1), false},
		{"Saturday", dateutil.Date(2024, 1, 13), false},
		{"Sunday", dateutil.Date(2024, 1, 14), false},
		{"regular Wednesday", dateutil.Date(2024, 1, 10), true},
		{"Defender Day Friday", dateutil.Date(2024, 2, 23), false},
		{"time of day ignored", time.Date(2024, 1, 10, 18, 45, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.IsWorkingDay(context.Background(), tt.date)
			if err != nil {
				t.Fatalf("IsWorkingDay() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsWorkingDay(%s) = %v, want %v", dateutil.FormatDate(tt.date), got, tt.want)
			}
		})
	}
}

func TestCalculator_IsWorkingDay_WeekendSkipsLookup(t *testing.T) {
	errBroken := errors.New("lookup broken")
	c := NewCalculator(lookupFunc(func(context.Context, time.Time) (bool, error) {
		return false, errBroken
	}), zap.NewNop())

	working, err := c.IsWorkingDay(context.Background(), dateutil.Date(2024, 1, 13))
	if err != nil || working {
		t.Errorf("Saturday = (%v, %v), want (false, nil)", working, err)
	}

	_, err = c.IsWorkingDay(context.Background(), dateutil.Date(2024, 1, 15))
	if !errors.Is(err, errBroken) {
		t.Errorf("weekday error = %v, want wrapped lookup error", err)
	}
}

func TestCalculator_CountWorkingDays(t *testing.T) {
	c := builtinCalculator(t)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single working day", dateutil.Date(2024, 1, 10), dateutil.Date(2024, 1, 10), 1},
		{"single holiday", dateutil.Date(2024, 1, 8), dateutil.Date(2024, 1, 8), 0},
		{"single Saturday", dateutil.Date(2024, 1, 13), dateutil.Date(2024, 1, 13), 0},
		{"week in January", dateutil.Date(2024, 1, 10), dateutil.Date(2024, 1, 16), 5},
		{"New Year holidays only", dateutil.Date(2023, 12, 30), dateutil.Date(2024, 1, 8), 0},
		{"reversed range", dateutil.Date(2024, 1, 16), dateutil.Date(2024, 1, 10), 0},
		{"across months", dateutil.Date(2024, 1, 29), dateutil.Date(2024, 2, 2), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.CountWorkingDays(context.Background(), tt.start, tt.end)
			if err != nil {
				t.Fatalf("CountWorkingDays() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CountWorkingDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculator_CountWorkingDaysInMonth(t *testing.T) {
	c := builtinCalculator(t)

	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 17},
		{2024, time.February, 20},
		{2024, time.March, 20},
		{2024, time.July, 23},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			got, err := c.CountWorkingDaysInMonth(context.Background(), tt.year, tt.month)
			if err != nil {
				t.Fatalf("CountWorkingDaysInMonth() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CountWorkingDaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestCalculator_Calculate(t *testing.T) {
	salary := decimal.RequireFromString("60000.00")

	tests := []struct {
		name     string
		calc     func(t *testing.T) *Calculator
		start    time.Time
		end      time.Time
		wantDays int
		wantPay  string
	}{
		{
			name:     "fifteen working days in January",
			calc:     staticCalculator,
			start:    dateutil.Date(2024, 1, 10),
			end:      dateutil.Date(2024, 1, 16),
			wantDays: 4,
			wantPay:  "16000.00",
		},
		{
			name:     "builtin Russian calendar",
			calc:     builtinCalculator,
			start:    dateutil.Date(2024, 1, 10),
			end:      dateutil.Date(2024, 1, 16),
			wantDays: 5,
			wantPay:  "17647.05",
		},
		{
			name:     "two months",
			calc:     builtinCalculator,
			start:    dateutil.Date(2024, 1, 29),
			end:      dateutil.Date(2024, 2, 2),
			wantDays: 5,
			wantPay:  "16588.23",
		},
		{
			name:     "weekend only",
			calc:     builtinCalculator,
			start:    dateutil.Date(2024, 1, 13),
			end:      dateutil.Date(2024, 1, 14),
			wantDays: 0,
			wantPay:  "0.00",
		},
		{
			name:     "holidays and weekends only",
			calc:     builtinCalculator,
			start:    dateutil.Date(2024, 1, 1),
			end:      dateutil.Date(2024, 1, 8),
			wantDays: 0,
			wantPay:  "0.00",
		},
		{
			name:     "reversed range",
			calc:     builtinCalculator,
			start:    dateutil.Date(2024, 1, 16),
			end:      dateutil.Date(2024, 1, 10),
			wantDays: 0,
			wantPay:  "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.calc(t).Calculate(context.Background(), salary, tt.start, tt.end)
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if result.WorkingDays != tt.wantDays {
				t.Errorf("WorkingDays = %d, want %d", result.WorkingDays, tt.wantDays)
			}
			if got := result.VacationPay.String(); got != tt.wantPay {
				t.Errorf("VacationPay = %s, want %s", got, tt.wantPay)
			}
			if !result.StartDate.Equal(tt.start) || !result.EndDate.Equal(tt.end) {
				t.Errorf("dates = %v..%v, want %v..%v", result.StartDate, result.EndDate, tt.start, tt.end)
			}
		})
	}
}

func TestCalculator_PerMonthRateDiffersFromSingleRate(t *testing.T) {
	c := builtinCalculator(t)
	salary := decimal.RequireFromString("60000.00")

	months, err := c.Breakdown(context.Background(), salary, dateutil.Date(2024, 1, 29), dateutil.Date(2024, 2, 2))
	if err != nil {
		t.Fatalf("Breakdown() error = %v", err)
	}
	if len(months) != 2 {
		t.Fatalf("months = %d, want 2", len(months))
	}

	jan, feb := months[0], months[1]
	if jan.Month != time.January || feb.Month != time.February {
		t.Fatalf("months out of order: %v, %v", jan.Month, feb.Month)
	}
	if jan.VacationDays != 3 || jan.MonthWorkingDays != 17 || !jan.DailyRate.Equal(decimal.RequireFromString("3529.41")) {
		t.Errorf("January = %+v", jan)
	}
	if feb.VacationDays != 2 || feb.MonthWorkingDays != 20 || !feb.DailyRate.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("February = %+v", feb)
	}

	pay, err := c.CalculateVacationPay(context.Background(), salary, dateutil.Date(2024, 1, 29), dateutil.Date(2024, 2, 2))
	if err != nil {
		t.Fatalf("CalculateVacationPay() error = %v", err)
	}

	// The same five days priced at a single month's rate
	for _, rate := range []decimal.Decimal{jan.DailyRate, feb.DailyRate} {
		single := rate.Mul(decimal.NewFromInt(5))
		if pay.Equal(single) {
			t.Errorf("per-month pay %s must differ from single rate pay %s", pay, single)
		}
	}
}

func TestCalculator_DailyRateRoundsHalfUp(t *testing.T) {
	c := builtinCalculator(t)

	// 1000.10 / 20 = 50.005
	pay, err := c.CalculateVacationPay(context.Background(),
		decimal.RequireFromString("1000.10"), dateutil.Date(2024, 2, 1), dateutil.Date(2024, 2, 1))
	if err != nil {
		t.Fatalf("CalculateVacationPay() error = %v", err)
	}
	if !pay.Equal(decimal.RequireFromString("50.01")) {
		t.Errorf("pay = %s, want 50.01", pay)
	}
}

func TestCalculator_NoWorkingDaysInMonth(t *testing.T) {
	c := noWorkingDaysCalculator(t)

	_, err := c.CalculateVacationPay(context.Background(),
		decimal.RequireFromString("60000"), dateutil.Date(2024, 2, 5), dateutil.Date(2024, 2, 9))
	if !errors.Is(err, ErrNoWorkingDays) {
		t.Fatalf("error = %v, want ErrNoWorkingDays", err)
	}

	var monthErr *NoWorkingDaysError
	if !errors.As(err, &monthErr) {
		t.Fatalf("error = %T, want *NoWorkingDaysError", err)
	}
	if monthErr.Year != 2024 || monthErr.Month != time.February {
		t.Errorf("month = %d-%02d, want 2024-02", monthErr.Year, monthErr.Month)
	}

	if _, err := c.Calculate(context.Background(),
		decimal.RequireFromString("60000"), dateutil.Date(2024, 2, 5), dateutil.Date(2024, 2, 9)); !errors.Is(err, ErrNoWorkingDays) {
		t.Errorf("Calculate() error = %v, want ErrNoWorkingDays", err)
	}
}

func TestCalculator_ReversedRangeBreakdown(t *testing.T) {
	c := builtinCalculator(t)

	months, err := c.Breakdown(context.Background(),
		decimal.RequireFromString("60000"), dateutil.Date(2024, 2, 2), dateutil.Date(2024, 1, 29))
	if err != nil {
		t.Fatalf("Breakdown() error = %v", err)
	}
	if len(months) != 0 {
		t.Errorf("months = %v, want none", months)
	}
}

func TestCalculator_Idempotent(t *testing.T) {
	c := builtinCalculator(t)
	salary := decimal.RequireFromString("87123.45")
	start, end := dateutil.Date(2024, 4, 25), dateutil.Date(2024, 6, 14)

	first, err := c.Calculate(context.Background(), salary, start, end)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := c.Calculate(context.Background(), salary, start, end)
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		if again.WorkingDays != first.WorkingDays || !again.VacationPay.Equal(first.VacationPay) {
			t.Errorf("run %d = %+v, want %+v", i, again, first)
		}
	}
}

func TestCalculator_LookupErrorPropagates(t *testing.T) {
	errDown := errors.New("calendar down")
	c := NewCalculator(lookupFunc(func(context.Context, time.Time) (bool, error) {
		return false, errDown
	}), zap.NewNop())

	if _, err := c.Calculate(context.Background(),
		decimal.RequireFromString("60000"), dateutil.Date(2024, 1, 10), dateutil.Date(2024, 1, 10)); !errors.Is(err, errDown) {
		t.Errorf("error = %v, want wrapped lookup error", err)
	}
}

func TestCalculator_CalculateMatchesParts(t *testing.T) {
	c := builtinCalculator(t)
	ctx := context.Background()
	salary := decimal.RequireFromString("87123.45")
	start, end := dateutil.Date(2024, 4, 25), dateutil.Date(2024, 6, 14)

	result, err := c.Calculate(ctx, salary, start, end)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	days, err := c.CountWorkingDays(ctx, start, end)
	if err != nil {
		t.Fatalf("CountWorkingDays() error = %v", err)
	}
	pay, err := c.CalculateVacationPay(ctx, salary, start, end)
	if err != nil {
		t.Fatalf("CalculateVacationPay() error = %v", err)
	}

	if result.WorkingDays != days {
		t.Errorf("WorkingDays = %d, CountWorkingDays = %d", result.WorkingDays, days)
	}
	if !result.VacationPay.Equal(NewMoney(pay)) {
		t.Errorf("VacationPay = %s, CalculateVacationPay = %s", result.VacationPay, NewMoney(pay))
	}

	months, err := c.Breakdown(ctx, salary, start, end)
	if err != nil {
		t.Fatalf("Breakdown() error = %v", err)
	}
	totalDays, totalPay := Total(months)
	if totalDays != result.WorkingDays || !totalPay.Equal(result.VacationPay) {
		t.Errorf("Total() = (%d, %s), want (%d, %s)", totalDays, totalPay, result.WorkingDays, result.VacationPay)
	}
}

func TestCalculator_CalculateScansRangeOnce(t *testing.T) {
	var lookups int
	c := NewCalculator(lookupFunc(func(context.Context, time.Time) (bool, error) {
		lookups++
		return false, nil
	}), zap.NewNop())

	result, err := c.Calculate(context.Background(),
		decimal.RequireFromString("60000"), dateutil.Date(2024, 1, 29), dateutil.Date(2024, 2, 2))
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if result.WorkingDays != 5 {
		t.Errorf("WorkingDays = %d, want 5", result.WorkingDays)
	}

	// 5 weekdays of the range, 23 weekdays of January and 21 of February 2024
	if lookups != 49 {
		t.Errorf("holiday lookups = %d, want 49", lookups)
	}
}
