package vacation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of fractional digits money is rounded to
const CurrencyPlaces = 2

// Accepted average salary precision. Decimal strings may carry exponents up to
// int32, so the bounds are checked on the exponent before any arithmetic.
const (
	MaxSalaryIntegerDigits  = 15
	MaxSalaryFractionDigits = 10
)

var (
	ErrNegativeSalary   = errors.New("salary must not be negative")
	ErrSalaryOutOfRange = errors.New("salary is out of range")
)

// ValidateSalary rejects negative salaries and values outside the supported precision
func ValidateSalary(salary decimal.Decimal) error {
	if salary.IsNegative() {
		return ErrNegativeSalary
	}

	exp := int(salary.Exponent())
	if exp < -MaxSalaryFractionDigits {
		return fmt.Errorf("%w: more than %d fractional digits", ErrSalaryOutOfRange, MaxSalaryFractionDigits)
	}
	if exp > MaxSalaryIntegerDigits || (!salary.IsZero() && salary.NumDigits()+exp > MaxSalaryIntegerDigits) {
		return fmt.Errorf("%w: more than %d integer digits", ErrSalaryOutOfRange, MaxSalaryIntegerDigits)
	}
	return nil
}

// Money is an amount rounded half-up to two fractional digits
type Money struct {
	amount decimal.Decimal
}

// NewMoney rounds d to currency precision
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: RoundCurrency(d)}
}

// RoundCurrency rounds half away from zero to two places, which is half-up for pay amounts
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// Decimal returns the underlying value
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Equal compares two amounts by value
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String formats the amount with exactly two fractional digits
func (m Money) String() string {
	return m.amount.StringFixed(CurrencyPlaces)
}

// MarshalJSON writes the amount as a JSON number with two fractional digits
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid money amount: %w", err)
	}
	m.amount = RoundCurrency(d)
	return nil
}
