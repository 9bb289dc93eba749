package vacation

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoWorkingDays is returned when a month touched by the vacation has no working days,
// so no daily rate can be derived for it
var ErrNoWorkingDays = errors.New("month has no working days")

// NoWorkingDaysError names the month that has no working days
type NoWorkingDaysError struct {
	Year  int
	Month time.Month
}

func (e *NoWorkingDaysError) Error() string {
	return fmt.Sprintf("%d-%02d: %s", e.Year, int(e.Month), ErrNoWorkingDays)
}

func (e *NoWorkingDaysError) Unwrap() error {
	return ErrNoWorkingDays
}
