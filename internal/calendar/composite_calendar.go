package calendar

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CompositeCalendar implements Calendar with fallback strategy
// Primary: remote API calendar
// Fallback: FileCalendar (local file) or BuiltinCalendar
type CompositeCalendar struct {
	primary  Calendar
	fallback Calendar
	logger   *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary, fallback Calendar, logger *zap.Logger) *CompositeCalendar {
	return &CompositeCalendar{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// HolidaysForYear asks the primary calendar and falls back on error
func (cc *CompositeCalendar) HolidaysForYear(ctx context.Context, year int, region string) (*HolidaySet, error) {
	set, err := cc.primary.HolidaysForYear(ctx, year, region)
	if err == nil {
		return set, nil
	}

	cc.logger.Warn("Primary calendar failed, using fallback",
		zap.Int("year", year),
		zap.String("region", region),
		zap.Error(err))

	set, fallbackErr := cc.fallback.HolidaysForYear(ctx, year, region)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback calendars both failed: primary=%v, fallback=%w", err, fallbackErr)
	}
	return set, nil
}

// LoadFallback loads the fallback calendar (if FileCalendar)
func (cc *CompositeCalendar) LoadFallback() error {
	if fc, ok := cc.fallback.(*FileCalendar); ok {
		if err := fc.Load(); err != nil {
			return fmt.Errorf("failed to load fallback calendar: %w", err)
		}
		cc.logger.Info("Fallback calendar loaded successfully")
	}
	return nil
}
