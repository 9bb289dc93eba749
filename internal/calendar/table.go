package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrUnavailable marks failures to obtain holiday data for a year
var ErrUnavailable = errors.New("holiday data unavailable")

// Table is the process-wide holiday lookup of one fixed region.
// Loaded sets are never mutated, so readers share them freely; a reload
// swaps in a new set once the old one is older than the TTL.
type Table struct {
	source Calendar
	region string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	sets      map[int]*loadedYear
	preloaded bool
	group     singleflight.Group
}

type loadedYear struct {
	set      *HolidaySet
	loadedAt time.Time
}

// NewTable creates an empty table backed by source.
// A zero ttl keeps loaded years for the life of the process.
func NewTable(source Calendar, region string, ttl time.Duration, logger *zap.Logger) *Table {
	return &Table{
		source: source,
		region: normalizeRegion(region),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		sets:   make(map[int]*loadedYear),
	}
}

// Region returns the fixed region of the table
func (t *Table) Region() string {
	return t.region
}

// Preload loads the given years; any failure is returned and nothing is retried
func (t *Table) Preload(ctx context.Context, years ...int) error {
	for _, year := range years {
		set, err := t.Holidays(ctx, year)
		if err != nil {
			return err
		}
		t.logger.Info("Holidays preloaded",
			zap.String("region", t.region),
			zap.Int("year", year),
			zap.Int("holidays", set.Len()))
	}

	t.mu.Lock()
	t.preloaded = true
	t.mu.Unlock()
	return nil
}

// Ready reports whether Preload has completed
func (t *Table) Ready() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.preloaded
}

// Holidays returns the set for the year, loading it once on first use
// and again after it expires
func (t *Table) Holidays(ctx context.Context, year int) (*HolidaySet, error) {
	t.mu.RLock()
	entry, ok := t.sets[year]
	t.mu.RUnlock()
	if ok && t.fresh(entry) {
		return entry.set, nil
	}

	// A cancelled request must not fail the other callers waiting on the same load.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := t.group.Do(strconv.Itoa(year), func() (interface{}, error) {
		t.mu.RLock()
		existing, ok := t.sets[year]
		t.mu.RUnlock()
		if ok && t.fresh(existing) {
			return existing.set, nil
		}

		start := t.now()
		loaded, err := t.source.HolidaysForYear(loadCtx, year, t.region)
		if err != nil {
			if ok {
				t.logger.Warn("Failed to reload holidays, serving previous data",
					zap.String("region", t.region),
					zap.Int("year", year),
					zap.Time("loaded_at", existing.loadedAt),
					zap.Error(err))
				return existing.set, nil
			}
			return nil, fmt.Errorf("%w: %s %d: %w", ErrUnavailable, t.region, year, err)
		}

		t.mu.Lock()
		t.sets[year] = &loadedYear{set: loaded, loadedAt: t.now()}
		t.mu.Unlock()

		t.logger.Debug("Holidays loaded",
			zap.String("region", t.region),
			zap.Int("year", year),
			zap.Bool("reload", ok),
			zap.Duration("took", t.now().Sub(start)))
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*HolidaySet), nil
}

func (t *Table) fresh(entry *loadedYear) bool {
	return t.ttl <= 0 || t.now().Sub(entry.loadedAt) < t.ttl
}

// IsHoliday reports whether the date is a holiday of the table's region
func (t *Table) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	set, err := t.Holidays(ctx, date.Year())
	if err != nil {
		return false, err
	}
	return set.Contains(date), nil
}

// HolidaysForYear lets the table stand in for any Calendar of its own region
func (t *Table) HolidaysForYear(ctx context.Context, year int, region string) (*HolidaySet, error) {
	if normalizeRegion(region) != t.region {
		return nil, fmt.Errorf("%w: table is bound to %q, got %q", ErrUnsupportedRegion, t.region, region)
	}
	return t.Holidays(ctx, year)
}

// Years returns the loaded years in ascending order
func (t *Table) Years() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	years := make([]int, 0, len(t.sets))
	for year := range t.sets {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}
