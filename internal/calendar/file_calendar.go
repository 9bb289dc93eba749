package calendar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/EkaterinaAI/VacationSalaryCalculator/pkg/dateutil"
	"go.uber.org/zap"
)

// FileCalendar implements Calendar using a local text file of one region
type FileCalendar struct {
	filePath string
	region   string
	logger   *zap.Logger
	static   *StaticCalendar
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath, region string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		region:   normalizeRegion(region),
		logger:   logger,
		static:   NewStaticCalendar(),
	}
}

// Load loads calendar data from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	return fc.LoadFrom(file)
}

// LoadFrom parses calendar lines from r, replacing previously loaded data.
//
// Format: YYYY-MM-DD type working_hours [note]
// Example: 2025-01-01 holiday 0 Новогодние каникулы
func (fc *FileCalendar) LoadFrom(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	byYear := make(map[int][]DayInfo)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 3 {
			fc.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		dateStr := parts[0]
		typeStr := parts[1]
		hoursStr := parts[2]
		note := strings.Join(parts[3:], " ")

		date, err := dateutil.ParseDate(dateStr)
		if err != nil {
			fc.logger.Warn("Failed to parse date", zap.String("date", dateStr), zap.Error(err))
			continue
		}

		hours, err := strconv.Atoi(hoursStr)
		if err != nil {
			fc.logger.Warn("Failed to parse hours", zap.String("hours", hoursStr), zap.Error(err))
			continue
		}

		var dayType DayType
		switch typeStr {
		case "workday":
			dayType = DayTypeWorkday
		case "weekend":
			dayType = DayTypeWeekend
		case "holiday":
			dayType = DayTypeHoliday
		case "shortened":
			dayType = DayTypeShortened
		default:
			fc.logger.Warn("Unknown day type", zap.String("type", typeStr))
			continue
		}

		byYear[date.Year()] = append(byYear[date.Year()], DayInfo{
			Date:         date,
			Type:         dayType,
			WorkingHours: hours,
			Note:         note,
		})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	sets := make([]*HolidaySet, 0, len(byYear))
	for year, days := range byYear {
		sets = append(sets, holidaysFromDays(year, fc.region, days))
	}
	fc.static = NewStaticCalendar(sets...)

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.String("region", fc.region),
		zap.Int("years", len(sets)))

	return nil
}

// HolidaysForYear returns holidays loaded from the file
func (fc *FileCalendar) HolidaysForYear(ctx context.Context, year int, region string) (*HolidaySet, error) {
	if normalizeRegion(region) != fc.region {
		return nil, fmt.Errorf("%w: calendar file %s covers %q, not %q",
			ErrUnsupportedRegion, fc.filePath, fc.region, region)
	}
	return fc.static.HolidaysForYear(ctx, year, region)
}

// Years returns the years present in the loaded file
func (fc *FileCalendar) Years() []int {
	years := make([]int, 0, len(fc.static.sets))
	for _, set := range fc.static.sets {
		years = append(years, set.Year)
	}
	sort.Ints(years)
	return years
}
