package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/EkaterinaAI/VacationSalaryCalculator/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	isdayoffBaseURL    = "https://isdayoff.ru"
	xmlcalendarURL     = "https://xmlcalendar.ru/data/{region}/{year}/calendar.json"
	defaultHTTPTimeout = 10 * time.Second
)

// IsDayOffCalendar implements Calendar using isdayoff.ru API with xmlcalendar.ru as fallback
type IsDayOffCalendar struct {
	httpClient  *http.Client
	logger      *zap.Logger
	baseURL     string
	fallbackURL string
}

// xmlCalendarYear represents xmlcalendar.ru JSON structure
type xmlCalendarYear struct {
	Year      int                `json:"year"`
	Months    []xmlCalendarMonth `json:"months"`
	Statistic struct {
		Workdays int     `json:"workdays"`
		Holidays int     `json:"holidays"`
		Hours40  float64 `json:"hours40"`
	} `json:"statistic"`
	Transitions []xmlTransition `json:"transitions"`
}

type xmlCalendarMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"` // "1,2,3+,4,8*,..." where * = shortened, + = transferred
}

type xmlTransition struct {
	From string `json:"from"` // "MM.DD"
	To   string `json:"to"`   // "MM.DD"
}

// NewIsDayOffCalendar creates a new IsDayOffCalendar instance.
// Empty baseURL and fallbackURL select the public services.
func NewIsDayOffCalendar(baseURL, fallbackURL string, timeout time.Duration, logger *zap.Logger) *IsDayOffCalendar {
	if baseURL == "" {
		baseURL = isdayoffBaseURL
	}
	if fallbackURL == "" {
		fallbackURL = xmlcalendarURL
	}
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}

	return &IsDayOffCalendar{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:      logger,
		baseURL:     strings.TrimRight(baseURL, "/"),
		fallbackURL: fallbackURL,
	}
}

// HolidaysForYear returns weekday days off of the region for the year
func (c *IsDayOffCalendar) HolidaysForYear(ctx context.Context, year int, region string) (*HolidaySet, error) {
	region = normalizeRegion(region)

	set, err := c.fetchYearFromAPI(ctx, year, region)
	if err == nil {
		return set, nil
	}

	c.logger.Warn("Failed to fetch from API, trying fallback",
		zap.String("region", region),
		zap.Int("year", year),
		zap.Error(err))

	set, fallbackErr := c.fetchYearFromFallback(ctx, year, region)
	if fallbackErr != nil {
		return nil, fmt.Errorf("API and fallback both failed: API=%w, Fallback=%v", err, fallbackErr)
	}

	c.logger.Info("Using fallback data",
		zap.String("region", region),
		zap.Int("year", year))
	return set, nil
}

// fetchYearFromAPI fetches the whole year from isdayoff.ru bulk API
func (c *IsDayOffCalendar) fetchYearFromAPI(ctx context.Context, year int, region string) (*HolidaySet, error) {
	// https://isdayoff.ru/api/getdata?year=2024&cc=ru&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&cc=%s&pre=1", c.baseURL, year, region)

	c.logger.Debug("Fetching year from isdayoff.ru",
		zap.String("url", url),
		zap.Int("year", year))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	days, err := parseBulkResponse(year, strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	set := holidaysFromDays(year, region, days)
	c.logger.Info("Holidays fetched from API",
		zap.String("region", region),
		zap.Int("year", year),
		zap.Int("holidays", set.Len()))

	return set, nil
}

// parseBulkResponse parses isdayoff.ru bulk response string, one code per day:
// 0 = working day, 1 = non-working day, 2 = shortened day, 4 = working day (covid schedule)
func parseBulkResponse(year int, data string) ([]DayInfo, error) {
	daysInYear := dateutil.DaysInYear(year)

	if len(data) != daysInYear {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInYear, len(data))
	}

	days := make([]DayInfo, 0, daysInYear)
	start := dateutil.Date(year, time.January, 1)

	for i, code := range data {
		date := start.AddDate(0, 0, i)

		var day DayInfo
		switch code {
		case '0', '4':
			day = DayInfo{Date: date, Type: DayTypeWorkday, WorkingHours: 8}
		case '1':
			if dateutil.IsWeekend(date) {
				day = DayInfo{Date: date, Type: DayTypeWeekend}
			} else {
				day = DayInfo{Date: date, Type: DayTypeHoliday}
			}
		case '2':
			day = DayInfo{Date: date, Type: DayTypeShortened, WorkingHours: 7}
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}

		days = append(days, day)
	}

	return days, nil
}

// fetchYearFromFallback fetches the year from xmlcalendar.ru
func (c *IsDayOffCalendar) fetchYearFromFallback(ctx context.Context, year int, region string) (*HolidaySet, error) {
	url := strings.ReplaceAll(c.fallbackURL, "{year}", strconv.Itoa(year))
	url = strings.ReplaceAll(url, "{region}", region)

	c.logger.Info("Downloading fallback calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fallback data: %w", err)
	}

	var yearData xmlCalendarYear
	if err := json.Unmarshal(body, &yearData); err != nil {
		return nil, fmt.Errorf("failed to parse fallback JSON: %w", err)
	}
	if yearData.Year != 0 && yearData.Year != year {
		return nil, fmt.Errorf("fallback data is for year %d, want %d", yearData.Year, year)
	}

	days := make([]DayInfo, 0, dateutil.DaysInYear(year))
	for i := range yearData.Months {
		monthDays, err := c.parseXMLCalendarMonth(year, &yearData.Months[i])
		if err != nil {
			return nil, err
		}
		days = append(days, monthDays...)
	}

	set := holidaysFromDays(year, region, days)
	c.logger.Info("Fallback data downloaded",
		zap.Int("year", year),
		zap.Int("months", len(yearData.Months)),
		zap.Int("holidays", set.Len()))

	return set, nil
}

// parseXMLCalendarMonth parses xmlcalendar.ru compact format
// Format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened day, + = transferred day off, others = weekends/holidays
func (c *IsDayOffCalendar) parseXMLCalendarMonth(year int, xmlMonth *xmlCalendarMonth) ([]DayInfo, error) {
	if xmlMonth.Month < 1 || xmlMonth.Month > 12 {
		return nil, fmt.Errorf("invalid month %d in fallback data", xmlMonth.Month)
	}
	month := time.Month(xmlMonth.Month)
	daysInMonth := dateutil.DaysInMonth(year, month)

	nonWorkingMap := make(map[int]rune) // day → marker (* or + or 0)
	if xmlMonth.Days != "" {
		for _, part := range strings.Split(xmlMonth.Days, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			marker := rune(0)
			dayStr := part

			if strings.HasSuffix(part, "*") {
				marker = '*'
				dayStr = strings.TrimSuffix(part, "*")
			} else if strings.HasSuffix(part, "+") {
				marker = '+'
				dayStr = strings.TrimSuffix(part, "+")
			}

			day, err := strconv.Atoi(dayStr)
			if err != nil {
				c.logger.Warn("Failed to parse day number",
					zap.String("part", part),
					zap.Error(err))
				continue
			}

			nonWorkingMap[day] = marker
		}
	}

	days := make([]DayInfo, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		date := dateutil.Date(year, month, d)
		marker, isNonWorking := nonWorkingMap[d]

		var day DayInfo
		switch {
		case marker == '*':
			day = DayInfo{Date: date, Type: DayTypeShortened, WorkingHours: 7}
		case isNonWorking && dateutil.IsWeekend(date):
			day = DayInfo{Date: date, Type: DayTypeWeekend}
		case isNonWorking:
			day = DayInfo{Date: date, Type: DayTypeHoliday}
		default:
			day = DayInfo{Date: date, Type: DayTypeWorkday, WorkingHours: 8}
		}
		days = append(days, day)
	}

	return days, nil
}

func (c *IsDayOffCalendar) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

