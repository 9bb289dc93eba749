package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/EkaterinaAI/VacationSalaryCalculator/pkg/dateutil"
	"go.uber.org/zap"
)

// ProductionCalendar implements Calendar using production-calendar.ru API
type ProductionCalendar struct {
	apiURL     string
	apiToken   string
	httpClient *http.Client
	logger     *zap.Logger
}

// productionCalendarResponse represents API response
type productionCalendarResponse struct {
	Status      string `json:"status"`
	CountryCode string `json:"country_code"`
	DTStart     string `json:"dt_start"`
	DTEnd       string `json:"dt_end"`
	Statistic   struct {
		CalendarDays int `json:"calendar_days"`
		WorkDays     int `json:"work_days"`
		Weekends     int `json:"weekends"`
		Holidays     int `json:"holidays"`
		WorkingHours int `json:"working_hours"`
	} `json:"statistic"`
	Days json.RawMessage `json:"days"` // Can be array OR error string (guest token limitation)
}

// calendarDay represents a single day in the calendar
type calendarDay struct {
	Date         string `json:"date"`
	TypeID       int    `json:"type_id"`
	TypeText     string `json:"type_text"`
	Note         string `json:"note,omitempty"`
	WeekDay      string `json:"week_day"`
	WorkingHours int    `json:"working_hours"`
}

// NewProductionCalendar creates a new ProductionCalendar instance
func NewProductionCalendar(apiURL, apiToken string, timeout time.Duration, logger *zap.Logger) *ProductionCalendar {
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}

	return &ProductionCalendar{
		apiURL:   strings.TrimRight(apiURL, "/"),
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// HolidaysForYear returns holidays of the country for the year
func (pc *ProductionCalendar) HolidaysForYear(ctx context.Context, year int, region string) (*HolidaySet, error) {
	region = normalizeRegion(region)

	set, err := pc.fetchYear(ctx, year, region)
	if err != nil {
		return nil, err
	}

	pc.logger.Info("Holidays fetched",
		zap.String("region", region),
		zap.Int("year", year),
		zap.Int("holidays", set.Len()))

	return set, nil
}

// fetchYear fetches year info from API
func (pc *ProductionCalendar) fetchYear(ctx context.Context, year int, region string) (*HolidaySet, error) {
	// Build URL: https://production-calendar.ru/get-period/{token}/{country}/{YYYY}/json
	url := fmt.Sprintf("%s/get-period/%s/%s/%s/json",
		pc.apiURL, pc.apiToken, region, strconv.Itoa(year))

	pc.logger.Debug("Fetching calendar data",
		zap.String("region", region),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var apiResp productionCalendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	if apiResp.Status != "ok" {
		return nil, fmt.Errorf("API returned status: %s", apiResp.Status)
	}

	days, err := pc.parseDays(apiResp.Days)
	if err != nil {
		return nil, err
	}

	return holidaysFromDays(year, region, days), nil
}

func (pc *ProductionCalendar) parseDays(raw json.RawMessage) ([]DayInfo, error) {
	var apiDays []calendarDay
	if err := json.Unmarshal(raw, &apiDays); err != nil {
		// Days might be an error message string (guest token limitation)
		var errorMsg string
		if err2 := json.Unmarshal(raw, &errorMsg); err2 == nil {
			return nil, fmt.Errorf("API error: %s", errorMsg)
		}
		return nil, fmt.Errorf("failed to parse days: %w", err)
	}

	days := make([]DayInfo, 0, len(apiDays))
	for _, apiDay := range apiDays {
		// Date format: DD.MM.YYYY
		date, err := time.Parse("02.01.2006", apiDay.Date)
		if err != nil {
			pc.logger.Warn("Failed to parse date",
				zap.String("date", apiDay.Date),
				zap.Error(err))
			continue
		}

		dayType := DayType(apiDay.TypeID)
		if apiDay.WorkingHours == 0 && dateutil.IsWeekday(date) {
			dayType = DayTypeHoliday
		}

		days = append(days, DayInfo{
			Date:         date,
			Type:         dayType,
			WorkingHours: apiDay.WorkingHours,
			Note:         apiDay.Note,
		})
	}

	return days, nil
}

