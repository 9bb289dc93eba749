package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/EkaterinaAI/VacationSalaryCalculator/internal/vacation"
	"github.com/EkaterinaAI/VacationSalaryCalculator/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Date is a calendar date serialized as YYYY-MM-DD
type Date time.Time

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateutil.FormatDate(time.Time(d)))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := dateutil.ParseDate(s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

// Response is the envelope of every /calculate answer; empty fields are omitted
type Response struct {
	Status      string          `json:"status"`
	Message     string          `json:"message,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	WorkingDays *int            `json:"workingDays,omitempty"`
	VacationPay *vacation.Money `json:"vacationPay,omitempty"`
	StartDate   *Date           `json:"startDate,omitempty"`
	EndDate     *Date           `json:"endDate,omitempty"`
}

func successResponse(result vacation.Result, now time.Time) Response {
	workingDays := result.WorkingDays
	pay := result.VacationPay
	start := Date(result.StartDate)
	end := Date(result.EndDate)

	return Response{
		Status:      statusSuccess,
		Timestamp:   now,
		WorkingDays: &workingDays,
		VacationPay: &pay,
		StartDate:   &start,
		EndDate:     &end,
	}
}

func errorResponse(message string, now time.Time) Response {
	return Response{
		Status:    statusError,
		Message:   message,
		Timestamp: now,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload Response, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("Failed to write response", zap.Error(err))
	}
}
