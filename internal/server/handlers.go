package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/EkaterinaAI/VacationSalaryCalculator/internal/calendar"
	"github.com/EkaterinaAI/VacationSalaryCalculator/internal/vacation"
	"github.com/EkaterinaAI/VacationSalaryCalculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Calculator computes vacation pay for a date range
type Calculator interface {
	Calculate(ctx context.Context, averageSalary decimal.Decimal, start, end time.Time) (vacation.Result, error)
}

// ReadinessChecker reports whether holiday data is loaded
type ReadinessChecker interface {
	Ready() bool
}

// Handler serves the HTTP API
type Handler struct {
	calc         Calculator
	readiness    ReadinessChecker
	maxRangeDays int
	logger       *zap.Logger
	now          func() time.Time
}

// NewHandler creates a new Handler
func NewHandler(calc Calculator, readiness ReadinessChecker, maxRangeDays int, logger *zap.Logger) *Handler {
	return &Handler{
		calc:         calc,
		readiness:    readiness,
		maxRangeDays: maxRangeDays,
		logger:       logger,
		now:          time.Now,
	}
}

type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string {
	return e.msg
}

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

type calculateParams struct {
	averageSalary decimal.Decimal
	start         time.Time
	end           time.Time
}

func (h *Handler) parseCalculateParams(r *http.Request) (calculateParams, error) {
	var p calculateParams
	q := r.URL.Query()

	salaryStr := q.Get("averageSalary")
	if salaryStr == "" {
		return p, badRequest("averageSalary is required")
	}
	salary, err := decimal.NewFromString(salaryStr)
	if err != nil {
		return p, badRequest("averageSalary must be a decimal number, got %q", salaryStr)
	}
	if err := vacation.ValidateSalary(salary); err != nil {
		return p, badRequest("averageSalary: %v", err)
	}
	p.averageSalary = salary

	for _, field := range []struct {
		name string
		dst  *time.Time
	}{
		{"startDate", &p.start},
		{"endDate", &p.end},
	} {
		value := q.Get(field.name)
		if value == "" {
			return p, badRequest("%s is required", field.name)
		}
		date, err := dateutil.ParseDate(value)
		if err != nil {
			return p, badRequest("%s must be a date in YYYY-MM-DD format, got %q", field.name, value)
		}
		*field.dst = date
	}

	if p.end.Before(p.start) {
		return p, badRequest("endDate must not be before startDate")
	}
	if days := dateutil.DaysBetween(p.start, p.end); h.maxRangeDays > 0 && days > h.maxRangeDays {
		return p, badRequest("vacation range of %d days exceeds the limit of %d days", days, h.maxRangeDays)
	}

	return p, nil
}

// Calculate handles GET /calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseCalculateParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.calc.Calculate(r.Context(), params.averageSalary, params.start, params.end)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse(result, h.now().UTC()), h.logger)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := h.classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Calculation failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Int("status", status),
			zap.Error(err))
	}
	writeJSON(w, status, errorResponse(message, h.now().UTC()), h.logger)
}

func (h *Handler) classify(err error) (int, string) {
	var badReq *badRequestError
	switch {
	case errors.As(err, &badReq):
		return http.StatusBadRequest, badReq.msg
	case errors.Is(err, vacation.ErrNoWorkingDays):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, calendar.ErrUnavailable):
		return http.StatusServiceUnavailable, "holiday calendar is unavailable, try again later"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// Healthz handles GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz handles GET /readyz
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.readiness != nil && !h.readiness.Ready() {
		http.Error(w, "holidays not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
