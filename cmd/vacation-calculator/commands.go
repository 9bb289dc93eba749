package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/EkaterinaAI/VacationSalaryCalculator/internal/calendar"
	"github.com/EkaterinaAI/VacationSalaryCalculator/internal/config"
	"github.com/EkaterinaAI/VacationSalaryCalculator/internal/server"
	"github.com/EkaterinaAI/VacationSalaryCalculator/internal/vacation"
	"github.com/EkaterinaAI/VacationSalaryCalculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			table, err := initializeTable(cmd.Context(), cfg, cfg.Calendar.GetPreloadYears(time.Now()))
			if err != nil {
				return err
			}

			calc := vacation.NewCalculator(table, logger)
			handler := server.NewHandler(calc, table, cfg.Vacation.MaxRangeDays, logger)
			srv := server.New(server.Options{
				Addr:            cfg.Server.Addr,
				ReadTimeout:     cfg.Server.GetReadTimeout(),
				WriteTimeout:    cfg.Server.GetWriteTimeout(),
				ShutdownTimeout: cfg.Server.GetShutdownTimeout(),
			}, handler, logger)

			return srv.Start()
		},
	}
}

func calcCmd() *cobra.Command {
	var salaryStr, startStr, endStr string

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate vacation pay and print the per-month breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			salary, err := decimal.NewFromString(salaryStr)
			if err != nil {
				return fmt.Errorf("invalid --salary %q: %w", salaryStr, err)
			}
			if err := vacation.ValidateSalary(salary); err != nil {
				return fmt.Errorf("invalid --salary: %w", err)
			}
			start, err := dateutil.ParseDate(startStr)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			end, err := dateutil.ParseDate(endStr)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			table, err := initializeTable(cmd.Context(), cfg, yearsBetween(start, end))
			if err != nil {
				return err
			}

			return runCalc(cmd.Context(), cmd.OutOrStdout(), vacation.NewCalculator(table, logger), salary, start, end)
		},
	}

	cmd.Flags().StringVar(&salaryStr, "salary", "", "Average monthly salary")
	cmd.Flags().StringVar(&startStr, "start", "", "First vacation day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "Last vacation day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("salary")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func holidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Print public holidays of the configured region",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			table, err := initializeTable(cmd.Context(), cfg, []int{year})
			if err != nil {
				return err
			}

			set, err := table.Holidays(cmd.Context(), year)
			if err != nil {
				return err
			}
			printHolidays(cmd.OutOrStdout(), set)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Calendar year")

	return cmd
}

func runCalc(ctx context.Context, out io.Writer, calc *vacation.Calculator, salary decimal.Decimal, start, end time.Time) error {
	months, err := calc.Breakdown(ctx, salary, start, end)
	if err != nil {
		return err
	}
	workingDays, pay := vacation.Total(months)

	fmt.Fprintf(out, "Vacation %s .. %s, average salary %s\n",
		dateutil.FormatDate(start),
		dateutil.FormatDate(end),
		salary.StringFixed(vacation.CurrencyPlaces))
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(out, "  Month    | Vacation days | Month days | Daily rate |        Pay")
	fmt.Fprintln(out, "-----------+---------------+------------+------------+-----------")
	for _, m := range months {
		fmt.Fprintf(out, "  %d-%02d  | %13d | %10d | %10s | %10s\n",
			m.Year, int(m.Month),
			m.VacationDays,
			m.MonthWorkingDays,
			m.DailyRate.StringFixed(vacation.CurrencyPlaces),
			m.Pay.StringFixed(vacation.CurrencyPlaces))
	}
	fmt.Fprintf(out, "\n  Working days: %d\n", workingDays)
	fmt.Fprintf(out, "  Vacation pay: %s\n", pay)
	return nil
}

func printHolidays(out io.Writer, set *calendar.HolidaySet) {
	fmt.Fprintf(out, "Holidays %s %d (weekdays only): %d\n", strings.ToUpper(set.Region), set.Year, set.Len())
	for _, h := range set.Holidays() {
		name := h.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(out, "  %s  %-3s  %s\n", dateutil.FormatDate(h.Date), h.Date.Weekday().String()[:3], name)
	}
}

func yearsBetween(start, end time.Time) []int {
	if end.Before(start) {
		return []int{start.Year()}
	}
	years := make([]int, 0, end.Year()-start.Year()+1)
	for y := start.Year(); y <= end.Year(); y++ {
		years = append(years, y)
	}
	return years
}

// initializeTable builds the configured calendar and preloads years into a table
func initializeTable(ctx context.Context, cfg *config.Config, years []int) (*calendar.Table, error) {
	cal, err := buildCalendar(cfg)
	if err != nil {
		return nil, err
	}

	table := calendar.NewTable(cal, cfg.Calendar.Region, cfg.Calendar.GetCacheTTL(), logger)
	if err := table.Preload(ctx, years...); err != nil {
		return nil, fmt.Errorf("failed to preload holidays: %w", err)
	}
	return table, nil
}

func buildCalendar(cfg *config.Config) (calendar.Calendar, error) {
	calCfg := cfg.Calendar

	switch calCfg.Type {
	case "", config.CalendarBuiltin:
		logger.Info("Using builtin holiday rules", zap.String("region", calCfg.Region))
		return calendar.NewBuiltinCalendar(), nil

	case config.CalendarIsDayOff:
		logger.Info("Using isdayoff.ru calendar API", zap.String("region", calCfg.Region))
		primary := calendar.NewIsDayOffCalendar(
			calCfg.IsDayOffURL,
			calCfg.FallbackURL,
			calCfg.GetHTTPTimeout(),
			logger,
		)
		return withFallback(primary, calCfg)

	case config.CalendarProduction:
		logger.Info("Using production-calendar.ru API", zap.String("region", calCfg.Region))
		primary := calendar.NewProductionCalendar(
			calCfg.APIURL,
			calCfg.APIToken,
			calCfg.GetHTTPTimeout(),
			logger,
		)
		return withFallback(primary, calCfg)

	case config.CalendarFile:
		logger.Info("Using local calendar file", zap.String("file", calCfg.File))
		fc := calendar.NewFileCalendar(calCfg.File, calCfg.Region, logger)
		if err := fc.Load(); err != nil {
			return nil, err
		}
		return fc, nil

	default:
		return nil, fmt.Errorf("unknown calendar type: %s", calCfg.Type)
	}
}

// withFallback puts a local file, or the builtin rules for "ru", behind a remote calendar
func withFallback(primary calendar.Calendar, calCfg config.CalendarConfig) (calendar.Calendar, error) {
	if calCfg.FallbackFile != "" {
		composite := calendar.NewCompositeCalendar(primary,
			calendar.NewFileCalendar(calCfg.FallbackFile, calCfg.Region, logger), logger)
		if err := composite.LoadFallback(); err != nil {
			logger.Warn("Failed to load fallback calendar, continuing with API only",
				zap.Error(err))
			return primary, nil
		}
		return composite, nil
	}

	if strings.EqualFold(strings.TrimSpace(calCfg.Region), calendar.RegionRU) {
		return calendar.NewCompositeCalendar(primary, calendar.NewBuiltinCalendar(), logger), nil
	}
	return primary, nil
}
