package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora/modules/scheduling/domain/entities/holiday"
	"github.com/planora/planora/pkg/serrors"
)

const (
	minYear        = 2000
	maxYear        = 2100
	maxMonthCount  = 36
	maxUtilization = 1.5
)

// MonthForecast is one month's projected capacity.
type MonthForecast struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	WorkingDays int     `json:"workingDays"`
	Hours       float64 `json:"hours"`
}

// WorkingDaysService counts working days against a tenant's holiday
// calendar. Saturdays, Sundays and tenant holidays are non-working.
type WorkingDaysService struct {
	holidays holiday.Repository
}

func NewWorkingDaysService(holidays holiday.Repository) *WorkingDaysService {
	return &WorkingDaysService{holidays: holidays}
}

// WorkingDays counts the working days of a calendar month.
func (s *WorkingDaysService) WorkingDays(ctx context.Context, year, month int) (int, error) {
	if err := validateMonth(year, month); err != nil {
		return 0, err
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return s.countRange(ctx, from, to)
}

// Range counts working days in [from, to], both bounds inclusive.
func (s *WorkingDaysService) Range(ctx context.Context, from, to time.Time) (int, error) {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return 0, serrors.NewValidation("RANGE_INVERTED", "to must not be before from")
	}
	return s.countRange(ctx, from, to)
}

// Hours returns the workable hours of a month at the given daily rate.
func (s *WorkingDaysService) Hours(ctx context.Context, year, month int, hoursPerDay float64) (float64, error) {
	if hoursPerDay <= 0 {
		return 0, serrors.NewValidation("FIELD_INVALID", "hoursPerDay must be positive")
	}
	days, err := s.WorkingDays(ctx, year, month)
	if err != nil {
		return 0, err
	}
	return float64(days) * hoursPerDay, nil
}

// ForecastHours projects workable hours for monthCount months starting
// at year/month, scaled by the expected utilization.
func (s *WorkingDaysService) ForecastHours(
	ctx context.Context,
	year, month, monthCount int,
	utilization, hoursPerDay float64,
) ([]MonthForecast, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	if monthCount < 1 || monthCount > maxMonthCount {
		return nil, serrors.NewOutOfRangeError("monthCount", 1, maxMonthCount)
	}
	if utilization <= 0 || utilization > maxUtilization {
		return nil, serrors.NewOutOfRangeError("utilization", "0 (exclusive)", maxUtilization)
	}
	if hoursPerDay <= 0 {
		return nil, serrors.NewValidation("FIELD_INVALID", "hoursPerDay must be positive")
	}

	forecast := make([]MonthForecast, 0, monthCount)
	cursor := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < monthCount; i++ {
		days, err := s.countRange(ctx, cursor, cursor.AddDate(0, 1, -1))
		if err != nil {
			return nil, err
		}
		forecast = append(forecast, MonthForecast{
			Year:        cursor.Year(),
			Month:       int(cursor.Month()),
			WorkingDays: days,
			Hours:       float64(days) * hoursPerDay * utilization,
		})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return forecast, nil
}

func (s *WorkingDaysService) AddHoliday(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	if h.Day.IsZero() {
		return holiday.Holiday{}, serrors.NewFieldRequiredError("day")
	}
	if h.Name == "" {
		return holiday.Holiday{}, serrors.NewFieldRequiredError("name")
	}
	h.Day = truncateDay(h.Day)
	return s.holidays.Create(ctx, h)
}

func (s *WorkingDaysService) RemoveHoliday(ctx context.Context, id uuid.UUID) error {
	return s.holidays.Delete(ctx, id)
}

func (s *WorkingDaysService) countRange(ctx context.Context, from, to time.Time) (int, error) {
	holidays, err := s.holidays.ListRange(ctx, from, to)
	if err != nil {
		return 0, err
	}
	off := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		off[truncateDay(h.Day)] = struct{}{}
	}

	count := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		if _, isHoliday := off[day]; isHoliday {
			continue
		}
		count++
	}
	return count, nil
}

func validateMonth(year, month int) error {
	if year < minYear || year > maxYear {
		return serrors.NewOutOfRangeError("year", minYear, maxYear)
	}
	if month < 1 || month > 12 {
		return serrors.NewOutOfRangeError("month", 1, 12)
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
