package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/modules/scheduling/domain/entities/holiday"
)

type mockHolidayRepo struct {
	holidays []holiday.Holiday
}

func (m *mockHolidayRepo) ListRange(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range m.holidays {
		if !h.Day.Before(from) && !h.Day.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *mockHolidayRepo) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	h.ID = uuid.New()
	m.holidays = append(m.holidays, h)
	return h, nil
}

func (m *mockHolidayRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, h := range m.holidays {
		if h.ID == id {
			m.holidays = append(m.holidays[:i], m.holidays[i+1:]...)
			return nil
		}
	}
	return holiday.ErrNotFound
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDaysService_WorkingDays(t *testing.T) {
	svc := NewWorkingDaysService(&mockHolidayRepo{})

	// January 2024 has 23 weekdays.
	days, err := svc.WorkingDays(context.Background(), 2024, 1)
	require.NoError(t, err)
	require.Equal(t, 23, days)
}

func TestWorkingDaysService_HolidaysReduceCount(t *testing.T) {
	repo := &mockHolidayRepo{holidays: []holiday.Holiday{
		{ID: uuid.New(), Day: day(2024, time.January, 1), Name: "New Year"},
		// Falls on a Saturday, must not be counted twice.
		{ID: uuid.New(), Day: day(2024, time.January, 6), Name: "Epiphany"},
	}}
	svc := NewWorkingDaysService(repo)

	days, err := svc.WorkingDays(context.Background(), 2024, 1)
	require.NoError(t, err)
	require.Equal(t, 22, days)
}

func TestWorkingDaysService_BoundsChecked(t *testing.T) {
	svc := NewWorkingDaysService(&mockHolidayRepo{})

	_, err := svc.WorkingDays(context.Background(), 1999, 1)
	require.Error(t, err)

	_, err = svc.WorkingDays(context.Background(), 2101, 6)
	require.Error(t, err)

	_, err = svc.WorkingDays(context.Background(), 2024, 13)
	require.Error(t, err)
}

func TestWorkingDaysService_Range(t *testing.T) {
	svc := NewWorkingDaysService(&mockHolidayRepo{})

	// Mon 2024-01-01 through Sun 2024-01-07: five weekdays.
	days, err := svc.Range(context.Background(), day(2024, time.January, 1), day(2024, time.January, 7))
	require.NoError(t, err)
	require.Equal(t, 5, days)

	_, err = svc.Range(context.Background(), day(2024, time.January, 7), day(2024, time.January, 1))
	require.Error(t, err)
}

func TestWorkingDaysService_Hours(t *testing.T) {
	svc := NewWorkingDaysService(&mockHolidayRepo{})

	hours, err := svc.Hours(context.Background(), 2024, 1, 8)
	require.NoError(t, err)
	require.InDelta(t, 184.0, hours, 0.001)

	_, err = svc.Hours(context.Background(), 2024, 1, 0)
	require.Error(t, err)
}

func TestWorkingDaysService_ForecastHours(t *testing.T) {
	svc := NewWorkingDaysService(&mockHolidayRepo{})

	forecast, err := svc.ForecastHours(context.Background(), 2024, 11, 3, 0.8, 8)
	require.NoError(t, err)
	require.Len(t, forecast, 3)

	// Forecast rolls over the year boundary.
	require.Equal(t, 2024, forecast[0].Year)
	require.Equal(t, 11, forecast[0].Month)
	require.Equal(t, 2025, forecast[2].Year)
	require.Equal(t, 1, forecast[2].Month)

	// November 2024 has 21 weekdays.
	require.Equal(t, 21, forecast[0].WorkingDays)
	require.InDelta(t, 21*8*0.8, forecast[0].Hours, 0.001)
}

func TestWorkingDaysService_ForecastBounds(t *testing.T) {
	svc := NewWorkingDaysService(&mockHolidayRepo{})
	ctx := context.Background()

	_, err := svc.ForecastHours(ctx, 2024, 1, 0, 0.8, 8)
	require.Error(t, err)

	_, err = svc.ForecastHours(ctx, 2024, 1, 37, 0.8, 8)
	require.Error(t, err)

	_, err = svc.ForecastHours(ctx, 2024, 1, 6, 0, 8)
	require.Error(t, err)

	_, err = svc.ForecastHours(ctx, 2024, 1, 6, 1.6, 8)
	require.Error(t, err)

	// Utilization at the upper bound is allowed.
	_, err = svc.ForecastHours(ctx, 2024, 1, 6, 1.5, 8)
	require.NoError(t, err)
}
