package assignment

import (
	"time"

	"github.com/planora/planora/pkg/serrors"
)

// DateRange is a whole-day interval with inclusive bounds. Two ranges
// overlap when they share at least one day; adjacent ranges sharing no
// day do not overlap.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: truncateDay(start), End: truncateDay(end)}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return serrors.NewValidation("RANGE_REQUIRED", "start and end dates are required")
	}
	if r.End.Before(r.Start) {
		return serrors.NewValidation("RANGE_INVERTED", "end date must not be before start date")
	}
	return nil
}

// Overlaps uses the inclusive rule: s1 <= e2 && s2 <= e1.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
