package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(t *testing.T, v string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.DateOnly, v)
	require.NoError(t, err)
	return parsed
}

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := NewDateRange(day(t, start), day(t, end))
	require.NoError(t, err)
	return r
}

func TestDateRange_Overlaps(t *testing.T) {
	base := mustRange(t, "2024-01-01", "2024-01-31")

	cases := []struct {
		name    string
		other   DateRange
		expects bool
	}{
		{"contained", mustRange(t, "2024-01-10", "2024-01-20"), true},
		{"partial overlap at end", mustRange(t, "2024-01-15", "2024-02-15"), true},
		{"partial overlap at start", mustRange(t, "2023-12-15", "2024-01-05"), true},
		{"covering", mustRange(t, "2023-12-01", "2024-02-28"), true},
		{"same single shared day", mustRange(t, "2024-01-31", "2024-02-10"), true},
		{"adjacent after, no shared day", mustRange(t, "2024-02-01", "2024-02-28"), false},
		{"adjacent before, no shared day", mustRange(t, "2023-12-01", "2023-12-31"), false},
		{"disjoint", mustRange(t, "2024-06-01", "2024-06-30"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expects, base.Overlaps(tc.other))
			require.Equal(t, tc.expects, tc.other.Overlaps(base))
		})
	}
}

func TestNewDateRange_Inverted(t *testing.T) {
	_, err := NewDateRange(day(t, "2024-02-01"), day(t, "2024-01-01"))
	require.Error(t, err)
}

func TestDateRange_Days(t *testing.T) {
	require.Equal(t, 1, mustRange(t, "2024-01-01", "2024-01-01").Days())
	require.Equal(t, 31, mustRange(t, "2024-01-01", "2024-01-31").Days())
}
