package period_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/hvladder/internal/errors"
	"github.com/vytor/hvladder/internal/period"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func resolverAt(t time.Time) *period.Resolver {
	return period.NewResolver(period.FixedClock(t))
}

func TestResolve_Shorthands(t *testing.T) {
	now := time.Date(2024, time.April, 17, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		shorthand string
		wantStart time.Time
	}{
		{name: "one month", shorthand: "1m", wantStart: day(2024, time.April, 1)},
		{name: "two months", shorthand: "2m", wantStart: day(2024, time.March, 1)},
		{name: "all time", shorthand: "", wantStart: period.Epoch},
		{name: "unknown shorthand", shorthand: "3w", wantStart: period.Epoch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := resolverAt(now).Resolve(tt.shorthand, "", "")
			require.NoError(t, err)
			assert.Equal(t, tt.shorthand, p.Name)
			assert.Equal(t, tt.wantStart, p.Start)
			assert.Equal(t, day(2024, time.April, 18), p.End, "end defaults to tomorrow")
		})
	}
}

func TestResolve_TwoMonthBlocks(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		p, err := resolverAt(day(2023, m, 10)).Resolve("2m", "", "")
		require.NoError(t, err)
		assert.Equal(t, 1, int(p.Start.Month())%2, "block for %s must start on an odd month", m)
		assert.True(t, p.Start.Month() == m || p.Start.Month() == m-1)
	}
}

func TestResolve_ExplicitDates(t *testing.T) {
	r := resolverAt(day(2024, time.May, 2))

	p, err := r.Resolve("2m", "2024-01-01", "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.January, 1), p.Start, "explicit start wins over shorthand")
	assert.Equal(t, day(2024, time.February, 1), p.End)

	p, err = r.Resolve("", "2024-03-15", "")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.March, 15), p.Start)
	assert.Equal(t, day(2024, time.May, 3), p.End)
}

func TestResolve_Invalid(t *testing.T) {
	r := resolverAt(day(2024, time.May, 2))

	_, err := r.Resolve("", "2024-13-01", "")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = r.Resolve("", "2024-03-01", "2024-02-01")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestPeriod_Contains_HalfOpen(t *testing.T) {
	p, err := resolverAt(day(2024, time.May, 2)).Resolve("", "2024-01-01", "2024-02-01")
	require.NoError(t, err)

	assert.True(t, p.Contains(p.Start), "start is included")
	assert.False(t, p.Contains(p.End), "end is excluded")
	assert.True(t, p.Contains(p.End.Add(-time.Second)))
	assert.False(t, p.Contains(p.Start.Add(-time.Second)))
}

func TestSeason(t *testing.T) {
	p := period.Season(2024, time.April)
	assert.Equal(t, "2024-2", p.Name)
	assert.Equal(t, day(2024, time.March, 1), p.Start)
	assert.Equal(t, day(2024, time.May, 1), p.End)

	p = period.Season(2024, time.November)
	assert.Equal(t, "2024-6", p.Name)
	assert.Equal(t, day(2025, time.January, 1), p.End)
}

func TestSeasonNumber(t *testing.T) {
	assert.Equal(t, 1, period.SeasonNumber(time.January))
	assert.Equal(t, 1, period.SeasonNumber(time.February))
	assert.Equal(t, 2, period.SeasonNumber(time.March))
	assert.Equal(t, 6, period.SeasonNumber(time.December))
}
