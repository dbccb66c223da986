package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	in := time.Date(2024, 3, 1, 23, 59, 59, 999, jakarta)
	got := StartOfDay(in)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, jakarta), got)
	assert.Equal(t, jakarta, got.Location())
}

func TestDayRange(t *testing.T) {
	in := time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC)
	start, end := DayRange(in)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), end)
	assert.False(t, in.Before(start))
	assert.True(t, in.Before(end))
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"friday", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"saturday", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), true},
		{"sunday", time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), true},
		{"monday", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWeekend(tt.day))
		})
	}
}

func TestDurationHours(t *testing.T) {
	a := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	h, err := DurationHours(a, a.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1.5, h)

	h, err = DurationHours(a, a)
	require.NoError(t, err)
	assert.Zero(t, h)

	_, err = DurationHours(a, a.Add(-time.Minute))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestDaysInclusive(t *testing.T) {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }

	n, err := DaysInclusive(d(2024, 3, 1), d(2024, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = DaysInclusive(d(2024, 3, 1), d(2024, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = DaysInclusive(d(2024, 2, 28), d(2024, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 3, n, "leap year")

	_, err = DaysInclusive(d(2024, 3, 5), d(2024, 3, 1))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestDaysInclusive_AcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 is a 23 hour day in New York.
	start := time.Date(2024, 3, 9, 0, 0, 0, 0, ny)
	end := time.Date(2024, 3, 11, 0, 0, 0, 0, ny)

	n, err := DaysInclusive(start, end)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(2024, time.February, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), last)
}

func TestWorkingDays(t *testing.T) {
	first, last := MonthRange(2024, time.March, time.UTC)
	n, err := WorkingDays(first, last)
	require.NoError(t, err)
	assert.Equal(t, 21, n)

	// Saturday to Sunday.
	n, err = WorkingDays(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = WorkingDays(last, first)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestAt(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	got, err := At(day, "10:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), got)

	_, err = At(day, "25:00")
	assert.Error(t, err)

	_, err = At(day, "10.30")
	assert.Error(t, err)
}
