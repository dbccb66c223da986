// Package calendar holds the day-boundary and duration helpers shared by
// attendance, leave, payroll and interview scheduling.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ErrInvalidInterval is returned when an interval ends before it starts.
var ErrInvalidInterval = errors.New("invalid interval: end is before start")

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayRange returns the half-open range [start, next midnight) covering t's day.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DurationHours returns b-a in fractional hours.
func DurationHours(a, b time.Time) (float64, error) {
	if b.Before(a) {
		return 0, ErrInvalidInterval
	}
	return b.Sub(a).Hours(), nil
}

// civil drops the clock and zone so day arithmetic is immune to DST shifts.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive counts calendar days from start to end, both included.
func DaysInclusive(start, end time.Time) (int, error) {
	s, e := civil(start), civil(end)
	if e.Before(s) {
		return 0, ErrInvalidInterval
	}
	return int(e.Sub(s)/(24*time.Hour)) + 1, nil
}

// MonthRange returns the first and last day of the month in loc.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, -1)
}

var weekdays = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}

// WorkingDays counts Monday to Friday dates between from and to, both included.
func WorkingDays(from, to time.Time) (int, error) {
	start, end := StartOfDay(from), StartOfDay(to)
	if end.Before(start) {
		return 0, ErrInvalidInterval
	}
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   start,
		Until:     end,
		Byweekday: weekdays,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to build working day rule: %w", err)
	}
	return len(rule.All()), nil
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseClock parses a 24h HH:MM string.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// At returns the instant at HH:MM on day's date in day's location.
func At(day time.Time, hhmm string) (time.Time, error) {
	h, m, err := ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location()), nil
}
