package attendance

import (
	"math"
	"time"
)

// OvertimeThresholdHours is the working time after which hours count as overtime.
const OvertimeThresholdHours = 8.0

// BreakDurationMinutes returns the rounded length of a break, or 0 while it is open.
func BreakDurationMinutes(b Break) int {
	if b.EndTime == nil {
		return 0
	}
	ms := b.EndTime.Sub(b.StartTime).Milliseconds()
	return int(math.Round(float64(ms) / 60000))
}

// CompletedBreakTime sums the completed breaks.
func CompletedBreakTime(breaks []Break) time.Duration {
	var total time.Duration
	for _, b := range breaks {
		if b.Completed() {
			total += b.EndTime.Sub(b.StartTime)
		}
	}
	return total
}

// Recompute derives WorkingHours and OvertimeHours from the stored punches
// and breaks. Records without both punches are left untouched. It is the
// only place those fields are written.
func Recompute(a *Attendance) error {
	if !a.CheckedIn() || !a.CheckedOut() {
		return nil
	}
	if !a.CheckOut.Time.After(a.CheckIn.Time) {
		return ErrCheckOutBeforeCheckIn
	}

	worked := a.CheckOut.Time.Sub(a.CheckIn.Time) - CompletedBreakTime(a.Breaks)
	a.WorkingHours = math.Max(0, worked.Hours())
	a.OvertimeHours = math.Max(0, a.WorkingHours-OvertimeThresholdHours)
	return nil
}

// Policy holds the workday boundaries used to flag late arrivals and early
// departures. Offsets are measured from local midnight.
type Policy struct {
	WorkdayStart time.Duration
	WorkdayEnd   time.Duration
	LateGrace    time.Duration
}

// DefaultPolicy is a 09:00-17:00 day with fifteen minutes of grace.
func DefaultPolicy() Policy {
	return Policy{
		WorkdayStart: 9 * time.Hour,
		WorkdayEnd:   17 * time.Hour,
		LateGrace:    15 * time.Minute,
	}
}

func (p Policy) at(t time.Time, offset time.Duration) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Add(offset)
}

// IsLate reports whether a check-in at t is past the start plus grace.
func (p Policy) IsLate(t time.Time) bool {
	return t.After(p.at(t, p.WorkdayStart+p.LateGrace))
}

// IsEarlyDeparture reports whether a check-out at t is before the end of the workday.
func (p Policy) IsEarlyDeparture(t time.Time) bool {
	return t.Before(p.at(t, p.WorkdayEnd))
}
