package attendance

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
)

func at(h, m int) time.Time {
	return time.Date(2024, 3, 1, h, m, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestRecompute_FullDayWithLunch(t *testing.T) {
	a := Attendance{
		CheckIn:  &Punch{Time: at(9, 0), Method: MethodWeb},
		CheckOut: &Punch{Time: at(18, 0), Method: MethodWeb},
		Breaks:   []Break{{StartTime: at(13, 0), EndTime: ptr(at(13, 30)), Type: BreakLunch}},
	}

	require.NoError(t, Recompute(&a))
	assert.Equal(t, 8.5, a.WorkingHours)
	assert.Equal(t, 0.5, a.OvertimeHours)
}

func TestRecompute_IgnoresOpenBreaks(t *testing.T) {
	a := Attendance{
		CheckIn:  &Punch{Time: at(9, 0)},
		CheckOut: &Punch{Time: at(15, 0)},
		Breaks:   []Break{{StartTime: at(12, 0), Type: BreakPersonal}},
	}

	require.NoError(t, Recompute(&a))
	assert.Equal(t, 6.0, a.WorkingHours)
	assert.Zero(t, a.OvertimeHours)
}

func TestRecompute_ClampsToZero(t *testing.T) {
	a := Attendance{
		CheckIn:  &Punch{Time: at(9, 0)},
		CheckOut: &Punch{Time: at(10, 0)},
		Breaks:   []Break{{StartTime: at(8, 0), EndTime: ptr(at(11, 0))}},
	}

	require.NoError(t, Recompute(&a))
	assert.Zero(t, a.WorkingHours)
	assert.Zero(t, a.OvertimeHours)
}

func TestRecompute_CheckOutMustFollowCheckIn(t *testing.T) {
	for _, out := range []time.Time{at(9, 0), at(8, 59)} {
		a := Attendance{
			CheckIn:  &Punch{Time: at(9, 0)},
			CheckOut: &Punch{Time: out},
		}
		err := Recompute(&a)
		assert.ErrorIs(t, err, ErrCheckOutBeforeCheckIn)
		assert.ErrorIs(t, err, shared.ErrInvalidInterval)
	}
}

func TestRecompute_SkipsIncompleteRecords(t *testing.T) {
	a := Attendance{CheckIn: &Punch{Time: at(9, 0)}, WorkingHours: 3}
	require.NoError(t, Recompute(&a))
	assert.Equal(t, 3.0, a.WorkingHours)
}

func TestRecompute_IsIdempotentAndKeepsOvertimeInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		in := at(6, 0).Add(time.Duration(rng.Intn(6*60)) * time.Minute)
		out := in.Add(time.Duration(1+rng.Intn(14*60)) * time.Minute)

		var breaks []Break
		for j := rng.Intn(4); j > 0; j-- {
			start := in.Add(time.Duration(rng.Intn(8*60)) * time.Minute)
			b := Break{StartTime: start, Type: BreakTea}
			if rng.Intn(3) > 0 {
				b.EndTime = ptr(start.Add(time.Duration(rng.Intn(90)) * time.Minute))
			}
			breaks = append(breaks, b)
		}

		a := Attendance{CheckIn: &Punch{Time: in}, CheckOut: &Punch{Time: out}, Breaks: breaks}
		require.NoError(t, Recompute(&a))
		first := a

		require.NoError(t, Recompute(&a))
		require.NoError(t, Recompute(&a))

		assert.Equal(t, first.WorkingHours, a.WorkingHours)
		assert.Equal(t, first.OvertimeHours, a.OvertimeHours)
		assert.GreaterOrEqual(t, a.WorkingHours, 0.0)
		assert.Equal(t, math.Max(0, a.WorkingHours-8), a.OvertimeHours)
	}
}

func TestBreakDurationMinutes(t *testing.T) {
	assert.Equal(t, 30, BreakDurationMinutes(Break{StartTime: at(13, 0), EndTime: ptr(at(13, 30))}))
	assert.Equal(t, 0, BreakDurationMinutes(Break{StartTime: at(13, 0)}))

	start := at(13, 0)
	assert.Equal(t, 1, BreakDurationMinutes(Break{StartTime: start, EndTime: ptr(start.Add(30 * time.Second))}))
	assert.Equal(t, 0, BreakDurationMinutes(Break{StartTime: start, EndTime: ptr(start.Add(29 * time.Second))}))
}

func TestPolicy(t *testing.T) {
	p := DefaultPolicy()

	assert.False(t, p.IsLate(at(9, 0)))
	assert.False(t, p.IsLate(at(9, 15)))
	assert.True(t, p.IsLate(at(9, 16)))

	assert.True(t, p.IsEarlyDeparture(at(16, 59)))
	assert.False(t, p.IsEarlyDeparture(at(17, 0)))
	assert.False(t, p.IsEarlyDeparture(at(18, 0)))
}

func TestAddBreakCommand_Validate(t *testing.T) {
	cmd := AddBreakCommand{EmployeeID: "e1", Type: BreakLunch, StartTime: ptr(at(13, 0)), EndTime: ptr(at(12, 0))}
	assert.ErrorIs(t, cmd.Validate(), ErrBreakEndBeforeStart)

	cmd.EndTime = nil
	assert.NoError(t, cmd.Validate())

	cmd.Type = "nap"
	assert.Error(t, cmd.Validate())
}
