package attendance

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-engine/internal/repository/memory"
)

type fixture struct {
	svc    attendance.AttendanceService
	clock  *clock.Fixed
	events *messaging.Recorder
}

func setup(t *testing.T, start time.Time) fixture {
	t.Helper()
	clk := clock.NewFixed(start)
	events := messaging.NewRecorder(32)
	svc := NewAttendanceService(
		memory.NewAttendanceRepository(memory.NewStore()),
		attendance.DefaultPolicy(),
		events,
		clk,
		slog.New(slog.DiscardHandler),
	)
	return fixture{svc: svc, clock: clk, events: events}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 1, hour, minute, 0, 0, time.UTC)
}

func TestFullAttendanceCycle(t *testing.T) {
	ctx := context.Background()
	f := setup(t, at(9, 0))

	rec, err := f.svc.ClockIn(ctx, attendance.ClockInCommand{EmployeeID: "emp-1", Location: "HQ", Method: attendance.MethodWeb})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.False(t, rec.LateArrival)
	assert.Equal(t, at(0, 0), rec.Date)

	breakStart, breakEnd := at(13, 0), at(13, 30)
	f.clock.Set(at(13, 30))
	rec, err = f.svc.AddBreak(ctx, attendance.AddBreakCommand{
		EmployeeID: "emp-1",
		Type:       attendance.BreakLunch,
		StartTime:  &breakStart,
		EndTime:    &breakEnd,
	})
	require.NoError(t, err)
	require.Len(t, rec.Breaks, 1)
	assert.Equal(t, 30, rec.Breaks[0].DurationMinutes)
	assert.Zero(t, rec.WorkingHours)

	f.clock.Set(at(18, 0))
	rec, err = f.svc.ClockOut(ctx, attendance.ClockOutCommand{EmployeeID: "emp-1", Location: "HQ", Method: attendance.MethodWeb})
	require.NoError(t, err)
	assert.InDelta(t, 8.5, rec.WorkingHours, 1e-9)
	assert.InDelta(t, 0.5, rec.OvertimeHours, 1e-9)
	assert.False(t, rec.EarlyDeparture)

	_, err = f.svc.ClockIn(ctx, attendance.ClockInCommand{EmployeeID: "emp-1", Method: attendance.MethodWeb})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	_, err = f.svc.ClockOut(ctx, attendance.ClockOutCommand{EmployeeID: "emp-1", Method: attendance.MethodWeb})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)

	assert.Equal(t, []string{
		messaging.EventAttendanceClockIn,
		messaging.EventAttendanceBreakAdded,
		messaging.EventAttendanceClockOut,
	}, f.events.Types())
}

func TestClockIn_Late(t *testing.T) {
	f := setup(t, at(9, 20))

	rec, err := f.svc.ClockIn(context.Background(), attendance.ClockInCommand{EmployeeID: "emp-1", Method: attendance.MethodMobile})
	require.NoError(t, err)
	assert.True(t, rec.LateArrival)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
}

func TestClockOut_WithoutRecord(t *testing.T) {
	f := setup(t, at(17, 0))

	_, err := f.svc.ClockOut(context.Background(), attendance.ClockOutCommand{EmployeeID: "emp-1", Method: attendance.MethodWeb})
	assert.ErrorIs(t, err, attendance.ErrNoClockInFound)

	_, err = f.svc.AddBreak(context.Background(), attendance.AddBreakCommand{EmployeeID: "emp-1", Type: attendance.BreakTea})
	assert.ErrorIs(t, err, attendance.ErrNoAttendanceRecord)
}

func TestClockOut_EarlyDeparture(t *testing.T) {
	ctx := context.Background()
	f := setup(t, at(8, 55))

	_, err := f.svc.ClockIn(ctx, attendance.ClockInCommand{EmployeeID: "emp-1", Method: attendance.MethodWeb})
	require.NoError(t, err)

	f.clock.Set(at(15, 55))
	rec, err := f.svc.ClockOut(ctx, attendance.ClockOutCommand{EmployeeID: "emp-1", Method: attendance.MethodWeb})
	require.NoError(t, err)
	assert.True(t, rec.EarlyDeparture)
	assert.InDelta(t, 7.0, rec.WorkingHours, 1e-9)
	assert.Zero(t, rec.OvertimeHours)
}

func TestAddBreak_AfterClockOutRecomputes(t *testing.T) {
	ctx := context.Background()
	f := setup(t, at(9, 0))

	_, err := f.svc.ClockIn(ctx, attendance.ClockInCommand{EmployeeID: "emp-1", Method: attendance.MethodWeb})
	require.NoError(t, err)
	f.clock.Set(at(17, 0))
	_, err = f.svc.ClockOut(ctx, attendance.ClockOutCommand{EmployeeID: "emp-1", Method: attendance.MethodWeb})
	require.NoError(t, err)

	start, end := at(12, 0), at(13, 0)
	rec, err := f.svc.AddBreak(ctx, attendance.AddBreakCommand{EmployeeID: "emp-1", Type: attendance.BreakLunch, StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	assert.InDelta(t, 7.0, rec.WorkingHours, 1e-9)
}

func TestAddBreak_EndBeforeImplicitStart(t *testing.T) {
	ctx := context.Background()
	f := setup(t, at(9, 0))

	_, err := f.svc.ClockIn(ctx, attendance.ClockInCommand{EmployeeID: "emp-1", Method: attendance.MethodWeb})
	require.NoError(t, err)

	f.clock.Set(at(12, 0))
	end := at(11, 0)
	_, err = f.svc.AddBreak(ctx, attendance.AddBreakCommand{EmployeeID: "emp-1", Type: attendance.BreakTea, EndTime: &end})
	assert.ErrorIs(t, err, shared.ErrInvalidInterval)
}

func TestManualEntry(t *testing.T) {
	ctx := context.Background()
	f := setup(t, at(10, 0))

	rec, err := f.svc.ManualEntry(ctx, attendance.ManualEntryCommand{
		EmployeeID: "emp-1",
		Date:       "2024-02-28",
		Action:     attendance.ManualCheckIn,
		Timestamp:  time.Date(2024, 2, 28, 8, 30, 0, 0, time.UTC),
		Reason:     "forgot to clock in",
		EnteredBy:  "mgr-1",
	})
	require.NoError(t, err)
	assert.True(t, rec.IsManualEntry)
	assert.Equal(t, attendance.MethodManual, rec.CheckIn.Method)
	assert.Equal(t, "forgot to clock in", rec.Remarks)

	_, err = f.svc.ManualEntry(ctx, attendance.ManualEntryCommand{
		EmployeeID: "emp-1",
		Date:       "2024-02-28",
		Action:     attendance.ManualCheckOut,
		Timestamp:  time.Date(2024, 2, 28, 8, 0, 0, 0, time.UTC),
		Reason:     "typo",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidInterval)

	rec, err = f.svc.ManualEntry(ctx, attendance.ManualEntryCommand{
		EmployeeID: "emp-1",
		Date:       "2024-02-28",
		Action:     attendance.ManualCheckOut,
		Timestamp:  time.Date(2024, 2, 28, 17, 30, 0, 0, time.UTC),
		Reason:     "forgot to clock out",
		Remarks:    "badge reader offline",
	})
	require.NoError(t, err)
	assert.Equal(t, "forgot to clock out - badge reader offline", rec.Remarks)
	assert.InDelta(t, 9.0, rec.WorkingHours, 1e-9)
	assert.InDelta(t, 1.0, rec.OvertimeHours, 1e-9)

	page, err := f.svc.List(ctx, attendance.AttendanceFilter{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalItems)
}

func TestManualEntry_LateCheckInStaysPresent(t *testing.T) {
	f := setup(t, at(10, 0))

	rec, err := f.svc.ManualEntry(context.Background(), attendance.ManualEntryCommand{
		EmployeeID: "emp-1",
		Date:       "2024-02-28",
		Action:     attendance.ManualCheckIn,
		Timestamp:  time.Date(2024, 2, 28, 9, 45, 0, 0, time.UTC),
		Reason:     "forgot to clock in",
	})
	require.NoError(t, err)
	assert.True(t, rec.LateArrival)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
}

func TestManualEntry_TimestampOnAnotherDay(t *testing.T) {
	f := setup(t, at(10, 0))

	_, err := f.svc.ManualEntry(context.Background(), attendance.ManualEntryCommand{
		EmployeeID: "emp-1",
		Date:       "2024-02-28",
		Action:     attendance.ManualCheckOut,
		Timestamp:  time.Date(2024, 2, 29, 1, 0, 0, 0, time.UTC),
		Reason:     "night shift",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "timestamp")

	page, err := f.svc.List(context.Background(), attendance.AttendanceFilter{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalItems)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	f := setup(t, at(9, 30))

	_, err := f.svc.ClockIn(ctx, attendance.ClockInCommand{EmployeeID: "emp-1", Method: attendance.MethodWeb})
	require.NoError(t, err)
	f.clock.Set(at(18, 30))
	_, err = f.svc.ClockOut(ctx, attendance.ClockOutCommand{EmployeeID: "emp-1", Method: attendance.MethodWeb})
	require.NoError(t, err)

	f.clock.Set(at(9, 0).AddDate(0, 0, 3))
	_, err = f.svc.ClockIn(ctx, attendance.ClockInCommand{EmployeeID: "emp-1", Method: attendance.MethodWeb})
	require.NoError(t, err)

	summary, err := f.svc.Summary(ctx, attendance.SummaryFilter{
		EmployeeID: "emp-1",
		From:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalDays)
	assert.Equal(t, int64(2), summary.PresentDays)
	assert.Equal(t, int64(1), summary.LateDays)
	assert.Equal(t, 9.0, summary.TotalWorkingHours)
	assert.Equal(t, 1.0, summary.TotalOvertime)
	assert.Equal(t, 100.0, summary.AttendanceRate)

	_, err = f.svc.Summary(ctx, attendance.SummaryFilter{From: at(0, 0), To: at(0, 0)})
	assert.ErrorIs(t, err, shared.ErrInvalidInterval)
}

func TestToday(t *testing.T) {
	ctx := context.Background()
	f := setup(t, at(9, 0))

	_, err := f.svc.Today(ctx, "emp-1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	created, err := f.svc.ClockIn(ctx, attendance.ClockInCommand{EmployeeID: "emp-1", Method: attendance.MethodWeb})
	require.NoError(t, err)

	got, err := f.svc.Today(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	byID, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", byID.EmployeeID)
}
