package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountDays(t *testing.T) {
	n, err := CountDays(day(2024, 3, 1), day(2024, 3, 5), false)
	require.NoError(t, err)
	assert.Equal(t, 5.0, n)

	n, err = CountDays(day(2024, 3, 1), day(2024, 3, 1), false)
	require.NoError(t, err)
	assert.Equal(t, 1.0, n)

	n, err = CountDays(day(2024, 3, 1), day(2024, 3, 5), true)
	require.NoError(t, err)
	assert.Equal(t, 0.5, n)
}

func TestCountDays_RejectsInvertedRange(t *testing.T) {
	_, err := CountDays(day(2024, 3, 5), day(2024, 3, 1), false)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.ErrorIs(t, err, shared.ErrInvalidInterval)

	_, err = CountDays(day(2024, 3, 5), day(2024, 3, 1), true)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestBuildBalance(t *testing.T) {
	b := DefaultAllocations().BuildBalance("e1", 2024, map[LeaveType]float64{
		LeaveTypeAnnual: 6.5,
		LeaveTypeUnpaid: 4,
	})

	require.Len(t, b.Entries, 7)
	assert.Equal(t, BalanceEntry{LeaveType: LeaveTypeAnnual, Allocated: 20, Used: 6.5, Remaining: 13.5}, b.Entries[0])
	assert.Equal(t, BalanceEntry{LeaveType: LeaveTypeSick, Allocated: 10, Used: 0, Remaining: 10}, b.Entries[1])
	assert.Equal(t, LeaveTypeEmergency, b.Entries[6].LeaveType)
	assert.Equal(t, 3.0, b.Entries[6].Allocated)
}

func TestSubmitCommand_Validate(t *testing.T) {
	valid := SubmitCommand{
		EmployeeID: "e1",
		LeaveType:  LeaveTypeAnnual,
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-05",
		Reason:     "family trip",
	}
	assert.NoError(t, valid.Validate())

	halfDay := valid
	halfDay.IsHalfDay = true
	assert.Error(t, halfDay.Validate(), "half day needs a period")

	morning := HalfDayMorning
	halfDay.HalfDayPeriod = &morning
	assert.NoError(t, halfDay.Validate())

	badType := valid
	badType.LeaveType = "sabbatical"
	assert.Error(t, badType.Validate())
}
