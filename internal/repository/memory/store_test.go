package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
)

func TestAttendanceRepository_UniquePerEmployeeDay(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(NewStore())
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: day})
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: day})
	assert.ErrorIs(t, err, shared.ErrDuplicateRecord)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-2", Date: day})
	assert.NoError(t, err)
}

func TestAttendanceRepository_ListPaginates(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(NewStore())
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: start.AddDate(0, 0, i)})
		require.NoError(t, err)
	}

	items, total, err := repo.List(ctx, attendance.AttendanceFilter{
		EmployeeID: "emp-1",
		Pagination: shared.Pagination{Page: 2, Limit: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, start.AddDate(0, 0, 2), items[0].Date)
}

func TestPayrollRepository_OneActivePerPeriod(t *testing.T) {
	ctx := context.Background()
	repo := NewPayrollRepository(NewStore())
	rec := payroll.PayrollRecord{
		EmployeeID: "emp-1",
		PayPeriod:  payroll.PayPeriod{Month: 3, Year: 2024},
		Status:     payroll.PayrollStatusDraft,
		IsActive:   true,
	}

	first, err := repo.Create(ctx, rec)
	require.NoError(t, err)

	_, err = repo.Create(ctx, rec)
	assert.ErrorIs(t, err, shared.ErrDuplicateRecord)

	first.IsActive = false
	require.NoError(t, repo.Update(ctx, first))

	_, err = repo.Create(ctx, rec)
	assert.NoError(t, err)
}
