package mongodb

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-engine/internal/domain/interview"
	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// newTestDB connects to TEST_MONGODB_URI and returns a fresh, indexed
// database that is dropped when the test ends.
func newTestDB(t *testing.T) *database.MongoDB {
	t.Helper()

	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	ctx := context.Background()
	name := "hris_test_" + strings.ToLower(ulid.Make().String())
	db, err := database.NewMongoDB(ctx, uri, name)
	require.NoError(t, err)
	require.NoError(t, EnsureIndexes(ctx, db))

	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = db.Close(ctx)
	})
	return db
}

func TestAttendanceRepository_UniqueAndSummarize(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewAttendanceRepository(db)

	_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: day, Status: attendance.StatusPresent, WorkingHours: 8})
	require.NoError(t, err)
	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: day, Status: attendance.StatusPresent})
	assert.ErrorIs(t, err, shared.ErrDuplicateRecord)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: day.AddDate(0, 0, 1), Status: attendance.StatusLate, LateArrival: true, WorkingHours: 6.5})
	require.NoError(t, err)
	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: day.AddDate(0, 0, 2), Status: attendance.StatusAbsent})
	require.NoError(t, err)

	c, err := repo.Summarize(ctx, attendance.SummaryFilter{EmployeeID: "emp-1", From: day, To: day.AddDate(0, 1, 0)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.TotalDays)
	assert.Equal(t, int64(2), c.PresentDays)
	assert.Equal(t, int64(1), c.AbsentDays)
	assert.Equal(t, int64(1), c.LateDays)
	assert.InDelta(t, 14.5, c.TotalWorkingHours, 0.001)

	found, err := repo.GetByEmployeeAndDate(ctx, "emp-1", day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, attendance.StatusPresent, found.Status)
}

func TestLeaveRequestRepository_SumDaysByType(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewLeaveRequestRepository(db)

	for _, req := range []leave.LeaveRequest{
		{EmployeeID: "emp-1", LeaveType: leave.LeaveTypeAnnual, StartDate: day, TotalDays: 2, Status: leave.LeaveRequestStatusApproved},
		{EmployeeID: "emp-1", LeaveType: leave.LeaveTypeAnnual, StartDate: day.AddDate(0, 0, 10), TotalDays: 1, Status: leave.LeaveRequestStatusApproved},
		{EmployeeID: "emp-1", LeaveType: leave.LeaveTypeSick, StartDate: day, TotalDays: 1, Status: leave.LeaveRequestStatusRejected},
	} {
		_, err := repo.Create(ctx, req)
		require.NoError(t, err)
	}

	from, to := leave.YearRange(2024, time.UTC)
	used, err := repo.SumDaysByType(ctx, "emp-1", from, to, []leave.LeaveRequestStatus{leave.LeaveRequestStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, map[leave.LeaveType]float64{leave.LeaveTypeAnnual: 3}, used)
}

func TestPayrollRepository_DecimalRoundTripAndSummary(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPayrollRepository(db)

	salary := payroll.Normalize(payroll.Salary{
		BasicSalary: decimal.RequireFromString("50000.55"),
		Deductions:  payroll.Deductions{Tax: decimal.RequireFromString("1200.10")},
	})
	rec := payroll.PayrollRecord{
		EmployeeID: "emp-1",
		PayPeriod:  payroll.PayPeriod{Month: 3, Year: 2024},
		Salary:     salary,
		Status:     payroll.PayrollStatusPending,
		IsActive:   true,
	}

	created, err := repo.Create(ctx, rec)
	require.NoError(t, err)
	_, err = repo.Create(ctx, rec)
	assert.ErrorIs(t, err, payroll.ErrDuplicatePayrollPeriod)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, salary.BasicSalary.Equal(got.Salary.BasicSalary))
	assert.True(t, salary.NetSalary.Equal(got.Salary.NetSalary))

	sum, err := repo.Summarize(ctx, payroll.SummaryFilter{Month: 3, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.TotalEmployees)
	assert.Equal(t, int64(1), sum.PendingCount)
	assert.True(t, salary.GrossSalary.Equal(sum.TotalGrossSalary))
	assert.True(t, decimal.RequireFromString("1200.10").Equal(sum.TotalDeductions))

	got.IsActive = false
	require.NoError(t, repo.Update(ctx, got))
	_, err = repo.Create(ctx, rec)
	assert.NoError(t, err)
}

func TestInterviewRepository_ListBlocking(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewInterviewRepository(db)

	base := interview.Interview{
		InterviewerID: "int-1",
		Scheduling:    interview.Scheduling{Date: day, Time: "10:00", DurationMinutes: 60, Timezone: "UTC"},
		Status:        interview.InterviewStatusRescheduled,
		IsActive:      true,
	}
	kept, err := repo.Create(ctx, base)
	require.NoError(t, err)

	done := base
	done.Status = interview.InterviewStatusCompleted
	_, err = repo.Create(ctx, done)
	require.NoError(t, err)

	blocking, err := repo.ListBlocking(ctx, interview.BlockingFilter{InterviewerID: "int-1", From: day, To: day.AddDate(0, 0, 1)})
	require.NoError(t, err)
	require.Len(t, blocking, 1)
	assert.Equal(t, kept.ID, blocking[0].ID)
}

func TestEmployeeRepository_UniqueEmailIgnoresCase(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEmployeeRepository(db)

	e := employee.Employee{EmployeeCode: "EMP-001", FullName: "Budi Santoso", Email: "budi@example.com", Role: user.RoleEmployee, BaseSalary: decimal.NewFromInt(40000), IsActive: true}
	_, err := repo.Create(ctx, e)
	require.NoError(t, err)

	e.EmployeeCode = "EMP-002"
	e.Email = "BUDI@example.com"
	_, err = repo.Create(ctx, e)
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	items, total, err := repo.List(ctx, employee.EmployeeFilter{Search: "santo"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.True(t, decimal.NewFromInt(40000).Equal(items[0].BaseSalary))
}
