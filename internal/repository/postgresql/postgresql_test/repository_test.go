package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
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
	"github.com/cmlabs-hris/hris-engine/internal/repository/postgresql"
)

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestAttendanceRepository_CreateAndFind(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	checkIn := day.Add(9 * time.Hour)
	created, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID: "emp-1",
		Date:       day,
		CheckIn:    &attendance.Punch{Time: checkIn, Location: "HQ", Method: attendance.MethodWeb},
		Status:     attendance.StatusPresent,
		CreatedAt:  day,
		UpdatedAt:  day,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := repo.GetByEmployeeAndDate(ctx, "emp-1", day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.CheckIn)
	assert.True(t, checkIn.Equal(found.CheckIn.Time))
	assert.Equal(t, "HQ", found.CheckIn.Location)
	assert.Nil(t, found.CheckOut)
	assert.Empty(t, found.Breaks)

	end := checkIn.Add(30 * time.Minute)
	found.Breaks = append(found.Breaks, attendance.Break{StartTime: checkIn, EndTime: &end, Type: attendance.BreakTea, DurationMinutes: 30})
	require.NoError(t, repo.Update(ctx, *found))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Breaks, 1)
	assert.Equal(t, 30, got.Breaks[0].DurationMinutes)

	missing, err := repo.GetByEmployeeAndDate(ctx, "emp-2", day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttendanceRepository_UniquePerEmployeeDay(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: day, Status: attendance.StatusPresent})
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: day, Status: attendance.StatusPresent})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)
	assert.ErrorIs(t, err, shared.ErrDuplicateRecord)
}

func TestAttendanceRepository_Summarize(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	records := []attendance.Attendance{
		{EmployeeID: "emp-1", Date: day, Status: attendance.StatusPresent, WorkingHours: 8, OvertimeHours: 1},
		{EmployeeID: "emp-1", Date: day.AddDate(0, 0, 1), Status: attendance.StatusLate, LateArrival: true, WorkingHours: 7.5},
		{EmployeeID: "emp-1", Date: day.AddDate(0, 0, 2), Status: attendance.StatusAbsent},
	}
	for _, r := range records {
		_, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}

	c, err := repo.Summarize(ctx, attendance.SummaryFilter{EmployeeID: "emp-1", From: day, To: day.AddDate(0, 1, 0)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.TotalDays)
	assert.Equal(t, int64(2), c.PresentDays)
	assert.Equal(t, int64(1), c.AbsentDays)
	assert.Equal(t, int64(1), c.LateDays)
	assert.InDelta(t, 15.5, c.TotalWorkingHours, 0.001)
	assert.InDelta(t, 1.0, c.TotalOvertime, 0.001)

	items, total, err := repo.List(ctx, attendance.AttendanceFilter{
		EmployeeID: "emp-1",
		Pagination: shared.Pagination{Page: 1, Limit: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.True(t, day.AddDate(0, 0, 2).Equal(items[0].Date))
}

func TestLeaveRequestRepository_SumDaysByType(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRequestRepository(setup.DB)

	requests := []leave.LeaveRequest{
		{EmployeeID: "emp-1", LeaveType: leave.LeaveTypeAnnual, StartDate: day, EndDate: day.AddDate(0, 0, 2), TotalDays: 3, Reason: "trip", Status: leave.LeaveRequestStatusApproved},
		{EmployeeID: "emp-1", LeaveType: leave.LeaveTypeAnnual, StartDate: day.AddDate(0, 1, 0), EndDate: day.AddDate(0, 1, 0), TotalDays: 1, Reason: "errand", Status: leave.LeaveRequestStatusPending},
		{EmployeeID: "emp-1", LeaveType: leave.LeaveTypeSick, StartDate: day.AddDate(0, 0, 7), EndDate: day.AddDate(0, 0, 7), TotalDays: 0.5, IsHalfDay: true, Reason: "flu", Status: leave.LeaveRequestStatusApproved},
	}
	for _, r := range requests {
		_, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}

	from, to := leave.YearRange(2024, time.UTC)
	used, err := repo.SumDaysByType(ctx, "emp-1", from, to, []leave.LeaveRequestStatus{leave.LeaveRequestStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, 3.0, used[leave.LeaveTypeAnnual])
	assert.Equal(t, 0.5, used[leave.LeaveTypeSick])

	items, total, err := repo.List(ctx, leave.LeaveRequestFilter{EmployeeID: "emp-1", Status: leave.LeaveRequestStatusPending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "errand", items[0].Reason)
}

func TestPayrollRepository_OneActivePerPeriod(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(setup.DB)

	salary := payroll.Normalize(payroll.Salary{BasicSalary: decimal.NewFromInt(50000)})
	rec := payroll.PayrollRecord{
		EmployeeID: "emp-1",
		PayPeriod:  payroll.PayPeriod{Month: 3, Year: 2024, Start: day, End: day.AddDate(0, 1, -1)},
		Salary:     salary,
		Status:     payroll.PayrollStatusDraft,
		CreatedBy:  "hr-1",
		IsActive:   true,
	}

	first, err := repo.Create(ctx, rec)
	require.NoError(t, err)
	assert.True(t, salary.NetSalary.Equal(first.Salary.NetSalary))

	_, err = repo.Create(ctx, rec)
	assert.ErrorIs(t, err, payroll.ErrDuplicatePayrollPeriod)

	first.IsActive = false
	first.Status = payroll.PayrollStatusCancelled
	require.NoError(t, repo.Update(ctx, first))

	active, err := repo.Create(ctx, rec)
	require.NoError(t, err)

	found, err := repo.GetActiveByPeriod(ctx, "emp-1", 3, 2024)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, active.ID, found.ID)

	sum, err := repo.Summarize(ctx, payroll.SummaryFilter{Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.TotalEmployees)
	assert.True(t, salary.GrossSalary.Equal(sum.TotalGrossSalary))
}

func TestInterviewRepository_ListBlocking(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewInterviewRepository(setup.DB)

	base := interview.Interview{
		CandidateID:   "cand-1",
		CandidateName: "Dana",
		Position:      "Engineer",
		InterviewerID: "int-1",
		Type:          interview.InterviewTypeVideo,
		Scheduling:    interview.Scheduling{Date: day, Time: "10:00", DurationMinutes: 60, Timezone: "UTC"},
		Status:        interview.InterviewStatusScheduled,
		CreatedBy:     "hr-1",
		IsActive:      true,
	}
	scheduled, err := repo.Create(ctx, base)
	require.NoError(t, err)

	cancelled := base
	cancelled.Scheduling.Time = "14:00"
	cancelled.Status = interview.InterviewStatusCancelled
	_, err = repo.Create(ctx, cancelled)
	require.NoError(t, err)

	blocking, err := repo.ListBlocking(ctx, interview.BlockingFilter{
		InterviewerID: "int-1",
		From:          day.AddDate(0, 0, -1),
		To:            day.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	require.Len(t, blocking, 1)
	assert.Equal(t, scheduled.ID, blocking[0].ID)

	now := day.Add(8 * time.Hour)
	scheduled.Notifications.ReminderSentAt = &now
	scheduled.Feedback = &interview.Feedback{OverallRating: 7.5, SubmittedBy: "int-1", SubmittedAt: now}
	require.NoError(t, repo.Update(ctx, scheduled))

	got, err := repo.GetByID(ctx, scheduled.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Feedback)
	assert.Equal(t, 7.5, got.Feedback.OverallRating)
	require.NotNil(t, got.Notifications.ReminderSentAt)
}

func TestEmployeeRepository_Unique(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	e := employee.Employee{
		EmployeeCode: "EMP-001",
		FullName:     "Ayu Lestari",
		Email:        "ayu@example.com",
		Role:         user.RoleEmployee,
		BaseSalary:   decimal.NewFromInt(50000),
		IsActive:     true,
		HireDate:     day,
	}
	created, err := repo.Create(ctx, e)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50000).Equal(created.BaseSalary))

	dup := e
	dup.Email = "other@example.com"
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	dup = e
	dup.EmployeeCode = "EMP-002"
	dup.Email = "AYU@example.com"
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	items, total, err := repo.List(ctx, employee.EmployeeFilter{Search: "lestari"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
}

func TestWithTransaction_RollsBackRepositoryWrites(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	errAbort := errors.New("abort")
	err := postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context, _ pgx.Tx) error {
		_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-tx", Date: day, Status: attendance.StatusPresent})
		require.NoError(t, err)
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	found, err := repo.GetByEmployeeAndDate(ctx, "emp-tx", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, found)
}
