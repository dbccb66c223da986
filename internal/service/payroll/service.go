package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/messaging"
)

// generateConcurrency bounds the per-employee fan-out of Generate.
const generateConcurrency = 4

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	rules          payroll.Rules
	publisher      messaging.Publisher
	clock          clock.Clock
	logger         *slog.Logger
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	rules payroll.Rules,
	publisher messaging.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		rules:          rules,
		publisher:      publisher,
		clock:          clk,
		logger:         logger,
	}
}

func (s *PayrollServiceImpl) payPeriod(month, year int) payroll.PayPeriod {
	start, end := calendar.MonthRange(year, time.Month(month), s.clock.Now().Location())
	return payroll.PayPeriod{Month: month, Year: year, Start: start, End: end}
}

func (s *PayrollServiceImpl) getEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (s *PayrollServiceImpl) getRecord(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return payroll.PayrollRecord{}, err
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return record, nil
}

// mutable rejects changes to paid and cancelled records.
func mutable(record payroll.PayrollRecord) error {
	switch {
	case record.Status == payroll.PayrollStatusPaid:
		return payroll.ErrPayrollLocked
	case record.Status == payroll.PayrollStatusCancelled || !record.IsActive:
		return payroll.ErrPayrollCancelled
	}
	return nil
}

// ========== CALCULATION ==========

// Calculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, cmd payroll.CalculateCommand) (payroll.Draft, error) {
	if err := cmd.Validate(); err != nil {
		return payroll.Draft{}, err
	}

	emp, err := s.getEmployee(ctx, cmd.EmployeeID)
	if err != nil {
		return payroll.Draft{}, err
	}

	salary, err := payroll.Calculate(payroll.CalculationInput{
		BaseSalary:    emp.BaseSalary,
		WorkingDays:   cmd.WorkingDays,
		PresentDays:   cmd.PresentDays,
		OvertimeHours: cmd.OvertimeHours,
	}, s.rules)
	if err != nil {
		return payroll.Draft{}, err
	}

	return payroll.Draft{
		EmployeeID: emp.ID,
		PayPeriod:  s.payPeriod(cmd.Month, cmd.Year),
		Salary:     salary,
		Attendance: payroll.AttendanceSummary{
			WorkingDays:   cmd.WorkingDays,
			PresentDays:   cmd.PresentDays,
			AbsentDays:    math.Max(0, float64(cmd.WorkingDays)-cmd.PresentDays),
			OvertimeHours: cmd.OvertimeHours,
		},
	}, nil
}

// ========== RECORDS ==========

// Create implements payroll.PayrollService.
func (s *PayrollServiceImpl) Create(ctx context.Context, cmd payroll.CreateCommand) (payroll.PayrollRecord, error) {
	if err := cmd.Validate(); err != nil {
		return payroll.PayrollRecord{}, err
	}
	if _, err := s.getEmployee(ctx, cmd.EmployeeID); err != nil {
		return payroll.PayrollRecord{}, err
	}

	return s.insert(ctx, payroll.Draft{
		EmployeeID: cmd.EmployeeID,
		PayPeriod:  s.payPeriod(cmd.Month, cmd.Year),
		Salary:     cmd.Salary,
		Attendance: cmd.Attendance,
	}, cmd.Notes, cmd.CreatedBy.UserID)
}

// insert stores a draft as a new active record unless its period is taken.
func (s *PayrollServiceImpl) insert(ctx context.Context, draft payroll.Draft, notes, createdBy string) (payroll.PayrollRecord, error) {
	existing, err := s.payrollRepo.GetActiveByPeriod(ctx, draft.EmployeeID, draft.PayPeriod.Month, draft.PayPeriod.Year)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to check existing payroll record: %w", err)
	}
	if existing != nil {
		return payroll.PayrollRecord{}, payroll.ErrDuplicatePayrollPeriod
	}

	now := s.clock.Now()
	created, err := s.payrollRepo.Create(ctx, payroll.PayrollRecord{
		EmployeeID: draft.EmployeeID,
		PayPeriod:  draft.PayPeriod,
		Salary:     payroll.Normalize(draft.Salary),
		Attendance: draft.Attendance,
		Status:     payroll.PayrollStatusDraft,
		Notes:      notes,
		CreatedBy:  createdBy,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateRecord) {
			return payroll.PayrollRecord{}, payroll.ErrDuplicatePayrollPeriod
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	s.logger.Info("Payroll record created",
		"payroll_id", created.ID,
		"employee_id", created.EmployeeID,
		"period", created.PayPeriod.Display(),
	)
	messaging.Emit(ctx, s.publisher, s.logger, messaging.EventPayrollCreated, created)
	return created, nil
}

// Generate implements payroll.PayrollService. Each employee is processed
// independently; per-employee failures are reported in Skipped.
func (s *PayrollServiceImpl) Generate(ctx context.Context, cmd payroll.GenerateCommand) (payroll.GenerateResult, error) {
	if err := cmd.Validate(); err != nil {
		return payroll.GenerateResult{}, err
	}

	period := s.payPeriod(cmd.Month, cmd.Year)
	workingDays, err := calendar.WorkingDays(period.Start, period.End)
	if err != nil {
		return payroll.GenerateResult{}, fmt.Errorf("failed to count working days: %w", err)
	}

	employees, err := s.employeesFor(ctx, cmd.EmployeeIDs)
	if err != nil {
		return payroll.GenerateResult{}, err
	}

	var (
		mu     sync.Mutex
		result = payroll.GenerateResult{Created: []payroll.PayrollRecord{}, Skipped: []payroll.GenerateFailure{}}
	)
	skip := func(employeeID string, reason error) {
		mu.Lock()
		result.Skipped = append(result.Skipped, payroll.GenerateFailure{EmployeeID: employeeID, Reason: reason.Error()})
		mu.Unlock()
	}

	for _, id := range cmd.EmployeeIDs {
		if !slices.ContainsFunc(employees, func(e employee.Employee) bool { return e.ID == id }) {
			skip(id, employee.ErrEmployeeNotFound)
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(generateConcurrency)
	for _, emp := range employees {
		g.Go(func() error {
			draft, err := s.draftFromAttendance(gCtx, emp, period, workingDays)
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				skip(emp.ID, err)
				return nil
			}

			created, err := s.insert(gCtx, draft, "", cmd.CreatedBy.UserID)
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				skip(emp.ID, err)
				return nil
			}

			mu.Lock()
			result.Created = append(result.Created, created)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.GenerateResult{}, fmt.Errorf("failed to generate payroll: %w", err)
	}

	slices.SortFunc(result.Created, func(a, b payroll.PayrollRecord) int {
		return strings.Compare(a.EmployeeID, b.EmployeeID)
	})
	slices.SortFunc(result.Skipped, func(a, b payroll.GenerateFailure) int {
		return strings.Compare(a.EmployeeID, b.EmployeeID)
	})

	s.logger.Info("Payroll generated",
		"period", period.Display(),
		"working_days", workingDays,
		"created", len(result.Created),
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// employeesFor resolves ids, or every active employee when ids is empty.
func (s *PayrollServiceImpl) employeesFor(ctx context.Context, ids []string) ([]employee.Employee, error) {
	active := true
	filter := employee.EmployeeFilter{IDs: ids, Pagination: shared.Pagination{Page: 1, Limit: shared.MaxLimit}}
	if len(ids) == 0 {
		filter.IsActive = &active
	}

	var all []employee.Employee
	for {
		page, total, err := s.employeeRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list employees: %w", err)
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			break
		}
		filter.Page++
	}
	return all, nil
}

func (s *PayrollServiceImpl) draftFromAttendance(ctx context.Context, emp employee.Employee, period payroll.PayPeriod, workingDays int) (payroll.Draft, error) {
	if !emp.IsActive {
		return payroll.Draft{}, employee.ErrEmployeeInactive
	}

	from, to := period.Start, period.End.AddDate(0, 0, 1)
	counts, err := s.attendanceRepo.Summarize(ctx, attendance.SummaryFilter{EmployeeID: emp.ID, From: from, To: to})
	if err != nil {
		return payroll.Draft{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}

	used, err := s.leaveRepo.SumDaysByType(ctx, emp.ID, from, to, []leave.LeaveRequestStatus{leave.LeaveRequestStatusApproved})
	if err != nil {
		return payroll.Draft{}, fmt.Errorf("failed to sum leave days: %w", err)
	}
	var leavesTaken float64
	for _, days := range used {
		leavesTaken += days
	}

	present := math.Min(float64(counts.PresentDays), float64(workingDays))
	overtime := math.Round(counts.TotalOvertime*100) / 100

	salary, err := payroll.Calculate(payroll.CalculationInput{
		BaseSalary:    emp.BaseSalary,
		WorkingDays:   workingDays,
		PresentDays:   present,
		OvertimeHours: overtime,
	}, s.rules)
	if err != nil {
		return payroll.Draft{}, err
	}

	return payroll.Draft{
		EmployeeID: emp.ID,
		PayPeriod:  period,
		Salary:     salary,
		Attendance: payroll.AttendanceSummary{
			WorkingDays:   workingDays,
			PresentDays:   present,
			AbsentDays:    math.Max(0, float64(workingDays)-present-leavesTaken),
			LeavesTaken:   leavesTaken,
			OvertimeHours: overtime,
		},
	}, nil
}

// Get implements payroll.PayrollService.
func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	return s.getRecord(ctx, id)
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	filter.Pagination = filter.Pagination.Normalize()

	items, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	return payroll.ListPayrollResponse{
		Items:      items,
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: filter.TotalPages(total),
	}, nil
}

// Update implements payroll.PayrollService.
func (s *PayrollServiceImpl) Update(ctx context.Context, cmd payroll.UpdateCommand) (payroll.PayrollRecord, error) {
	if err := cmd.Validate(); err != nil {
		return payroll.PayrollRecord{}, err
	}

	record, err := s.getRecord(ctx, cmd.RecordID)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	if err := mutable(record); err != nil {
		return payroll.PayrollRecord{}, err
	}

	if cmd.Salary != nil {
		record.Salary = *cmd.Salary
	}
	if cmd.Attendance != nil {
		record.Attendance = *cmd.Attendance
	}
	if cmd.Notes != nil {
		record.Notes = *cmd.Notes
	}
	record.Salary = payroll.Normalize(record.Salary)
	record.UpdatedAt = s.clock.Now()

	if err := s.payrollRepo.Update(ctx, record); err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}
	return record, nil
}

// Delete implements payroll.PayrollService. Records are hidden, never removed.
func (s *PayrollServiceImpl) Delete(ctx context.Context, id string, actor user.Actor) error {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		return err
	}
	if err := mutable(record); err != nil {
		return err
	}

	record.Status = payroll.PayrollStatusCancelled
	record.IsActive = false
	record.UpdatedAt = s.clock.Now()

	if err := s.payrollRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}

	s.logger.Info("Payroll record cancelled", "payroll_id", record.ID, "cancelled_by", actor.UserID)
	messaging.Emit(ctx, s.publisher, s.logger, messaging.EventPayrollCancelled, record)
	return nil
}

// ========== LIFECYCLE ==========

// Submit implements payroll.PayrollService.
func (s *PayrollServiceImpl) Submit(ctx context.Context, id string, actor user.Actor) (payroll.PayrollRecord, error) {
	return s.transition(ctx, id, payroll.PayrollStatusDraft, payroll.ErrPayrollNotDraft, func(record *payroll.PayrollRecord, now time.Time) {
		record.Status = payroll.PayrollStatusPending
	}, messaging.EventPayrollSubmitted)
}

// Approve implements payroll.PayrollService.
func (s *PayrollServiceImpl) Approve(ctx context.Context, id string, actor user.Actor) (payroll.PayrollRecord, error) {
	return s.transition(ctx, id, payroll.PayrollStatusPending, payroll.ErrPayrollNotPending, func(record *payroll.PayrollRecord, now time.Time) {
		approvedBy := actor.UserID
		record.Status = payroll.PayrollStatusApproved
		record.ApprovedBy = &approvedBy
		record.ApprovedAt = &now
	}, messaging.EventPayrollApproved)
}

// MarkPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, cmd payroll.MarkPaidCommand) (payroll.PayrollRecord, error) {
	if err := cmd.Validate(); err != nil {
		return payroll.PayrollRecord{}, err
	}
	return s.transition(ctx, cmd.RecordID, payroll.PayrollStatusApproved, payroll.ErrPayrollNotApproved, func(record *payroll.PayrollRecord, now time.Time) {
		paidDate := now
		if cmd.PaidDate != nil {
			paidDate = *cmd.PaidDate
		}
		record.Status = payroll.PayrollStatusPaid
		record.PaymentDetails = &payroll.PaymentDetails{
			Method:        cmd.Method,
			TransactionID: cmd.TransactionID,
			PaidDate:      &paidDate,
		}
	}, messaging.EventPayrollPaid)
}

// transition moves a record out of status from, applying apply before saving.
func (s *PayrollServiceImpl) transition(
	ctx context.Context,
	id string,
	from payroll.PayrollStatus,
	wrongState error,
	apply func(record *payroll.PayrollRecord, now time.Time),
	event string,
) (payroll.PayrollRecord, error) {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	if err := mutable(record); err != nil {
		return payroll.PayrollRecord{}, err
	}
	if record.Status != from {
		return payroll.PayrollRecord{}, wrongState
	}

	now := s.clock.Now()
	apply(&record, now)
	record.UpdatedAt = now

	if err := s.payrollRepo.Update(ctx, record); err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	s.logger.Info("Payroll status changed", "payroll_id", record.ID, "status", record.Status)
	messaging.Emit(ctx, s.publisher, s.logger, event, record)
	return record, nil
}

// ========== REPORTS ==========

// Payslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) Payslip(ctx context.Context, id string) (payroll.Payslip, error) {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		return payroll.Payslip{}, err
	}
	emp, err := s.getEmployee(ctx, record.EmployeeID)
	if err != nil {
		return payroll.Payslip{}, err
	}

	return payroll.Payslip{
		PayrollID: record.ID,
		Employee: payroll.PayslipEmployee{
			ID:           emp.ID,
			EmployeeCode: emp.EmployeeCode,
			FullName:     emp.FullName,
			Department:   emp.Department,
			Position:     emp.Position,
		},
		PayPeriodDisplay: record.PayPeriod.Display(),
		PayPeriod:        record.PayPeriod,
		Salary:           record.Salary,
		Attendance:       record.Attendance,
		Status:           record.Status,
		PaymentDetails:   record.PaymentDetails,
		GeneratedAt:      s.clock.Now(),
	}, nil
}

// Summary implements payroll.PayrollService.
func (s *PayrollServiceImpl) Summary(ctx context.Context, filter payroll.SummaryFilter) (payroll.PayrollSummary, error) {
	summary, err := s.payrollRepo.Summarize(ctx, filter)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("failed to summarize payroll: %w", err)
	}
	return summary, nil
}
