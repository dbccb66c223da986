package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	allocations leave.Allocations
	publisher   messaging.Publisher
	clock       clock.Clock
	logger      *slog.Logger
}

func NewLeaveService(
	leaveRequestRepo leave.LeaveRequestRepository,
	allocations leave.Allocations,
	publisher messaging.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepo,
		allocations:            allocations,
		publisher:              publisher,
		clock:                  clk,
		logger:                 logger,
	}
}

func (l *LeaveServiceImpl) getRequest(ctx context.Context, id string) (leave.LeaveRequest, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by ID: %w", err)
	}
	return request, nil
}

// Submit implements leave.LeaveService.
func (l *LeaveServiceImpl) Submit(ctx context.Context, cmd leave.SubmitCommand) (leave.LeaveRequest, error) {
	if err := cmd.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	now := l.clock.Now()
	start, err := calendar.ParseDate(cmd.StartDate, now.Location())
	if err != nil {
		return leave.LeaveRequest{}, validator.Field("start_date", "must be a valid date")
	}
	end, err := calendar.ParseDate(cmd.EndDate, now.Location())
	if err != nil {
		return leave.LeaveRequest{}, validator.Field("end_date", "must be a valid date")
	}
	totalDays, err := leave.CountDays(start, end, cmd.IsHalfDay)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request := leave.LeaveRequest{
		EmployeeID: cmd.EmployeeID,
		LeaveType:  cmd.LeaveType,
		StartDate:  start,
		EndDate:    end,
		TotalDays:  totalDays,
		IsHalfDay:  cmd.IsHalfDay,
		Reason:     cmd.Reason,
		Status:     leave.LeaveRequestStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if cmd.IsHalfDay {
		request.HalfDayPeriod = cmd.HalfDayPeriod
	}

	created, err := l.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	l.logger.Info("Leave request submitted", "request_id", created.ID, "employee_id", created.EmployeeID, "total_days", created.TotalDays)
	messaging.Emit(ctx, l.publisher, l.logger, messaging.EventLeaveSubmitted, created)
	return created, nil
}

// UpdateAsOwner implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateAsOwner(ctx context.Context, cmd leave.UpdateCommand) (leave.LeaveRequest, error) {
	if err := cmd.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	request, err := l.getRequest(ctx, cmd.RequestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if request.EmployeeID != cmd.Actor.EmployeeID {
		return leave.LeaveRequest{}, leave.ErrNotRequestOwner
	}
	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	now := l.clock.Now()
	if cmd.LeaveType != nil {
		request.LeaveType = *cmd.LeaveType
	}
	if cmd.StartDate != nil {
		if request.StartDate, err = calendar.ParseDate(*cmd.StartDate, now.Location()); err != nil {
			return leave.LeaveRequest{}, validator.Field("start_date", "must be a valid date")
		}
	}
	if cmd.EndDate != nil {
		if request.EndDate, err = calendar.ParseDate(*cmd.EndDate, now.Location()); err != nil {
			return leave.LeaveRequest{}, validator.Field("end_date", "must be a valid date")
		}
	}
	if cmd.Reason != nil {
		request.Reason = *cmd.Reason
	}
	if cmd.IsHalfDay != nil {
		request.IsHalfDay = *cmd.IsHalfDay
	}
	if cmd.HalfDayPeriod != nil {
		request.HalfDayPeriod = cmd.HalfDayPeriod
	}
	if !request.IsHalfDay {
		request.HalfDayPeriod = nil
	} else if request.HalfDayPeriod == nil {
		return leave.LeaveRequest{}, validator.Field("half_day_period", "is required for half-day leave")
	}

	if request.TotalDays, err = leave.CountDays(request.StartDate, request.EndDate, request.IsHalfDay); err != nil {
		return leave.LeaveRequest{}, err
	}
	request.UpdatedAt = now

	if err := l.LeaveRequestRepository.Update(ctx, request); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	messaging.Emit(ctx, l.publisher, l.logger, messaging.EventLeaveUpdated, request)
	return request, nil
}

// Decide implements leave.LeaveService.
func (l *LeaveServiceImpl) Decide(ctx context.Context, cmd leave.DecideCommand) (leave.LeaveRequest, error) {
	if err := cmd.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}
	if !cmd.Approver.Can(user.PermissionLeaveApprove) {
		return leave.LeaveRequest{}, leave.ErrApprovalNotAllowed
	}

	request, err := l.getRequest(ctx, cmd.RequestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	now := l.clock.Now()
	approver := cmd.Approver.UserID
	request.Status = cmd.Status
	request.ApprovedBy = &approver
	request.ApprovedAt = &now
	if cmd.Comments != "" {
		comments := cmd.Comments
		request.ApprovalComments = &comments
	}
	request.UpdatedAt = now

	if err := l.LeaveRequestRepository.Update(ctx, request); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	l.logger.Info("Leave request decided", "request_id", request.ID, "status", request.Status, "approved_by", approver)
	event := messaging.EventLeaveApproved
	if request.Status == leave.LeaveRequestStatusRejected {
		event = messaging.EventLeaveRejected
	}
	messaging.Emit(ctx, l.publisher, l.logger, event, request)
	return request, nil
}

// Cancel implements leave.LeaveService.
func (l *LeaveServiceImpl) Cancel(ctx context.Context, requestID string, actor user.Actor) (leave.LeaveRequest, error) {
	request, err := l.getRequest(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if request.EmployeeID != actor.EmployeeID && !actor.Can(user.PermissionLeaveManage) {
		return leave.LeaveRequest{}, leave.ErrNotRequestOwner
	}
	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	now := l.clock.Now()
	cancelledBy := actor.UserID
	request.Status = leave.LeaveRequestStatusCancelled
	request.CancelledBy = &cancelledBy
	request.CancelledAt = &now
	request.UpdatedAt = now

	if err := l.LeaveRequestRepository.Update(ctx, request); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	messaging.Emit(ctx, l.publisher, l.logger, messaging.EventLeaveCancelled, request)
	return request, nil
}

// Balance implements leave.LeaveService. Pending and approved requests both consume allocation.
func (l *LeaveServiceImpl) Balance(ctx context.Context, employeeID string, year int) (leave.Balance, error) {
	if year == 0 {
		year = l.clock.Now().Year()
	}
	from, to := leave.YearRange(year, l.clock.Now().Location())

	used, err := l.LeaveRequestRepository.SumDaysByType(ctx, employeeID, from, to, []leave.LeaveRequestStatus{
		leave.LeaveRequestStatusPending,
		leave.LeaveRequestStatusApproved,
	})
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to sum leave days: %w", err)
	}
	return l.allocations.BuildBalance(employeeID, year, used), nil
}

// Get implements leave.LeaveService.
func (l *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return l.getRequest(ctx, id)
}

// List implements leave.LeaveService.
func (l *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	filter.Pagination = filter.Pagination.Normalize()
	if filter.Year != 0 {
		filter.From, filter.To = leave.YearRange(filter.Year, l.clock.Now().Location())
	}

	items, total, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return leave.ListLeaveRequestResponse{
		Items:      items,
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: filter.TotalPages(total),
	}, nil
}
