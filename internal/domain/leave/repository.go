package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - persistence for leave requests
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	Update(ctx context.Context, request LeaveRequest) error
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)

	// SumDaysByType totals TotalDays per leave type for the employee's
	// requests starting in [from, to) whose status is one of statuses.
	SumDaysByType(ctx context.Context, employeeID string, from, to time.Time, statuses []LeaveRequestStatus) (map[LeaveType]float64, error)
}
