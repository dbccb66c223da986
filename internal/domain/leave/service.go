package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
)

type LeaveService interface {
	// Submit creates a pending request for the calling employee
	Submit(ctx context.Context, cmd SubmitCommand) (LeaveRequest, error)

	// UpdateAsOwner edits a pending request; only the requester may do so
	UpdateAsOwner(ctx context.Context, cmd UpdateCommand) (LeaveRequest, error)

	// Decide approves or rejects a pending request
	Decide(ctx context.Context, cmd DecideCommand) (LeaveRequest, error)

	// Cancel withdraws a pending request
	Cancel(ctx context.Context, requestID string, actor user.Actor) (LeaveRequest, error)

	// Balance reports allocated, used and remaining days per type for a year
	Balance(ctx context.Context, employeeID string, year int) (Balance, error)

	Get(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
}
