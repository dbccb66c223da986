package leave

import (
	"fmt"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
)

var (
	ErrLeaveRequestNotFound         = fmt.Errorf("leave request not found: %w", shared.ErrNotFound)
	ErrLeaveRequestAlreadyProcessed = fmt.Errorf("leave request already processed: %w", shared.ErrInvalidTransition)
	ErrInvalidDateRange             = fmt.Errorf("end date must not be before start date: %w", shared.ErrInvalidInterval)
	ErrNotRequestOwner              = fmt.Errorf("only the requester can modify this leave request: %w", shared.ErrForbidden)
	ErrApprovalNotAllowed           = fmt.Errorf("role is not allowed to approve leave requests: %w", shared.ErrForbidden)
)
