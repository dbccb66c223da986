package payroll

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
)

var (
	ErrPayrollRecordNotFound   = fmt.Errorf("payroll record not found: %w", shared.ErrNotFound)
	ErrDuplicatePayrollPeriod  = fmt.Errorf("an active payroll record already exists for this period: %w", shared.ErrDuplicateRecord)
	ErrPayrollLocked           = errors.New("payroll record is paid and can no longer be modified")
	ErrPayrollNotPending       = fmt.Errorf("only pending payroll records can be approved: %w", shared.ErrInvalidTransition)
	ErrPayrollNotApproved      = fmt.Errorf("only approved payroll records can be marked paid: %w", shared.ErrInvalidTransition)
	ErrPayrollNotDraft         = fmt.Errorf("only draft payroll records can be submitted: %w", shared.ErrInvalidTransition)
	ErrPayrollCancelled        = fmt.Errorf("payroll record is cancelled: %w", shared.ErrInvalidTransition)
	ErrInvalidWorkingDays      = errors.New("working days must be greater than zero")
	ErrInvalidPresentDays      = errors.New("present days must be between zero and working days")
	ErrInvalidOvertimeHours    = errors.New("overtime hours must not be negative")
	ErrEmployeeHasNoBaseSalary = errors.New("employee has no base salary configured")
)
