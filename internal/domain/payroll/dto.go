package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/validator"
)

// ========== CALCULATION ==========

type CalculateCommand struct {
	EmployeeID    string  `json:"employee_id" validate:"required"`
	Month         int     `json:"month" validate:"required,min=1,max=12"`
	Year          int     `json:"year" validate:"required,min=2000,max=2100"`
	WorkingDays   int     `json:"working_days" validate:"required,min=1,max=31"`
	PresentDays   float64 `json:"present_days" validate:"gte=0"`
	OvertimeHours float64 `json:"overtime_hours" validate:"gte=0"`
}

func (c CalculateCommand) Validate() error {
	if err := validator.Struct(c); err != nil {
		return err
	}
	if c.PresentDays > float64(c.WorkingDays) {
		return validator.Field("present_days", "must not exceed working_days")
	}
	return nil
}

// ========== RECORDS ==========

type CreateCommand struct {
	EmployeeID string            `json:"employee_id" validate:"required"`
	Month      int               `json:"month" validate:"required,min=1,max=12"`
	Year       int               `json:"year" validate:"required,min=2000,max=2100"`
	Salary     Salary            `json:"salary"`
	Attendance AttendanceSummary `json:"attendance"`
	Notes      string            `json:"notes" validate:"max=1000"`
	CreatedBy  user.Actor        `json:"-"`
}

func (c CreateCommand) Validate() error {
	if err := validator.Struct(c); err != nil {
		return err
	}
	if !c.Salary.BasicSalary.IsPositive() {
		return validator.Field("salary.basic_salary", "must be greater than zero")
	}
	return nil
}

// GenerateCommand drafts records for a month from attendance. An empty
// EmployeeIDs means every active employee.
type GenerateCommand struct {
	Month       int        `json:"month" validate:"required,min=1,max=12"`
	Year        int        `json:"year" validate:"required,min=2000,max=2100"`
	EmployeeIDs []string   `json:"employee_ids" validate:"omitempty,dive,required"`
	CreatedBy   user.Actor `json:"-"`
}

func (c GenerateCommand) Validate() error {
	return validator.Struct(c)
}

type GenerateFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type GenerateResult struct {
	Created []PayrollRecord   `json:"created"`
	Skipped []GenerateFailure `json:"skipped"`
}

// UpdateCommand patches a record that is not yet paid. Nil fields are left unchanged.
type UpdateCommand struct {
	RecordID   string             `json:"-" validate:"required"`
	Salary     *Salary            `json:"salary"`
	Attendance *AttendanceSummary `json:"attendance"`
	Notes      *string            `json:"notes" validate:"omitempty,max=1000"`
}

func (c UpdateCommand) Validate() error {
	if err := validator.Struct(c); err != nil {
		return err
	}
	if c.Salary != nil && !c.Salary.BasicSalary.IsPositive() {
		return validator.Field("salary.basic_salary", "must be greater than zero")
	}
	return nil
}

type MarkPaidCommand struct {
	RecordID      string     `json:"-" validate:"required"`
	Method        string     `json:"method" validate:"required,oneof=bank_transfer cash cheque"`
	TransactionID string     `json:"transaction_id" validate:"max=100"`
	PaidDate      *time.Time `json:"paid_date"`
}

func (c MarkPaidCommand) Validate() error {
	return validator.Struct(c)
}

// ========== QUERIES ==========

type PayrollFilter struct {
	EmployeeID string
	Month      int
	Year       int
	Status     PayrollStatus
	shared.Pagination
}

// SummaryFilter selects active records; zero fields match everything.
type SummaryFilter struct {
	EmployeeID string
	Month      int
	Year       int
	Status     PayrollStatus
}

type ListPayrollResponse struct {
	Items      []PayrollRecord `json:"items"`
	TotalItems int64           `json:"total_items"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}
