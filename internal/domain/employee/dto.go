package employee

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	UserID       *string         `json:"user_id,omitempty"`
	EmployeeCode string          `json:"employee_code" validate:"required,max=32"`
	FullName     string          `json:"full_name" validate:"required,max=255"`
	Email        string          `json:"email" validate:"required,email"`
	Department   string          `json:"department" validate:"required,max=100"`
	Position     string          `json:"position" validate:"required,max=100"`
	Role         user.Role       `json:"role" validate:"required,oneof=owner hr manager employee"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	CanInterview bool            `json:"can_interview"`
	HireDate     string          `json:"hire_date" validate:"required,datetime=2006-01-02"`
}

func (r CreateEmployeeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.BaseSalary.IsNegative() {
		return validator.Field("base_salary", "must not be negative")
	}
	return nil
}

// UpdateEmployeeRequest patches the fields that are set
type UpdateEmployeeRequest struct {
	ID           string           `json:"-" validate:"required"`
	FullName     *string          `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Email        *string          `json:"email,omitempty" validate:"omitempty,email"`
	Department   *string          `json:"department,omitempty" validate:"omitempty,max=100"`
	Position     *string          `json:"position,omitempty" validate:"omitempty,max=100"`
	Role         *user.Role       `json:"role,omitempty" validate:"omitempty,oneof=owner hr manager employee"`
	BaseSalary   *decimal.Decimal `json:"base_salary,omitempty"`
	CanInterview *bool            `json:"can_interview,omitempty"`
	IsActive     *bool            `json:"is_active,omitempty"`
}

func (r UpdateEmployeeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		return validator.Field("base_salary", "must not be negative")
	}
	return nil
}

type EmployeeFilter struct {
	IDs          []string
	Department   string
	Search       string
	CanInterview *bool
	IsActive     *bool
	shared.Pagination
}

type ListEmployeeResponse struct {
	Items      []Employee `json:"items"`
	TotalItems int64      `json:"total_items"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
