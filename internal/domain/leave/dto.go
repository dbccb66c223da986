package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/validator"
)

// SubmitCommand - dates are YYYY-MM-DD in the business timezone
type SubmitCommand struct {
	EmployeeID    string         `json:"-" validate:"required"`
	LeaveType     LeaveType      `json:"leave_type" validate:"required,oneof=annual sick personal maternity paternity bereavement emergency unpaid"`
	StartDate     string         `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string         `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason        string         `json:"reason" validate:"required,max=1000"`
	IsHalfDay     bool           `json:"is_half_day"`
	HalfDayPeriod *HalfDayPeriod `json:"half_day_period" validate:"required_if=IsHalfDay true,omitempty,oneof=morning afternoon"`
}

func (c SubmitCommand) Validate() error {
	return validator.Struct(c)
}

// UpdateCommand patches a pending request. Nil fields are left unchanged.
type UpdateCommand struct {
	RequestID     string         `json:"-" validate:"required"`
	Actor         user.Actor     `json:"-"`
	LeaveType     *LeaveType     `json:"leave_type" validate:"omitempty,oneof=annual sick personal maternity paternity bereavement emergency unpaid"`
	StartDate     *string        `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string        `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Reason        *string        `json:"reason" validate:"omitempty,min=1,max=1000"`
	IsHalfDay     *bool          `json:"is_half_day"`
	HalfDayPeriod *HalfDayPeriod `json:"half_day_period" validate:"omitempty,oneof=morning afternoon"`
}

func (c UpdateCommand) Validate() error {
	return validator.Struct(c)
}

type DecideCommand struct {
	RequestID string             `json:"-" validate:"required"`
	Approver  user.Actor         `json:"-"`
	Status    LeaveRequestStatus `json:"status" validate:"required,oneof=approved rejected"`
	Comments  string             `json:"comments" validate:"max=1000"`
}

func (c DecideCommand) Validate() error {
	return validator.Struct(c)
}

// LeaveRequestFilter selects requests. Year is resolved by the service into
// the [From, To) start-date window that repositories filter on.
type LeaveRequestFilter struct {
	EmployeeID string
	Status     LeaveRequestStatus
	LeaveType  LeaveType
	Year       int
	From       time.Time
	To         time.Time
	shared.Pagination
}

// YearRange returns [Jan 1, next Jan 1) of year in loc.
func YearRange(year int, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(1, 0, 0)
}

type ListLeaveRequestResponse struct {
	Items      []LeaveRequest `json:"items"`
	TotalItems int64          `json:"total_items"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}
