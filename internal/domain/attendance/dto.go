package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/validator"
)

// ========================================
// ATTENDANCE COMMANDS
// ========================================

type ClockInCommand struct {
	EmployeeID string `json:"-" validate:"required"`
	Location   string `json:"location" validate:"max=255"`
	Method     Method `json:"method" validate:"required,oneof=web mobile biometric"`
}

func (c ClockInCommand) Validate() error {
	return validator.Struct(c)
}

type ClockOutCommand struct {
	EmployeeID string `json:"-" validate:"required"`
	Location   string `json:"location" validate:"max=255"`
	Method     Method `json:"method" validate:"required,oneof=web mobile biometric"`
}

func (c ClockOutCommand) Validate() error {
	return validator.Struct(c)
}

// AddBreakCommand appends a break to today's record. A nil StartTime means
// now; a nil EndTime records an open break.
type AddBreakCommand struct {
	EmployeeID string     `json:"-" validate:"required"`
	Type       BreakType  `json:"type" validate:"required,oneof=lunch tea personal other"`
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
}

func (c AddBreakCommand) Validate() error {
	if err := validator.Struct(c); err != nil {
		return err
	}
	if c.StartTime != nil && c.EndTime != nil && c.EndTime.Before(*c.StartTime) {
		return ErrBreakEndBeforeStart
	}
	return nil
}

type ManualAction string

const (
	ManualCheckIn  ManualAction = "checkIn"
	ManualCheckOut ManualAction = "checkOut"
)

// ManualEntryCommand corrects a day's record on behalf of an employee.
type ManualEntryCommand struct {
	EmployeeID string       `json:"employee_id" validate:"required"`
	Date       string       `json:"date" validate:"required,datetime=2006-01-02"`
	Action     ManualAction `json:"action" validate:"required,oneof=checkIn checkOut"`
	Timestamp  time.Time    `json:"timestamp" validate:"required"`
	Location   string       `json:"location" validate:"max=255"`
	Reason     string       `json:"reason" validate:"required,max=500"`
	Remarks    string       `json:"remarks" validate:"max=500"`
	EnteredBy  string       `json:"-"`
}

func (c ManualEntryCommand) Validate() error {
	return validator.Struct(c)
}

// ========================================
// QUERIES
// ========================================

// AttendanceFilter selects records. Zero From/To leave that side unbounded;
// To is exclusive.
type AttendanceFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
	Status     Status
	shared.Pagination
}

// SummaryFilter covers [From, To). An empty EmployeeID summarizes everyone.
type SummaryFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
}

func (f SummaryFilter) Validate() error {
	if f.From.IsZero() || f.To.IsZero() {
		return validator.Field("from", "date range is required")
	}
	if !f.To.After(f.From) {
		return shared.ErrInvalidInterval
	}
	return nil
}

type ListAttendanceResponse struct {
	Items      []Attendance `json:"items"`
	TotalItems int64        `json:"total_items"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
}
