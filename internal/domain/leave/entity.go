package leave

import (
	"time"
)

type LeaveType string

const (
	LeaveTypeAnnual      LeaveType = "annual"
	LeaveTypeSick        LeaveType = "sick"
	LeaveTypePersonal    LeaveType = "personal"
	LeaveTypeMaternity   LeaveType = "maternity"
	LeaveTypePaternity   LeaveType = "paternity"
	LeaveTypeBereavement LeaveType = "bereavement"
	LeaveTypeEmergency   LeaveType = "emergency"
	LeaveTypeUnpaid      LeaveType = "unpaid"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

// IsTerminal reports whether no further transition is possible.
func (s LeaveRequestStatus) IsTerminal() bool {
	return s != LeaveRequestStatusPending
}

type HalfDayPeriod string

const (
	HalfDayMorning   HalfDayPeriod = "morning"
	HalfDayAfternoon HalfDayPeriod = "afternoon"
)

type LeaveRequest struct {
	ID               string             `json:"id" bson:"_id"`
	EmployeeID       string             `json:"employee_id" bson:"employee_id"`
	LeaveType        LeaveType          `json:"leave_type" bson:"leave_type"`
	StartDate        time.Time          `json:"start_date" bson:"start_date"`
	EndDate          time.Time          `json:"end_date" bson:"end_date"`
	TotalDays        float64            `json:"total_days" bson:"total_days"`
	IsHalfDay        bool               `json:"is_half_day" bson:"is_half_day"`
	HalfDayPeriod    *HalfDayPeriod     `json:"half_day_period,omitempty" bson:"half_day_period,omitempty"`
	Reason           string             `json:"reason" bson:"reason"`
	Status           LeaveRequestStatus `json:"status" bson:"status"`
	ApprovedBy       *string            `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt       *time.Time         `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	ApprovalComments *string            `json:"approval_comments,omitempty" bson:"approval_comments,omitempty"`
	CancelledBy      *string            `json:"cancelled_by,omitempty" bson:"cancelled_by,omitempty"`
	CancelledAt      *time.Time         `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

type BalanceEntry struct {
	LeaveType LeaveType `json:"leave_type"`
	Allocated float64   `json:"allocated"`
	Used      float64   `json:"used"`
	Remaining float64   `json:"remaining"`
}

type Balance struct {
	EmployeeID string         `json:"employee_id"`
	Year       int            `json:"year"`
	Entries    []BalanceEntry `json:"entries"`
}
