package messaging

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event types
const (
	// Attendance events
	EventAttendanceClockIn     = "attendance.clock_in"
	EventAttendanceClockOut    = "attendance.clock_out"
	EventAttendanceBreakAdded  = "attendance.break_added"
	EventAttendanceManualEntry = "attendance.manual_entry"

	// Leave events
	EventLeaveSubmitted = "leave.submitted"
	EventLeaveUpdated   = "leave.updated"
	EventLeaveApproved  = "leave.approved"
	EventLeaveRejected  = "leave.rejected"
	EventLeaveCancelled = "leave.cancelled"

	// Payroll events
	EventPayrollCreated   = "payroll.created"
	EventPayrollSubmitted = "payroll.submitted"
	EventPayrollApproved  = "payroll.approved"
	EventPayrollPaid      = "payroll.paid"
	EventPayrollCancelled = "payroll.cancelled"

	// Interview events
	EventInterviewScheduled     = "interview.scheduled"
	EventInterviewRescheduled   = "interview.rescheduled"
	EventInterviewStatusChanged = "interview.status_changed"
	EventInterviewCompleted     = "interview.completed"
	EventInterviewReminder      = "interview.reminder"
)

// ExchangeHREvents is the default topic exchange all events are routed through.
const ExchangeHREvents = "hris.events"

// Event is the envelope written to the broker.
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent wraps data in an envelope with a time-ordered id.
func NewEvent(eventType, source, correlationID string, data any) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            ulid.Make().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v any) error {
	return json.Unmarshal(e.Data, v)
}
