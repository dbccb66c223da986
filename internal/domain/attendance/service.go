package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn opens today's record for the employee
	ClockIn(ctx context.Context, cmd ClockInCommand) (Attendance, error)

	// ClockOut closes today's record and derives working hours
	ClockOut(ctx context.Context, cmd ClockOutCommand) (Attendance, error)

	// AddBreak appends a break to today's record
	AddBreak(ctx context.Context, cmd AddBreakCommand) (Attendance, error)

	// ManualEntry sets a check-in or check-out on any day's record, creating it if needed
	ManualEntry(ctx context.Context, cmd ManualEntryCommand) (Attendance, error)

	// Today returns the employee's record for the current day
	Today(ctx context.Context, employeeID string) (Attendance, error)

	// Get retrieves a single attendance record by ID
	Get(ctx context.Context, id string) (Attendance, error)

	// List retrieves attendance records with filters
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// Summary aggregates attendance for one employee or everyone over a date range
	Summary(ctx context.Context, filter SummaryFilter) (Summary, error)
}
