package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a record. Returns ErrAttendanceExists when the
	// (employee, date) pair is already taken.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns the record whose date falls in [from, to),
	// or nil when there is none.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, from, to time.Time) (*Attendance, error)

	// Update replaces an existing record
	Update(ctx context.Context, attendance Attendance) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// Summarize groups records matching filter into counts and totals
	Summarize(ctx context.Context, filter SummaryFilter) (SummaryCounts, error)
}
