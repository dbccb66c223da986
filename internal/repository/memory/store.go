// Package memory is an in-process backend for every repository. Uniqueness
// rules mirror the database indexes so engines see the same errors.
package memory

import (
	"sync"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-engine/internal/domain/interview"
	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
)

// Store holds every collection behind a single lock.
type Store struct {
	mu          sync.RWMutex
	attendances map[string]attendance.Attendance
	leaves      map[string]leave.LeaveRequest
	payrolls    map[string]payroll.PayrollRecord
	interviews  map[string]interview.Interview
	employees   map[string]employee.Employee
}

func NewStore() *Store {
	return &Store{
		attendances: make(map[string]attendance.Attendance),
		leaves:      make(map[string]leave.LeaveRequest),
		payrolls:    make(map[string]payroll.PayrollRecord),
		interviews:  make(map[string]interview.Interview),
		employees:   make(map[string]employee.Employee),
	}
}

// page slices items according to p.
func page[T any](items []T, p shared.Pagination) []T {
	p = p.Normalize()
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
