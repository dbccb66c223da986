package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.attendances {
		if existing.EmployeeID == a.EmployeeID && existing.Date.Equal(a.Date) {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
	}
	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV7()).String()
	}
	a.Breaks = slices.Clone(a.Breaks)
	r.s.attendances[a.ID] = a
	return a, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a.Breaks = slices.Clone(a.Breaks)
	return a, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, from, to time.Time) (*attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.attendances {
		if a.EmployeeID == employeeID && !a.Date.Before(from) && a.Date.Before(to) {
			a.Breaks = slices.Clone(a.Breaks)
			return &a, nil
		}
	}
	return nil, nil
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.attendances[a.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	a.Breaks = slices.Clone(a.Breaks)
	r.s.attendances[a.ID] = a
	return nil
}

func (r *attendanceRepository) matching(employeeID string, from, to time.Time, status attendance.Status) []attendance.Attendance {
	var out []attendance.Attendance
	for _, a := range r.s.attendances {
		if employeeID != "" && a.EmployeeID != employeeID {
			continue
		}
		if !from.IsZero() && a.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !a.Date.Before(to) {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := r.matching(filter.EmployeeID, filter.From, filter.To, filter.Status)
	slices.SortFunc(items, func(a, b attendance.Attendance) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return page(items, filter.Pagination), int64(len(items)), nil
}

func (r *attendanceRepository) Summarize(ctx context.Context, filter attendance.SummaryFilter) (attendance.SummaryCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var c attendance.SummaryCounts
	for _, a := range r.matching(filter.EmployeeID, filter.From, filter.To, "") {
		c.TotalDays++
		if a.Status == attendance.StatusAbsent {
			c.AbsentDays++
		} else {
			c.PresentDays++
		}
		if a.LateArrival || a.Status == attendance.StatusLate {
			c.LateDays++
		}
		c.TotalWorkingHours += a.WorkingHours
		c.TotalOvertime += a.OvertimeHours
	}
	return c, nil
}
