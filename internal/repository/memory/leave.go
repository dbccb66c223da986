package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
)

type leaveRequestRepository struct {
	s *Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{s: s}
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.Must(uuid.NewV7()).String()
	}
	r.s.leaves[req.ID] = req
	return req, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *leaveRequestRepository) Update(ctx context.Context, req leave.LeaveRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.leaves[req.ID]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	r.s.leaves[req.ID] = req
	return nil
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var items []leave.LeaveRequest
	for _, req := range r.s.leaves {
		if filter.EmployeeID != "" && req.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.LeaveType != "" && req.LeaveType != filter.LeaveType {
			continue
		}
		if !filter.From.IsZero() && req.StartDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !req.StartDate.Before(filter.To) {
			continue
		}
		items = append(items, req)
	}
	slices.SortFunc(items, func(a, b leave.LeaveRequest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return page(items, filter.Pagination), int64(len(items)), nil
}

func (r *leaveRequestRepository) SumDaysByType(ctx context.Context, employeeID string, from, to time.Time, statuses []leave.LeaveRequestStatus) (map[leave.LeaveType]float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	used := make(map[leave.LeaveType]float64)
	for _, req := range r.s.leaves {
		if req.EmployeeID != employeeID || !slices.Contains(statuses, req.Status) {
			continue
		}
		if req.StartDate.Before(from) || !req.StartDate.Before(to) {
			continue
		}
		used[req.LeaveType] += req.TotalDays
	}
	return used, nil
}
