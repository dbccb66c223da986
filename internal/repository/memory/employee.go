package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) unique(e employee.Employee) error {
	for _, existing := range r.s.employees {
		if existing.ID == e.ID {
			continue
		}
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.ErrEmployeeCodeExists
		}
		if strings.EqualFold(existing.Email, e.Email) {
			return employee.ErrEmailExists
		}
	}
	return nil
}

func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.Must(uuid.NewV7()).String()
	}
	if err := r.unique(e); err != nil {
		return employee.Employee{}, err
	}
	r.s.employees[e.ID] = e
	return e, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.employees[e.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	if err := r.unique(e); err != nil {
		return err
	}
	r.s.employees[e.ID] = e
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var items []employee.Employee
	for _, e := range r.s.employees {
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, e.ID) {
			continue
		}
		if filter.Department != "" && e.Department != filter.Department {
			continue
		}
		if filter.CanInterview != nil && e.CanInterview != *filter.CanInterview {
			continue
		}
		if filter.IsActive != nil && e.IsActive != *filter.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.FullName), search) &&
			!strings.Contains(strings.ToLower(e.EmployeeCode), search) {
			continue
		}
		items = append(items, e)
	}
	slices.SortFunc(items, func(a, b employee.Employee) int {
		return strings.Compare(a.EmployeeCode, b.EmployeeCode)
	})
	return page(items, filter.Pagination), int64(len(items)), nil
}
