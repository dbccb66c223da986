package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Update(ctx context.Context, employee Employee) error
	// List returns matching employees ordered by employee code
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
}
