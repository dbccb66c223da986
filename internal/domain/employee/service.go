package employee

import "context"

// EmployeeService manages the employee directory other engines read from
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
}
