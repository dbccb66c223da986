package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/clock"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	clock        clock.Clock
	logger       *slog.Logger
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, clk clock.Clock, logger *slog.Logger) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		clock:        clk,
		logger:       logger,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	now := s.clock.Now()
	hireDate, err := calendar.ParseDate(req.HireDate, now.Location())
	if err != nil {
		return employee.Employee{}, err
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		UserID:       req.UserID,
		EmployeeCode: strings.TrimSpace(req.EmployeeCode),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Department:   req.Department,
		Position:     req.Position,
		Role:         req.Role,
		BaseSalary:   req.BaseSalary,
		CanInterview: req.CanInterview,
		IsActive:     true,
		HireDate:     hireDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateRecord) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("Created employee", "employee_id", created.ID, "employee_code", created.EmployeeCode)
	return created, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	emp, err := s.GetEmployee(ctx, req.ID)
	if err != nil {
		return employee.Employee{}, err
	}

	if req.FullName != nil {
		emp.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		emp.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Department != nil {
		emp.Department = *req.Department
	}
	if req.Position != nil {
		emp.Position = *req.Position
	}
	if req.Role != nil {
		emp.Role = *req.Role
	}
	if req.BaseSalary != nil {
		emp.BaseSalary = *req.BaseSalary
	}
	if req.CanInterview != nil {
		emp.CanInterview = *req.CanInterview
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}
	emp.UpdatedAt = s.clock.Now()

	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		if errors.Is(err, shared.ErrDuplicateRecord) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return emp, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	filter.Pagination = filter.Pagination.Normalize()

	items, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	return employee.ListEmployeeResponse{
		Items:      items,
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: filter.TotalPages(total),
	}, nil
}
