package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, user_id, employee_code, full_name, email, department, position, role,
	base_salary, can_interview, is_active, hire_date, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.UserID, &e.EmployeeCode, &e.FullName, &e.Email, &e.Department, &e.Position, &e.Role,
		&e.BaseSalary, &e.CanInterview, &e.IsActive, &e.HireDate, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// uniqueEmployeeError maps a unique violation to the matching domain error.
func uniqueEmployeeError(err error) error {
	switch {
	case violates(err, "employees_code_key"):
		return employee.ErrEmployeeCodeExists
	case violates(err, "employees_email_key"):
		return employee.ErrEmailExists
	}
	return nil
}

func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if e.ID == "" {
		e.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		e.ID, e.UserID, e.EmployeeCode, e.FullName, e.Email, e.Department, e.Position, e.Role,
		e.BaseSalary, e.CanInterview, e.IsActive, e.HireDate, e.CreatedAt, e.UpdatedAt,
	))
	if err != nil {
		if uerr := uniqueEmployeeError(err); uerr != nil {
			return employee.Employee{}, uerr
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			user_id = $2, employee_code = $3, full_name = $4, email = $5,
			department = $6, position = $7, role = $8, base_salary = $9,
			can_interview = $10, is_active = $11, hire_date = $12, updated_at = $13
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		e.ID, e.UserID, e.EmployeeCode, e.FullName, e.Email,
		e.Department, e.Position, e.Role, e.BaseSalary,
		e.CanInterview, e.IsActive, e.HireDate, e.UpdatedAt,
	)
	if err != nil {
		if uerr := uniqueEmployeeError(err); uerr != nil {
			return uerr
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("TRUE")
	if len(filter.IDs) > 0 {
		w.add("id = ANY(?)", filter.IDs)
	}
	if filter.Department != "" {
		w.add("department = ?", filter.Department)
	}
	if filter.CanInterview != nil {
		w.add("can_interview = ?", *filter.CanInterview)
	}
	if filter.IsActive != nil {
		w.add("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		w.args = append(w.args, "%"+filter.Search+"%")
		n := len(w.args)
		w.clause += fmt.Sprintf(" AND (full_name ILIKE $%d OR employee_code ILIKE $%d)", n, n)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM employees WHERE ` + w.clause
	if err := q.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	p := filter.Pagination.Normalize()
	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE %s
		ORDER BY employee_code ASC
		LIMIT %s OFFSET %s`,
		employeeColumns, w.clause, w.next(p.Limit), w.next(p.Offset()))

	rows, err := q.Query(ctx, selectQuery, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, total, nil
}
