package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hris-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const activePeriodIndex = "payroll_records_active_period_key"

const payrollColumns = `
	id, employee_id, period_month, period_year, period_start, period_end,
	salary, attendance, status, payment_details, notes,
	created_by, approved_by, approved_at, is_active, created_at, updated_at`

func scanPayroll(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID,
		&rec.PayPeriod.Month, &rec.PayPeriod.Year, &rec.PayPeriod.Start, &rec.PayPeriod.End,
		&rec.Salary, &rec.Attendance, &rec.Status, &rec.PaymentDetails, &rec.Notes,
		&rec.CreatedBy, &rec.ApprovedBy, &rec.ApprovedAt, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

func (r *payrollRepository) Create(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}

	// gross, net and deductions are denormalized out of the salary document
	// so Summarize can aggregate them as numerics.
	query := `
		INSERT INTO payroll_records (` + payrollColumns + `,
			gross_salary, net_salary, total_deductions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + payrollColumns

	created, err := scanPayroll(q.QueryRow(ctx, query,
		rec.ID, rec.EmployeeID,
		rec.PayPeriod.Month, rec.PayPeriod.Year, rec.PayPeriod.Start, rec.PayPeriod.End,
		rec.Salary, rec.Attendance, rec.Status, rec.PaymentDetails, rec.Notes,
		rec.CreatedBy, rec.ApprovedBy, rec.ApprovedAt, rec.IsActive, rec.CreatedAt, rec.UpdatedAt,
		rec.Salary.GrossSalary, rec.Salary.NetSalary, rec.Salary.Deductions.Total,
	))
	if err != nil {
		if violates(err, activePeriodIndex) {
			return payroll.PayrollRecord{}, payroll.ErrDuplicatePayrollPeriod
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}
	return created, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` FROM payroll_records WHERE id = $1`
	rec, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record by id: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) GetActiveByPeriod(ctx context.Context, employeeID string, month, year int) (*payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3 AND is_active`
	rec, err := scanPayroll(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payroll record by period: %w", err)
	}
	return &rec, nil
}

func (r *payrollRepository) Update(ctx context.Context, rec payroll.PayrollRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET
			period_month = $2, period_year = $3, period_start = $4, period_end = $5,
			salary = $6, gross_salary = $7, net_salary = $8, total_deductions = $9,
			attendance = $10, status = $11, payment_details = $12, notes = $13,
			approved_by = $14, approved_at = $15, is_active = $16, updated_at = $17
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		rec.ID,
		rec.PayPeriod.Month, rec.PayPeriod.Year, rec.PayPeriod.Start, rec.PayPeriod.End,
		rec.Salary, rec.Salary.GrossSalary, rec.Salary.NetSalary, rec.Salary.Deductions.Total,
		rec.Attendance, rec.Status, rec.PaymentDetails, rec.Notes,
		rec.ApprovedBy, rec.ApprovedAt, rec.IsActive, rec.UpdatedAt,
	)
	if err != nil {
		if violates(err, activePeriodIndex) {
			return payroll.ErrDuplicatePayrollPeriod
		}
		return fmt.Errorf("failed to update payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}
	return nil
}

func payrollWhere(employeeID string, month, year int, status payroll.PayrollStatus) *whereBuilder {
	w := newWhere("is_active")
	if employeeID != "" {
		w.add("employee_id = ?", employeeID)
	}
	if month != 0 {
		w.add("period_month = ?", month)
	}
	if year != 0 {
		w.add("period_year = ?", year)
	}
	if status != "" {
		w.add("status = ?", status)
	}
	return w
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := payrollWhere(filter.EmployeeID, filter.Month, filter.Year, filter.Status)

	var total int64
	countQuery := `SELECT COUNT(*) FROM payroll_records WHERE ` + w.clause
	if err := q.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	p := filter.Pagination.Normalize()
	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM payroll_records
		WHERE %s
		ORDER BY period_year DESC, period_month DESC, created_at DESC
		LIMIT %s OFFSET %s`,
		payrollColumns, w.clause, w.next(p.Limit), w.next(p.Offset()))

	rows, err := q.Query(ctx, selectQuery, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	records := []payroll.PayrollRecord{}
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, total, nil
}

func (r *payrollRepository) Summarize(ctx context.Context, filter payroll.SummaryFilter) (payroll.PayrollSummary, error) {
	q := GetQuerier(ctx, r.db)

	w := payrollWhere(filter.EmployeeID, filter.Month, filter.Year, filter.Status)
	query := `
		SELECT
			COUNT(DISTINCT employee_id),
			COALESCE(SUM(gross_salary), 0),
			COALESCE(SUM(net_salary), 0),
			COALESCE(SUM(total_deductions), 0),
			COUNT(*) FILTER (WHERE status = 'paid'),
			COUNT(*) FILTER (WHERE status = 'pending')
		FROM payroll_records
		WHERE ` + w.clause

	var sum payroll.PayrollSummary
	err := q.QueryRow(ctx, query, w.args...).Scan(
		&sum.TotalEmployees, &sum.TotalGrossSalary, &sum.TotalNetSalary, &sum.TotalDeductions,
		&sum.PaidCount, &sum.PendingCount,
	)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("failed to summarize payroll records: %w", err)
	}
	return sum, nil
}
