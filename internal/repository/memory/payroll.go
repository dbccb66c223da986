package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-engine/internal/domain/payroll"
)

type payrollRepository struct {
	s *Store
}

func NewPayrollRepository(s *Store) payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

func (r *payrollRepository) activeConflict(rec payroll.PayrollRecord) bool {
	if !rec.IsActive {
		return false
	}
	for _, existing := range r.s.payrolls {
		if existing.ID == rec.ID || !existing.IsActive {
			continue
		}
		if existing.EmployeeID == rec.EmployeeID &&
			existing.PayPeriod.Month == rec.PayPeriod.Month &&
			existing.PayPeriod.Year == rec.PayPeriod.Year {
			return true
		}
	}
	return false
}

func (r *payrollRepository) Create(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}
	if r.activeConflict(rec) {
		return payroll.PayrollRecord{}, payroll.ErrDuplicatePayrollPeriod
	}
	r.s.payrolls[rec.ID] = rec
	return rec, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.payrolls[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return rec, nil
}

func (r *payrollRepository) GetActiveByPeriod(ctx context.Context, employeeID string, month, year int) (*payroll.PayrollRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.payrolls {
		if rec.IsActive && rec.EmployeeID == employeeID && rec.PayPeriod.Month == month && rec.PayPeriod.Year == year {
			return &rec, nil
		}
	}
	return nil, nil
}

func (r *payrollRepository) Update(ctx context.Context, rec payroll.PayrollRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.payrolls[rec.ID]; !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	if r.activeConflict(rec) {
		return payroll.ErrDuplicatePayrollPeriod
	}
	r.s.payrolls[rec.ID] = rec
	return nil
}

func (r *payrollRepository) matching(employeeID string, month, year int, status payroll.PayrollStatus) []payroll.PayrollRecord {
	var out []payroll.PayrollRecord
	for _, rec := range r.s.payrolls {
		if !rec.IsActive {
			continue
		}
		if employeeID != "" && rec.EmployeeID != employeeID {
			continue
		}
		if month != 0 && rec.PayPeriod.Month != month {
			continue
		}
		if year != 0 && rec.PayPeriod.Year != year {
			continue
		}
		if status != "" && rec.Status != status {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := r.matching(filter.EmployeeID, filter.Month, filter.Year, filter.Status)
	slices.SortFunc(items, func(a, b payroll.PayrollRecord) int {
		if a.PayPeriod.Year != b.PayPeriod.Year {
			return b.PayPeriod.Year - a.PayPeriod.Year
		}
		if a.PayPeriod.Month != b.PayPeriod.Month {
			return b.PayPeriod.Month - a.PayPeriod.Month
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return page(items, filter.Pagination), int64(len(items)), nil
}

func (r *payrollRepository) Summarize(ctx context.Context, filter payroll.SummaryFilter) (payroll.PayrollSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sum := payroll.PayrollSummary{
		TotalGrossSalary: decimal.Zero,
		TotalNetSalary:   decimal.Zero,
		TotalDeductions:  decimal.Zero,
	}
	employees := make(map[string]struct{})
	for _, rec := range r.matching(filter.EmployeeID, filter.Month, filter.Year, filter.Status) {
		employees[rec.EmployeeID] = struct{}{}
		sum.TotalGrossSalary = sum.TotalGrossSalary.Add(rec.Salary.GrossSalary)
		sum.TotalNetSalary = sum.TotalNetSalary.Add(rec.Salary.NetSalary)
		sum.TotalDeductions = sum.TotalDeductions.Add(rec.Salary.Deductions.Total)
		switch rec.Status {
		case payroll.PayrollStatusPaid:
			sum.PaidCount++
		case payroll.PayrollStatusPending:
			sum.PendingCount++
		}
	}
	sum.TotalEmployees = int64(len(employees))
	return sum, nil
}
