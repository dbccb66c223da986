package payroll

import (
	"context"
)

// PayrollRepository persists payroll records. Only one active record may
// exist per (employee, month, year); Create reports a violation as
// shared.ErrDuplicateRecord.
type PayrollRepository interface {
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	GetActiveByPeriod(ctx context.Context, employeeID string, month, year int) (*PayrollRecord, error)
	Update(ctx context.Context, record PayrollRecord) error
	// List returns active records only
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)
	Summarize(ctx context.Context, filter SummaryFilter) (PayrollSummary, error)
}
