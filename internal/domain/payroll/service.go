package payroll

import (
	"context"

	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
)

type PayrollService interface {
	// ========== CALCULATION ==========
	Calculate(ctx context.Context, cmd CalculateCommand) (Draft, error)

	// ========== RECORDS ==========
	Create(ctx context.Context, cmd CreateCommand) (PayrollRecord, error)
	Generate(ctx context.Context, cmd GenerateCommand) (GenerateResult, error)
	Get(ctx context.Context, id string) (PayrollRecord, error)
	List(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	Update(ctx context.Context, cmd UpdateCommand) (PayrollRecord, error)
	Delete(ctx context.Context, id string, actor user.Actor) error

	// ========== LIFECYCLE ==========
	Submit(ctx context.Context, id string, actor user.Actor) (PayrollRecord, error)
	Approve(ctx context.Context, id string, actor user.Actor) (PayrollRecord, error)
	MarkPaid(ctx context.Context, cmd MarkPaidCommand) (PayrollRecord, error)

	// ========== REPORTS ==========
	Payslip(ctx context.Context, id string) (Payslip, error)
	Summary(ctx context.Context, filter SummaryFilter) (PayrollSummary, error)
}
