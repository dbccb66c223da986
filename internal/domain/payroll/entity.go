package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "draft"
	PayrollStatusPending   PayrollStatus = "pending"
	PayrollStatusApproved  PayrollStatus = "approved"
	PayrollStatusPaid      PayrollStatus = "paid"
	PayrollStatusCancelled PayrollStatus = "cancelled"
)

// PayPeriod is the calendar month a record covers. Start and End are the
// first and last day of the month.
type PayPeriod struct {
	Month int       `json:"month" bson:"month"`
	Year  int       `json:"year" bson:"year"`
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

// Display renders the period as "January 2024".
func (p PayPeriod) Display() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
}

type Allowances struct {
	HRA             decimal.Decimal `json:"hra" bson:"hra"`
	Medical         decimal.Decimal `json:"medical" bson:"medical"`
	Transport       decimal.Decimal `json:"transport" bson:"transport"`
	FoodAllowance   decimal.Decimal `json:"food_allowance" bson:"food_allowance"`
	OtherAllowances decimal.Decimal `json:"other_allowances" bson:"other_allowances"`
	Total           decimal.Decimal `json:"total" bson:"total"`
}

type Deductions struct {
	Tax             decimal.Decimal `json:"tax" bson:"tax"`
	ProvidentFund   decimal.Decimal `json:"provident_fund" bson:"provident_fund"`
	Insurance       decimal.Decimal `json:"insurance" bson:"insurance"`
	Loan            decimal.Decimal `json:"loan" bson:"loan"`
	OtherDeductions decimal.Decimal `json:"other_deductions" bson:"other_deductions"`
	Total           decimal.Decimal `json:"total" bson:"total"`
}

type Overtime struct {
	Hours  decimal.Decimal `json:"hours" bson:"hours"`
	Rate   decimal.Decimal `json:"rate" bson:"rate"`
	Amount decimal.Decimal `json:"amount" bson:"amount"`
}

type Bonus struct {
	Performance decimal.Decimal `json:"performance" bson:"performance"`
	Festival    decimal.Decimal `json:"festival" bson:"festival"`
	Other       decimal.Decimal `json:"other" bson:"other"`
	Total       decimal.Decimal `json:"total" bson:"total"`
}

// Salary is the full compensation breakdown. Totals, gross and net are
// derived by Normalize and never set directly.
type Salary struct {
	BasicSalary decimal.Decimal `json:"basic_salary" bson:"basic_salary"`
	Allowances  Allowances      `json:"allowances" bson:"allowances"`
	Deductions  Deductions      `json:"deductions" bson:"deductions"`
	Overtime    Overtime        `json:"overtime" bson:"overtime"`
	Bonus       Bonus           `json:"bonus" bson:"bonus"`
	GrossSalary decimal.Decimal `json:"gross_salary" bson:"gross_salary"`
	NetSalary   decimal.Decimal `json:"net_salary" bson:"net_salary"`
}

// AttendanceSummary - the attendance figures a record was computed from
type AttendanceSummary struct {
	WorkingDays   int     `json:"working_days" bson:"working_days"`
	PresentDays   float64 `json:"present_days" bson:"present_days"`
	AbsentDays    float64 `json:"absent_days" bson:"absent_days"`
	LeavesTaken   float64 `json:"leaves_taken" bson:"leaves_taken"`
	OvertimeHours float64 `json:"overtime_hours" bson:"overtime_hours"`
}

type PaymentDetails struct {
	Method        string     `json:"method" bson:"method"`
	TransactionID string     `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	PaidDate      *time.Time `json:"paid_date,omitempty" bson:"paid_date,omitempty"`
}

// PayrollRecord - one per employee and pay period while active
type PayrollRecord struct {
	ID             string            `json:"id" bson:"_id"`
	EmployeeID     string            `json:"employee_id" bson:"employee_id"`
	PayPeriod      PayPeriod         `json:"pay_period" bson:"pay_period"`
	Salary         Salary            `json:"salary" bson:"salary"`
	Attendance     AttendanceSummary `json:"attendance" bson:"attendance"`
	Status         PayrollStatus     `json:"status" bson:"status"`
	PaymentDetails *PaymentDetails   `json:"payment_details,omitempty" bson:"payment_details,omitempty"`
	Notes          string            `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy      string            `json:"created_by" bson:"created_by"`
	ApprovedBy     *string           `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt     *time.Time        `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	IsActive       bool              `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" bson:"updated_at"`
}

// Draft is the unsaved result of a calculation.
type Draft struct {
	EmployeeID string            `json:"employee_id"`
	PayPeriod  PayPeriod         `json:"pay_period"`
	Salary     Salary            `json:"salary"`
	Attendance AttendanceSummary `json:"attendance"`
}

type PayslipEmployee struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
	Department   string `json:"department"`
	Position     string `json:"position"`
}

// Payslip is a read-only projection of a record.
type Payslip struct {
	PayrollID        string            `json:"payroll_id"`
	Employee         PayslipEmployee   `json:"employee"`
	PayPeriodDisplay string            `json:"pay_period_display"`
	PayPeriod        PayPeriod         `json:"pay_period"`
	Salary           Salary            `json:"salary"`
	Attendance       AttendanceSummary `json:"attendance"`
	Status           PayrollStatus     `json:"status"`
	PaymentDetails   *PaymentDetails   `json:"payment_details,omitempty"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// PayrollSummary aggregates active records.
type PayrollSummary struct {
	TotalEmployees   int64           `json:"total_employees"`
	TotalGrossSalary decimal.Decimal `json:"total_gross_salary"`
	TotalNetSalary   decimal.Decimal `json:"total_net_salary"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	PaidCount        int64           `json:"paid_count"`
	PendingCount     int64           `json:"pending_count"`
}
