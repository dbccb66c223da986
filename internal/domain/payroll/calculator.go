package payroll

import (
	"github.com/shopspring/decimal"
)

// Rules are the fixed allowance and deduction parameters.
type Rules struct {
	HRARate            decimal.Decimal
	Medical            decimal.Decimal
	Transport          decimal.Decimal
	FoodAllowance      decimal.Decimal
	TaxRate            decimal.Decimal
	ProvidentFundRate  decimal.Decimal
	Insurance          decimal.Decimal
	OvertimeMultiplier decimal.Decimal
	DailyHours         int
}

func DefaultRules() Rules {
	return Rules{
		HRARate:            decimal.RequireFromString("0.40"),
		Medical:            decimal.NewFromInt(2000),
		Transport:          decimal.NewFromInt(1500),
		FoodAllowance:      decimal.NewFromInt(1000),
		TaxRate:            decimal.RequireFromString("0.10"),
		ProvidentFundRate:  decimal.RequireFromString("0.12"),
		Insurance:          decimal.NewFromInt(500),
		OvertimeMultiplier: decimal.RequireFromString("1.5"),
		DailyHours:         8,
	}
}

// CalculationInput carries everything Calculate needs.
type CalculationInput struct {
	BaseSalary    decimal.Decimal
	WorkingDays   int
	PresentDays   float64
	OvertimeHours float64
}

const moneyPlaces = 2

// Calculate pro-rates the base salary by attendance and applies rules.
func Calculate(in CalculationInput, rules Rules) (Salary, error) {
	if in.WorkingDays <= 0 {
		return Salary{}, ErrInvalidWorkingDays
	}
	if in.PresentDays < 0 || in.PresentDays > float64(in.WorkingDays) {
		return Salary{}, ErrInvalidPresentDays
	}
	if in.OvertimeHours < 0 {
		return Salary{}, ErrInvalidOvertimeHours
	}
	if !in.BaseSalary.IsPositive() {
		return Salary{}, ErrEmployeeHasNoBaseSalary
	}

	workingDays := decimal.NewFromInt(int64(in.WorkingDays))
	basic := in.BaseSalary.Mul(decimal.NewFromFloat(in.PresentDays)).Div(workingDays).Round(moneyPlaces)

	hourly := in.BaseSalary.Div(workingDays.Mul(decimal.NewFromInt(int64(rules.DailyHours))))
	otRate := hourly.Mul(rules.OvertimeMultiplier).Round(moneyPlaces)
	otHours := decimal.NewFromFloat(in.OvertimeHours)

	s := Salary{
		BasicSalary: basic,
		Allowances: Allowances{
			HRA:           basic.Mul(rules.HRARate).Round(moneyPlaces),
			Medical:       rules.Medical,
			Transport:     rules.Transport,
			FoodAllowance: rules.FoodAllowance,
		},
		Deductions: Deductions{
			Tax:           basic.Mul(rules.TaxRate).Round(moneyPlaces),
			ProvidentFund: basic.Mul(rules.ProvidentFundRate).Round(moneyPlaces),
			Insurance:     rules.Insurance,
		},
		Overtime: Overtime{
			Hours: otHours,
			Rate:  otRate,
		},
	}
	return Normalize(s), nil
}

// Normalize recomputes every derived amount from the components:
// the three totals, the overtime amount, gross and net.
func Normalize(s Salary) Salary {
	a := &s.Allowances
	a.Total = a.HRA.Add(a.Medical).Add(a.Transport).Add(a.FoodAllowance).Add(a.OtherAllowances)

	d := &s.Deductions
	d.Total = d.Tax.Add(d.ProvidentFund).Add(d.Insurance).Add(d.Loan).Add(d.OtherDeductions)

	b := &s.Bonus
	b.Total = b.Performance.Add(b.Festival).Add(b.Other)

	s.Overtime.Amount = s.Overtime.Hours.Mul(s.Overtime.Rate).Round(moneyPlaces)

	s.GrossSalary = s.BasicSalary.Add(a.Total).Add(b.Total).Add(s.Overtime.Amount)
	s.NetSalary = s.GrossSalary.Sub(d.Total)
	return s
}
