package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/pkg/calendar"
)

// HalfDayLength is the fixed day count of a half-day request.
const HalfDayLength = 0.5

// CountDays returns the number of leave days a request consumes: 0.5 for a
// half day regardless of span, otherwise every calendar day from start to
// end inclusive.
func CountDays(start, end time.Time, isHalfDay bool) (float64, error) {
	n, err := calendar.DaysInclusive(start, end)
	if err != nil {
		return 0, ErrInvalidDateRange
	}
	if isHalfDay {
		return HalfDayLength, nil
	}
	return float64(n), nil
}

// Allocations is the yearly entitlement per leave type. Types without an
// entry have no balance.
type Allocations map[LeaveType]float64

func DefaultAllocations() Allocations {
	return Allocations{
		LeaveTypeAnnual:      20,
		LeaveTypeSick:        10,
		LeaveTypePersonal:    5,
		LeaveTypeMaternity:   90,
		LeaveTypePaternity:   15,
		LeaveTypeBereavement: 5,
		LeaveTypeEmergency:   3,
	}
}

// balanceOrder fixes the output order of a Balance.
var balanceOrder = []LeaveType{
	LeaveTypeAnnual,
	LeaveTypeSick,
	LeaveTypePersonal,
	LeaveTypeMaternity,
	LeaveTypePaternity,
	LeaveTypeBereavement,
	LeaveTypeEmergency,
	LeaveTypeUnpaid,
}

// BuildBalance combines allocations with the days already used per type.
func (a Allocations) BuildBalance(employeeID string, year int, used map[LeaveType]float64) Balance {
	b := Balance{EmployeeID: employeeID, Year: year, Entries: []BalanceEntry{}}
	for _, t := range balanceOrder {
		allocated, ok := a[t]
		if !ok {
			continue
		}
		b.Entries = append(b.Entries, BalanceEntry{
			LeaveType: t,
			Allocated: allocated,
			Used:      used[t],
			Remaining: allocated - used[t],
		})
	}
	return b
}
