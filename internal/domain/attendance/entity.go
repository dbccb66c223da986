package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent      Status = "present"
	StatusAbsent       Status = "absent"
	StatusLate         Status = "late"
	StatusHalfDay      Status = "half_day"
	StatusWorkFromHome Status = "work_from_home"
)

type Method string

const (
	MethodWeb       Method = "web"
	MethodMobile    Method = "mobile"
	MethodBiometric Method = "biometric"
	MethodManual    Method = "manual"
)

type BreakType string

const (
	BreakLunch    BreakType = "lunch"
	BreakTea      BreakType = "tea"
	BreakPersonal BreakType = "personal"
	BreakOther    BreakType = "other"
)

// Punch is one side of the working day.
type Punch struct {
	Time     time.Time `json:"time" bson:"time"`
	Location string    `json:"location,omitempty" bson:"location,omitempty"`
	Method   Method    `json:"method" bson:"method"`
}

type Break struct {
	StartTime       time.Time  `json:"start_time" bson:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Type            BreakType  `json:"type" bson:"type"`
	DurationMinutes int        `json:"duration_minutes" bson:"duration_minutes"`
}

// Completed reports whether the break has ended.
func (b Break) Completed() bool {
	return b.EndTime != nil
}

// Attendance is the daily record of one employee. Date is local midnight and,
// together with EmployeeID, unique.
type Attendance struct {
	ID             string    `json:"id" bson:"_id"`
	EmployeeID     string    `json:"employee_id" bson:"employee_id"`
	Date           time.Time `json:"date" bson:"date"`
	CheckIn        *Punch    `json:"check_in,omitempty" bson:"check_in,omitempty"`
	CheckOut       *Punch    `json:"check_out,omitempty" bson:"check_out,omitempty"`
	Breaks         []Break   `json:"breaks" bson:"breaks"`
	WorkingHours   float64   `json:"working_hours" bson:"working_hours"`
	OvertimeHours  float64   `json:"overtime_hours" bson:"overtime_hours"`
	Status         Status    `json:"status" bson:"status"`
	LateArrival    bool      `json:"late_arrival" bson:"late_arrival"`
	EarlyDeparture bool      `json:"early_departure" bson:"early_departure"`
	IsManualEntry  bool      `json:"is_manual_entry" bson:"is_manual_entry"`
	Remarks        string    `json:"remarks,omitempty" bson:"remarks,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// CheckedIn reports whether a clock-in time is recorded.
func (a Attendance) CheckedIn() bool {
	return a.CheckIn != nil && !a.CheckIn.Time.IsZero()
}

// CheckedOut reports whether a clock-out time is recorded.
func (a Attendance) CheckedOut() bool {
	return a.CheckOut != nil && !a.CheckOut.Time.IsZero()
}

// Summary aggregates attendance over a date range.
type Summary struct {
	EmployeeID        string    `json:"employee_id,omitempty"`
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	TotalDays         int64     `json:"total_days"`
	PresentDays       int64     `json:"present_days"`
	AbsentDays        int64     `json:"absent_days"`
	LateDays          int64     `json:"late_days"`
	TotalWorkingHours float64   `json:"total_working_hours"`
	TotalOvertime     float64   `json:"total_overtime"`
	AttendanceRate    float64   `json:"attendance_rate"`
}

// SummaryCounts is the raw aggregation a repository produces for Summary.
type SummaryCounts struct {
	TotalDays         int64
	PresentDays       int64
	AbsentDays        int64
	LateDays          int64
	TotalWorkingHours float64
	TotalOvertime     float64
}
