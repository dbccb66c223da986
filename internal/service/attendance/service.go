package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	policy    attendance.Policy
	publisher messaging.Publisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	policy attendance.Policy,
	publisher messaging.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		policy:               policy,
		publisher:            publisher,
		clock:                clk,
		logger:               logger,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// today loads the employee's record for the current business day, or nil.
func (s *AttendanceServiceImpl) today(ctx context.Context, employeeID string) (*attendance.Attendance, time.Time, time.Time, error) {
	now := s.clock.Now()
	from, to := calendar.DayRange(now)
	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, from, to)
	if err != nil {
		return nil, now, from, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	return existing, now, from, nil
}

// checkedInStatus keeps the status of a record that already has one, except
// absent, which a check-in overrides. Lateness is tracked by LateArrival.
func checkedInStatus(current attendance.Status) attendance.Status {
	if current == "" || current == attendance.StatusAbsent {
		return attendance.StatusPresent
	}
	return current
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, cmd attendance.ClockInCommand) (attendance.Attendance, error) {
	if err := cmd.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	existing, now, day, err := s.today(ctx, cmd.EmployeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if existing != nil && existing.CheckedIn() {
		return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
	}

	punch := &attendance.Punch{Time: now, Location: cmd.Location, Method: cmd.Method}
	late := s.policy.IsLate(now)

	var record attendance.Attendance
	if existing != nil {
		// A record without a check-in exists, e.g. one marked absent in advance
		record = *existing
		record.CheckIn = punch
		record.Status = checkedInStatus(record.Status)
		record.LateArrival = late
		record.UpdatedAt = now
		if err := attendance.Recompute(&record); err != nil {
			return attendance.Attendance{}, err
		}
		if err := s.AttendanceRepository.Update(ctx, record); err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
		}
	} else {
		record, err = s.AttendanceRepository.Create(ctx, attendance.Attendance{
			EmployeeID:  cmd.EmployeeID,
			Date:        day,
			CheckIn:     punch,
			Breaks:      []attendance.Break{},
			Status:      attendance.StatusPresent,
			LateArrival: late,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceExists) {
				return attendance.Attendance{}, err
			}
			return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
		}
	}

	s.logger.Info("Employee clocked in", "employee_id", cmd.EmployeeID, "attendance_id", record.ID, "late", late)
	messaging.Emit(ctx, s.publisher, s.logger, messaging.EventAttendanceClockIn, record)
	return record, nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, cmd attendance.ClockOutCommand) (attendance.Attendance, error) {
	if err := cmd.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	existing, now, _, err := s.today(ctx, cmd.EmployeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if existing == nil || !existing.CheckedIn() {
		return attendance.Attendance{}, attendance.ErrNoClockInFound
	}
	if existing.CheckedOut() {
		return attendance.Attendance{}, attendance.ErrAlreadyClockedOut
	}

	record := *existing
	record.CheckOut = &attendance.Punch{Time: now, Location: cmd.Location, Method: cmd.Method}
	record.EarlyDeparture = s.policy.IsEarlyDeparture(now)
	record.UpdatedAt = now
	if err := attendance.Recompute(&record); err != nil {
		return attendance.Attendance{}, err
	}

	if err := s.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	s.logger.Info("Employee clocked out", "employee_id", cmd.EmployeeID, "attendance_id", record.ID, "working_hours", record.WorkingHours)
	messaging.Emit(ctx, s.publisher, s.logger, messaging.EventAttendanceClockOut, record)
	return record, nil
}

// AddBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AddBreak(ctx context.Context, cmd attendance.AddBreakCommand) (attendance.Attendance, error) {
	if err := cmd.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	existing, now, _, err := s.today(ctx, cmd.EmployeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if existing == nil {
		return attendance.Attendance{}, attendance.ErrNoAttendanceRecord
	}
	if !existing.CheckedIn() {
		return attendance.Attendance{}, attendance.ErrNoClockInFound
	}

	start := now
	if cmd.StartTime != nil {
		start = *cmd.StartTime
	}
	if cmd.EndTime != nil && cmd.EndTime.Before(start) {
		return attendance.Attendance{}, attendance.ErrBreakEndBeforeStart
	}

	b := attendance.Break{StartTime: start, EndTime: cmd.EndTime, Type: cmd.Type}
	b.DurationMinutes = attendance.BreakDurationMinutes(b)

	record := *existing
	record.Breaks = append(append([]attendance.Break{}, existing.Breaks...), b)
	record.UpdatedAt = now
	// Breaks recorded after clock-out still reduce working hours
	if err := attendance.Recompute(&record); err != nil {
		return attendance.Attendance{}, err
	}

	if err := s.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	messaging.Emit(ctx, s.publisher, s.logger, messaging.EventAttendanceBreakAdded, record)
	return record, nil
}

// ManualEntry implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ManualEntry(ctx context.Context, cmd attendance.ManualEntryCommand) (attendance.Attendance, error) {
	if err := cmd.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	now := s.clock.Now()
	date, err := calendar.ParseDate(cmd.Date, now.Location())
	if err != nil {
		return attendance.Attendance{}, err
	}
	from, to := calendar.DayRange(date)

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, cmd.EmployeeID, from, to)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	record := attendance.Attendance{
		EmployeeID: cmd.EmployeeID,
		Date:       from,
		Breaks:     []attendance.Break{},
		Status:     attendance.StatusPresent,
		CreatedAt:  now,
	}
	if existing != nil {
		record = *existing
	}

	timestamp := cmd.Timestamp.In(now.Location())
	if !calendar.StartOfDay(timestamp).Equal(from) {
		return attendance.Attendance{}, validator.Field("timestamp", "must fall on the entry date")
	}
	punch := &attendance.Punch{Time: timestamp, Location: cmd.Location, Method: attendance.MethodManual}
	switch cmd.Action {
	case attendance.ManualCheckIn:
		record.CheckIn = punch
		record.Status = checkedInStatus(record.Status)
		record.LateArrival = s.policy.IsLate(timestamp)
	case attendance.ManualCheckOut:
		record.CheckOut = punch
		record.EarlyDeparture = s.policy.IsEarlyDeparture(timestamp)
	}

	record.IsManualEntry = true
	record.Remarks = cmd.Reason
	if cmd.Remarks != "" {
		record.Remarks = cmd.Reason + " - " + cmd.Remarks
	}
	record.UpdatedAt = now
	if err := attendance.Recompute(&record); err != nil {
		return attendance.Attendance{}, err
	}

	if existing != nil {
		if err := s.AttendanceRepository.Update(ctx, record); err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
		}
	} else {
		record, err = s.AttendanceRepository.Create(ctx, record)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceExists) {
				return attendance.Attendance{}, err
			}
			return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
		}
	}

	s.logger.Info("Manual attendance entry",
		"employee_id", cmd.EmployeeID,
		"attendance_id", record.ID,
		"action", cmd.Action,
		"entered_by", cmd.EnteredBy,
	)
	messaging.Emit(ctx, s.publisher, s.logger, messaging.EventAttendanceManualEntry, record)
	return record, nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	existing, _, _, err := s.today(ctx, employeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if existing == nil {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return *existing, nil
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.Attendance, error) {
	record, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, err
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return record, nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	filter.Pagination = filter.Pagination.Normalize()
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.To.After(filter.From) {
		return attendance.ListAttendanceResponse{}, attendance.ErrInvalidDateRange
	}

	items, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return attendance.ListAttendanceResponse{
		Items:      items,
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: filter.TotalPages(total),
	}, nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, filter attendance.SummaryFilter) (attendance.Summary, error) {
	if err := filter.Validate(); err != nil {
		return attendance.Summary{}, err
	}

	counts, err := s.AttendanceRepository.Summarize(ctx, filter)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}

	summary := attendance.Summary{
		EmployeeID:        filter.EmployeeID,
		From:              filter.From,
		To:                filter.To,
		TotalDays:         counts.TotalDays,
		PresentDays:       counts.PresentDays,
		AbsentDays:        counts.AbsentDays,
		LateDays:          counts.LateDays,
		TotalWorkingHours: round2(counts.TotalWorkingHours),
		TotalOvertime:     round2(counts.TotalOvertime),
	}
	if counts.TotalDays > 0 {
		summary.AttendanceRate = round2(float64(counts.PresentDays) / float64(counts.TotalDays) * 100)
	}
	return summary, nil
}
