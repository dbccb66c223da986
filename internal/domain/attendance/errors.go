package attendance

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
)

// Attendance domain errors
var (
	// Clock state errors
	ErrAlreadyClockedIn   = errors.New("you have already clocked in today")
	ErrAlreadyClockedOut  = errors.New("you have already clocked out today")
	ErrNoClockInFound     = errors.New("no clock-in found for today")
	ErrNoAttendanceRecord = errors.New("no attendance record found for today")

	// Interval errors
	ErrCheckOutBeforeCheckIn = fmt.Errorf("check-out must be after check-in: %w", shared.ErrInvalidInterval)
	ErrBreakEndBeforeStart   = fmt.Errorf("break end must not be before break start: %w", shared.ErrInvalidInterval)
	ErrInvalidDateRange      = fmt.Errorf("date range end must be after its start: %w", shared.ErrInvalidInterval)

	// General errors
	ErrAttendanceNotFound = fmt.Errorf("attendance record not found: %w", shared.ErrNotFound)
	ErrAttendanceExists   = fmt.Errorf("attendance record already exists for this day: %w", shared.ErrDuplicateRecord)
)
