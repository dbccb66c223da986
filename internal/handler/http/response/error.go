package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v3"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-engine/internal/domain/interview"
	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/i18n"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/validator"
)

type errorMapping struct {
	target    error
	status    int
	code      string
	messageID string
}

// Specific sentinels come before the shared kinds they wrap.
var errorMappings = []errorMapping{
	// Attendance
	{attendance.ErrAlreadyClockedIn, http.StatusConflict, "ALREADY_CLOCKED_IN", "AlreadyClockedIn"},
	{attendance.ErrAlreadyClockedOut, http.StatusConflict, "ALREADY_CLOCKED_OUT", "AlreadyClockedOut"},
	{attendance.ErrNoClockInFound, http.StatusConflict, "NO_CLOCK_IN_FOUND", "NoClockInFound"},
	{attendance.ErrNoAttendanceRecord, http.StatusConflict, "NO_ATTENDANCE_RECORD", "NoAttendanceRecord"},
	{attendance.ErrAttendanceExists, http.StatusConflict, "DUPLICATE_RECORD", "AttendanceExists"},

	// Leave
	{leave.ErrLeaveRequestAlreadyProcessed, http.StatusConflict, "INVALID_TRANSITION", "LeaveAlreadyProcessed"},
	{leave.ErrNotRequestOwner, http.StatusForbidden, "FORBIDDEN", "LeaveNotOwner"},
	{leave.ErrApprovalNotAllowed, http.StatusForbidden, "FORBIDDEN", "LeaveApprovalNotAllowed"},

	// Payroll
	{payroll.ErrPayrollLocked, http.StatusConflict, "PAYROLL_LOCKED", "PayrollLocked"},
	{payroll.ErrDuplicatePayrollPeriod, http.StatusConflict, "DUPLICATE_RECORD", "PayrollDuplicatePeriod"},
	{payroll.ErrEmployeeHasNoBaseSalary, http.StatusUnprocessableEntity, "NO_BASE_SALARY", "PayrollNoBaseSalary"},
	{payroll.ErrInvalidWorkingDays, http.StatusBadRequest, "BAD_REQUEST", "BadRequest"},
	{payroll.ErrInvalidPresentDays, http.StatusBadRequest, "BAD_REQUEST", "BadRequest"},
	{payroll.ErrInvalidOvertimeHours, http.StatusBadRequest, "BAD_REQUEST", "BadRequest"},

	// Interview
	{interview.ErrInterviewerUnavailable, http.StatusConflict, "INTERVIEWER_UNAVAILABLE", "InterviewerUnavailable"},
	{interview.ErrInvalidTimezone, http.StatusUnprocessableEntity, "INVALID_TIMEZONE", "InvalidTimezone"},
	{interview.ErrNotAnInterviewer, http.StatusUnprocessableEntity, "NOT_AN_INTERVIEWER", "NotAnInterviewer"},

	// Employee
	{employee.ErrEmployeeCodeExists, http.StatusConflict, "DUPLICATE_RECORD", "EmployeeCodeExists"},
	{employee.ErrEmailExists, http.StatusConflict, "DUPLICATE_RECORD", "EmailExists"},
	{employee.ErrEmployeeInactive, http.StatusConflict, "INVALID_TRANSITION", "EmployeeInactive"},

	// Kinds
	{shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "NotFound"},
	{shared.ErrDuplicateRecord, http.StatusConflict, "DUPLICATE_RECORD", "Duplicate"},
	{shared.ErrInvalidInterval, http.StatusBadRequest, "INVALID_INTERVAL", "InvalidInterval"},
	{shared.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION", "InvalidTransition"},
	{shared.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "Forbidden"},
}

// HandleError maps domain errors to HTTP responses, localized for the request.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, i18n.T(ctx, "ValidationFailed"), validationErrs.ToMap())
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			Error(w, m.status, m.code, i18n.T(ctx, m.messageID), map[string]string{"error": err.Error()})
			return
		}
	}

	httplog.SetError(ctx, err)
	slog.ErrorContext(ctx, "unhandled error", "error", err, "path", r.URL.Path)
	InternalServerError(w, i18n.T(ctx, "InternalError"))
}
