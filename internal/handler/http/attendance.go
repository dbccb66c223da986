package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/i18n"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	AddBreak(w http.ResponseWriter, r *http.Request)
	ManualEntry(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	loc               *time.Location
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, loc *time.Location) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		loc:               loc,
	}
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd attendance.ClockInCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.EmployeeID = actor.EmployeeID

	record, err := h.attendanceService.ClockIn(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, "Clocked in successfully", record)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd attendance.ClockOutCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.EmployeeID = actor.EmployeeID

	record, err := h.attendanceService.ClockOut(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out successfully", record)
}

// AddBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) AddBreak(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd attendance.AddBreakCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.EmployeeID = actor.EmployeeID

	record, err := h.attendanceService.AddBreak(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Break recorded", record)
}

// ManualEntry implements AttendanceHandler.
func (h *attendanceHandlerImpl) ManualEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd attendance.ManualEntryCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.EnteredBy = actor.UserID

	record, err := h.attendanceService.ManualEntry(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated", record)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	record, err := h.attendanceService.Today(r.Context(), actor.EmployeeID)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, record)
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := scopeEmployee(actor, r.URL.Query().Get("employee_id"), user.PermissionAttendanceViewAll)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	from, to, err := dateRange(r, h.loc)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	summary, err := h.attendanceService.Summary(r.Context(), attendance.SummaryFilter{
		EmployeeID: employeeID,
		From:       from,
		To:         to,
	})
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, summary)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := scopeEmployee(actor, r.URL.Query().Get("employee_id"), user.PermissionAttendanceViewAll)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	from, to, err := dateRange(r, h.loc)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	filter := attendance.AttendanceFilter{
		EmployeeID: employeeID,
		From:       from,
		To:         to,
		Status:     attendance.Status(r.URL.Query().Get("status")),
		Pagination: paginationFrom(r),
	}

	result, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, pageMeta(filter.Pagination, result.TotalItems))
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	record, err := h.attendanceService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	if !canView(actor, record.EmployeeID, user.PermissionAttendanceViewAll) {
		// Hide other employees' records behind a not-found
		response.NotFound(w, i18n.T(r.Context(), "NotFound"))
		return
	}

	response.Success(w, record)
}
