package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/i18n"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	DecideRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
	loc          *time.Location
}

func NewLeaveHandler(leaveService leave.LeaveService, loc *time.Location) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
		loc:          loc,
	}
}

// CreateRequest implements LeaveHandler.
func (h *leaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd leave.SubmitCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.EmployeeID = actor.EmployeeID

	request, err := h.leaveService.Submit(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", request)
}

// UpdateRequest implements LeaveHandler.
func (h *leaveHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd leave.UpdateCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.RequestID = chi.URLParam(r, "id")
	cmd.Actor = actor

	request, err := h.leaveService.UpdateAsOwner(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated successfully", request)
}

// DecideRequest implements LeaveHandler.
func (h *leaveHandlerImpl) DecideRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd leave.DecideCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.RequestID = chi.URLParam(r, "id")
	cmd.Approver = actor

	request, err := h.leaveService.Decide(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+string(request.Status), request)
}

// CancelRequest implements LeaveHandler.
func (h *leaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	request, err := h.leaveService.Cancel(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", request)
}

// ListRequests implements LeaveHandler.
func (h *leaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	employeeID, err := scopeEmployee(actor, query.Get("employee_id"), user.PermissionLeaveViewAll)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	year, err := queryInt(r, "year")
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	filter := leave.LeaveRequestFilter{
		EmployeeID: employeeID,
		Status:     leave.LeaveRequestStatus(query.Get("status")),
		LeaveType:  leave.LeaveType(query.Get("leave_type")),
		Year:       year,
		Pagination: paginationFrom(r),
	}

	result, err := h.leaveService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, pageMeta(filter.Pagination, result.TotalItems))
}

// GetRequest implements LeaveHandler.
func (h *leaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	request, err := h.leaveService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	if !canView(actor, request.EmployeeID, user.PermissionLeaveViewAll) {
		response.NotFound(w, i18n.T(r.Context(), "NotFound"))
		return
	}

	response.Success(w, request)
}

// GetBalance implements LeaveHandler.
func (h *leaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := scopeEmployee(actor, r.URL.Query().Get("employee_id"), user.PermissionLeaveViewAll)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}
	if employeeID == "" {
		response.HandleError(w, r, user.ErrEmployeeIDRequired)
		return
	}

	year, err := queryInt(r, "year")
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	if year == 0 {
		year = time.Now().In(h.loc).Year()
	}

	balance, err := h.leaveService.Balance(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, balance)
}
