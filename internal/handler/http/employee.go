package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

// CreateEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	emp, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, "Employee created successfully", emp)
}

// UpdateEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	emp, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", emp)
}

// GetEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.employeeService.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, emp)
}

func queryBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, validator.Field(key, "must be true or false")
	}
	return &v, nil
}

// ListEmployees implements EmployeeHandler.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	canInterview, err := queryBool(r, "can_interview")
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	isActive, err := queryBool(r, "is_active")
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	filter := employee.EmployeeFilter{
		Department:   r.URL.Query().Get("department"),
		Search:       r.URL.Query().Get("search"),
		CanInterview: canInterview,
		IsActive:     isActive,
		Pagination:   paginationFrom(r),
	}

	result, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, pageMeta(filter.Pagination, result.TotalItems))
}
