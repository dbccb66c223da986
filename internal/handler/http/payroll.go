package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	CreatePayrollRecord(w http.ResponseWriter, r *http.Request)
	GeneratePayroll(w http.ResponseWriter, r *http.Request)
	GetPayrollRecord(w http.ResponseWriter, r *http.Request)
	ListPayrollRecords(w http.ResponseWriter, r *http.Request)
	UpdatePayrollRecord(w http.ResponseWriter, r *http.Request)
	DeletePayrollRecord(w http.ResponseWriter, r *http.Request)
	SubmitPayroll(w http.ResponseWriter, r *http.Request)
	ApprovePayroll(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	GetPayrollSummary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== CALCULATION ==========

func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var cmd payroll.CalculateCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}

	draft, err := h.payrollService.Calculate(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, draft)
}

// ========== RECORDS ==========

func (h *payrollHandlerImpl) CreatePayrollRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd payroll.CreateCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.CreatedBy = actor

	record, err := h.payrollService.Create(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, "Payroll record created successfully", record)
}

func (h *payrollHandlerImpl) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd payroll.GenerateCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.CreatedBy = actor

	result, err := h.payrollService.Generate(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, "Payroll generated", result)
}

func (h *payrollHandlerImpl) GetPayrollRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.payrollService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, record)
}

func (h *payrollHandlerImpl) ListPayrollRecords(w http.ResponseWriter, r *http.Request) {
	month, err := queryInt(r, "month")
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	filter := payroll.PayrollFilter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Month:      month,
		Year:       year,
		Status:     payroll.PayrollStatus(r.URL.Query().Get("status")),
		Pagination: paginationFrom(r),
	}

	result, err := h.payrollService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, pageMeta(filter.Pagination, result.TotalItems))
}

func (h *payrollHandlerImpl) UpdatePayrollRecord(w http.ResponseWriter, r *http.Request) {
	var cmd payroll.UpdateCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.RecordID = chi.URLParam(r, "id")

	record, err := h.payrollService.Update(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record updated successfully", record)
}

func (h *payrollHandlerImpl) DeletePayrollRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.payrollService.Delete(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record deleted successfully", nil)
}

// ========== LIFECYCLE ==========

func (h *payrollHandlerImpl) SubmitPayroll(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	record, err := h.payrollService.Submit(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll submitted for approval", record)
}

func (h *payrollHandlerImpl) ApprovePayroll(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	record, err := h.payrollService.Approve(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll approved", record)
}

func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var cmd payroll.MarkPaidCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.RecordID = chi.URLParam(r, "id")

	record, err := h.payrollService.MarkPaid(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll marked as paid", record)
}

// ========== REPORTS ==========

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	payslip, err := h.payrollService.Payslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, payslip)
}

func (h *payrollHandlerImpl) GetPayrollSummary(w http.ResponseWriter, r *http.Request) {
	month, err := queryInt(r, "month")
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	summary, err := h.payrollService.Summary(r.Context(), payroll.SummaryFilter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Month:      month,
		Year:       year,
		Status:     payroll.PayrollStatus(r.URL.Query().Get("status")),
	})
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, summary)
}
