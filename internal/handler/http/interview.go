package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/interview"
	"github.com/cmlabs-hris/hris-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type InterviewHandler interface {
	Schedule(w http.ResponseWriter, r *http.Request)
	Reschedule(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	SubmitFeedback(w http.ResponseWriter, r *http.Request)
	CheckConflict(w http.ResponseWriter, r *http.Request)
	AvailableInterviewers(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type interviewHandlerImpl struct {
	interviewService interview.InterviewService
	loc              *time.Location
}

func NewInterviewHandler(interviewService interview.InterviewService, loc *time.Location) InterviewHandler {
	return &interviewHandlerImpl{
		interviewService: interviewService,
		loc:              loc,
	}
}

// Schedule implements InterviewHandler.
func (h *interviewHandlerImpl) Schedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd interview.ScheduleCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.Actor = actor

	iv, err := h.interviewService.Schedule(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, "Interview scheduled successfully", iv)
}

// Reschedule implements InterviewHandler.
func (h *interviewHandlerImpl) Reschedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd interview.RescheduleCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.InterviewID = chi.URLParam(r, "id")
	cmd.Actor = actor

	iv, err := h.interviewService.Reschedule(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Interview rescheduled successfully", iv)
}

// UpdateStatus implements InterviewHandler.
func (h *interviewHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd interview.UpdateStatusCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.InterviewID = chi.URLParam(r, "id")
	cmd.Actor = actor

	iv, err := h.interviewService.UpdateStatus(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Interview status updated", iv)
}

// SubmitFeedback implements InterviewHandler.
func (h *interviewHandlerImpl) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var cmd interview.FeedbackCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.InterviewID = chi.URLParam(r, "id")
	cmd.Actor = actor

	iv, err := h.interviewService.SubmitFeedback(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Feedback submitted successfully", iv)
}

func slotQueryFrom(r *http.Request) (interview.SlotQuery, error) {
	q := r.URL.Query()
	query := interview.SlotQuery{
		InterviewerID: q.Get("interviewer_id"),
		Date:          q.Get("date"),
		Time:          q.Get("time"),
		Timezone:      q.Get("timezone"),
		ExcludeID:     q.Get("exclude_id"),
	}
	if raw := q.Get("duration_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			return interview.SlotQuery{}, validator.Field("duration_minutes", "must be a whole number")
		}
		query.DurationMinutes = minutes
	}
	return query, nil
}

// CheckConflict implements InterviewHandler.
func (h *interviewHandlerImpl) CheckConflict(w http.ResponseWriter, r *http.Request) {
	query, err := slotQueryFrom(r)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	if query.InterviewerID == "" {
		response.HandleError(w, r, validator.Field("interviewer_id", "this field is required"))
		return
	}

	conflict, err := h.interviewService.CheckConflict(r.Context(), query)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, map[string]bool{"has_conflict": conflict})
}

// AvailableInterviewers implements InterviewHandler.
func (h *interviewHandlerImpl) AvailableInterviewers(w http.ResponseWriter, r *http.Request) {
	query, err := slotQueryFrom(r)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	interviewers, err := h.interviewService.AvailableInterviewers(r.Context(), query)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, interviewers)
}

// List implements InterviewHandler.
func (h *interviewHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r, h.loc)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := interview.InterviewFilter{
		InterviewerID: q.Get("interviewer_id"),
		CandidateID:   q.Get("candidate_id"),
		Status:        interview.InterviewStatus(q.Get("status")),
		From:          from,
		To:            to,
		Pagination:    paginationFrom(r),
	}

	result, err := h.interviewService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, pageMeta(filter.Pagination, result.TotalItems))
}

// Get implements InterviewHandler.
func (h *interviewHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	iv, err := h.interviewService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, iv)
}
