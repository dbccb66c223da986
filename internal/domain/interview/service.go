package interview

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
)

type InterviewService interface {
	// CheckConflict reports whether the slot overlaps one of the interviewer's open interviews
	CheckConflict(ctx context.Context, query SlotQuery) (bool, error)

	Schedule(ctx context.Context, cmd ScheduleCommand) (Interview, error)
	Reschedule(ctx context.Context, cmd RescheduleCommand) (Interview, error)
	UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (Interview, error)
	SubmitFeedback(ctx context.Context, cmd FeedbackCommand) (Interview, error)

	// AvailableInterviewers lists eligible employees free for the whole slot
	AvailableInterviewers(ctx context.Context, query SlotQuery) ([]employee.Employee, error)

	// SendReminders notifies parties of interviews starting within lead and
	// returns how many interviews were processed
	SendReminders(ctx context.Context, lead time.Duration) (int, error)

	Get(ctx context.Context, id string) (Interview, error)
	List(ctx context.Context, filter InterviewFilter) (ListInterviewResponse, error)
}
