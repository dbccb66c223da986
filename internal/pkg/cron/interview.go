package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/interview"
)

type InterviewJobs struct {
	interviewService interview.InterviewService
	reminderLead     time.Duration
	logger           *slog.Logger
}

func NewInterviewJobs(interviewService interview.InterviewService, reminderLead time.Duration, logger *slog.Logger) *InterviewJobs {
	return &InterviewJobs{
		interviewService: interviewService,
		reminderLead:     reminderLead,
		logger:           logger,
	}
}

func (j *InterviewJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("send_interview_reminders", interval, j.SendInterviewReminders)
}

// SendInterviewReminders notifies parties of interviews starting within the
// reminder lead that have not been reminded yet.
func (j *InterviewJobs) SendInterviewReminders(ctx context.Context) error {
	sent, err := j.interviewService.SendReminders(ctx, j.reminderLead)
	if err != nil {
		return fmt.Errorf("failed to send interview reminders: %w", err)
	}
	j.logger.Debug("Cron: interview reminder sweep finished", "sent", sent, "lead", j.reminderLead)
	return nil
}
