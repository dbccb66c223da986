package email

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-engine/internal/domain/interview"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/messaging"
)

const reminderTimeLayout = "Mon, 02 Jan 2006 15:04 MST"

// ReminderMailer forwards every event to next and additionally emails the
// candidate and interviewer when an interview reminder is published. Mail
// failures are logged and never fail the publish.
type ReminderMailer struct {
	next      messaging.Publisher
	mailer    EmailService
	employees employee.EmployeeRepository
	logger    *slog.Logger
}

func NewReminderMailer(next messaging.Publisher, mailer EmailService, employees employee.EmployeeRepository, logger *slog.Logger) *ReminderMailer {
	return &ReminderMailer{
		next:      next,
		mailer:    mailer,
		employees: employees,
		logger:    logger,
	}
}

func (m *ReminderMailer) Publish(ctx context.Context, eventType string, data any) error {
	if err := m.next.Publish(ctx, eventType, data); err != nil {
		return err
	}
	if eventType != messaging.EventInterviewReminder {
		return nil
	}

	iv, ok := data.(interview.Interview)
	if !ok {
		return nil
	}
	m.sendReminders(ctx, iv)
	return nil
}

func (m *ReminderMailer) Close() error {
	return m.next.Close()
}

func (m *ReminderMailer) sendReminders(ctx context.Context, iv interview.Interview) {
	start, _, err := iv.Scheduling.Window()
	if err != nil {
		m.logger.Warn("Skipping reminder email: bad schedule", "interview_id", iv.ID, "error", err)
		return
	}
	base := InterviewReminder{
		CandidateName:   iv.CandidateName,
		Position:        iv.Position,
		InterviewType:   string(iv.Type),
		StartsAt:        start.Format(reminderTimeLayout),
		DurationMinutes: iv.Scheduling.DurationMinutes,
		Location:        iv.Location,
		MeetingLink:     iv.MeetingLink,
	}

	if iv.CandidateEmail != "" {
		data := base
		data.RecipientName = iv.CandidateName
		data.CandidateName = ""
		if err := m.mailer.SendInterviewReminder(ctx, iv.CandidateEmail, data); err != nil {
			m.logger.Warn("Failed to email candidate reminder", "interview_id", iv.ID, "error", err)
		}
	}

	interviewer, err := m.employees.GetByID(ctx, iv.InterviewerID)
	if err != nil {
		m.logger.Warn("Failed to load interviewer for reminder", "interview_id", iv.ID, "error", err)
		return
	}
	data := base
	data.RecipientName = interviewer.FullName
	if err := m.mailer.SendInterviewReminder(ctx, interviewer.Email, data); err != nil {
		m.logger.Warn("Failed to email interviewer reminder", "interview_id", iv.ID, "error", err)
	}
}
