package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-engine/internal/domain/interview"
	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/messaging"
)

type InterviewServiceImpl struct {
	interview.InterviewRepository
	employeeRepo employee.EmployeeRepository
	publisher    messaging.Publisher
	clock        clock.Clock
	logger       *slog.Logger
}

func NewInterviewService(
	interviewRepo interview.InterviewRepository,
	employeeRepo employee.EmployeeRepository,
	publisher messaging.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) interview.InterviewService {
	return &InterviewServiceImpl{
		InterviewRepository: interviewRepo,
		employeeRepo:        employeeRepo,
		publisher:           publisher,
		clock:               clk,
		logger:              logger,
	}
}

// slot is a proposed interview window.
type slot struct {
	scheduling interview.Scheduling
	start, end time.Time
}

// newSlot resolves date and time in tz, falling back to the business timezone.
func (s *InterviewServiceImpl) newSlot(date, hhmm string, minutes int, tz string) (slot, error) {
	loc := s.clock.Now().Location()
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return slot{}, interview.ErrInvalidTimezone
		}
		loc = l
	}

	day, err := calendar.ParseDate(date, loc)
	if err != nil {
		return slot{}, err
	}
	sch := interview.Scheduling{
		Date:            day,
		Time:            hhmm,
		DurationMinutes: minutes,
		Timezone:        loc.String(),
	}
	start, end, err := sch.Window()
	if err != nil {
		return slot{}, err
	}
	return slot{scheduling: sch, start: start, end: end}, nil
}

// blocking loads open interviews whose date is near the slot. The window is
// widened by a day on each side so interviews stored in other timezones are
// still compared on absolute instants.
func (s *InterviewServiceImpl) blocking(ctx context.Context, interviewerID string, sl slot) ([]interview.Interview, error) {
	items, err := s.InterviewRepository.ListBlocking(ctx, interview.BlockingFilter{
		InterviewerID: interviewerID,
		From:          sl.scheduling.Date.AddDate(0, 0, -1),
		To:            sl.scheduling.Date.AddDate(0, 0, 2),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled interviews: %w", err)
	}
	return items, nil
}

func overlapsAny(sl slot, existing []interview.Interview, excludeID string) bool {
	for _, iv := range existing {
		if iv.ID == excludeID {
			continue
		}
		start, end, err := iv.Scheduling.Window()
		if err != nil {
			continue
		}
		if interview.Overlaps(sl.start, sl.end, start, end) {
			return true
		}
	}
	return false
}

func (s *InterviewServiceImpl) conflicts(ctx context.Context, interviewerID string, sl slot, excludeID string) (bool, error) {
	existing, err := s.blocking(ctx, interviewerID, sl)
	if err != nil {
		return false, err
	}
	return overlapsAny(sl, existing, excludeID), nil
}

func (s *InterviewServiceImpl) getInterview(ctx context.Context, id string) (interview.Interview, error) {
	iv, err := s.InterviewRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interview.ErrInterviewNotFound) {
			return interview.Interview{}, err
		}
		return interview.Interview{}, fmt.Errorf("failed to get interview: %w", err)
	}
	return iv, nil
}

// CheckConflict implements interview.InterviewService.
func (s *InterviewServiceImpl) CheckConflict(ctx context.Context, query interview.SlotQuery) (bool, error) {
	if err := query.Validate(); err != nil {
		return false, err
	}
	sl, err := s.newSlot(query.Date, query.Time, query.DurationMinutes, query.Timezone)
	if err != nil {
		return false, err
	}
	return s.conflicts(ctx, query.InterviewerID, sl, query.ExcludeID)
}

// Schedule implements interview.InterviewService.
func (s *InterviewServiceImpl) Schedule(ctx context.Context, cmd interview.ScheduleCommand) (interview.Interview, error) {
	if err := cmd.Validate(); err != nil {
		return interview.Interview{}, err
	}

	interviewer, err := s.employeeRepo.GetByID(ctx, cmd.InterviewerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return interview.Interview{}, interview.ErrInterviewerNotFound
		}
		return interview.Interview{}, fmt.Errorf("failed to get interviewer: %w", err)
	}
	if !interviewer.CanInterview || !interviewer.IsActive {
		return interview.Interview{}, interview.ErrNotAnInterviewer
	}

	sl, err := s.newSlot(cmd.Date, cmd.Time, cmd.DurationMinutes, cmd.Timezone)
	if err != nil {
		return interview.Interview{}, err
	}
	conflict, err := s.conflicts(ctx, cmd.InterviewerID, sl, "")
	if err != nil {
		return interview.Interview{}, err
	}
	if conflict {
		return interview.Interview{}, interview.ErrInterviewerUnavailable
	}

	now := s.clock.Now()
	created, err := s.InterviewRepository.Create(ctx, interview.Interview{
		CandidateID:       cmd.CandidateID,
		CandidateName:     cmd.CandidateName,
		CandidateEmail:    cmd.CandidateEmail,
		Position:          cmd.Position,
		InterviewerID:     cmd.InterviewerID,
		Type:              cmd.Type,
		Scheduling:        sl.scheduling,
		Location:          cmd.Location,
		MeetingLink:       cmd.MeetingLink,
		Status:            interview.InterviewStatusScheduled,
		RescheduleHistory: []interview.RescheduleEntry{},
		Notes:             cmd.Notes,
		CreatedBy:         cmd.Actor.UserID,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return interview.Interview{}, fmt.Errorf("failed to create interview: %w", err)
	}

	s.logger.Info("Interview scheduled",
		"interview_id", created.ID,
		"interviewer_id", created.InterviewerID,
		"start", sl.start,
	)
	messaging.Emit(ctx, s.publisher, s.logger, messaging.EventInterviewScheduled, created)
	return created, nil
}

// Reschedule implements interview.InterviewService.
func (s *InterviewServiceImpl) Reschedule(ctx context.Context, cmd interview.RescheduleCommand) (interview.Interview, error) {
	if err := cmd.Validate(); err != nil {
		return interview.Interview{}, err
	}

	iv, err := s.getInterview(ctx, cmd.InterviewID)
	if err != nil {
		return interview.Interview{}, err
	}
	if iv.Status != interview.InterviewStatusScheduled && iv.Status != interview.InterviewStatusRescheduled {
		return interview.Interview{}, interview.ErrInterviewClosed
	}

	sl, err := s.newSlot(cmd.NewDate, cmd.NewTime, iv.Scheduling.DurationMinutes, iv.Scheduling.Timezone)
	if err != nil {
		return interview.Interview{}, err
	}
	conflict, err := s.conflicts(ctx, iv.InterviewerID, sl, iv.ID)
	if err != nil {
		return interview.Interview{}, err
	}
	if conflict {
		return interview.Interview{}, interview.ErrInterviewerUnavailable
	}

	now := s.clock.Now()
	iv.RescheduleHistory = append(iv.RescheduleHistory, interview.RescheduleEntry{
		PreviousDate:  iv.Scheduling.Date,
		PreviousTime:  iv.Scheduling.Time,
		NewDate:       sl.scheduling.Date,
		NewTime:       sl.scheduling.Time,
		Reason:        cmd.Reason,
		RescheduledBy: cmd.Actor.UserID,
		RescheduledAt: now,
	})
	iv.Scheduling = sl.scheduling
	iv.Status = interview.InterviewStatusRescheduled
	iv.Notifications = interview.Notifications{}
	iv.UpdatedAt = now

	if err := s.InterviewRepository.Update(ctx, iv); err != nil {
		return interview.Interview{}, fmt.Errorf("failed to update interview: %w", err)
	}

	s.logger.Info("Interview rescheduled", "interview_id", iv.ID, "start", sl.start)
	messaging.Emit(ctx, s.publisher, s.logger, messaging.EventInterviewRescheduled, iv)
	return iv, nil
}

// UpdateStatus implements interview.InterviewService.
func (s *InterviewServiceImpl) UpdateStatus(ctx context.Context, cmd interview.UpdateStatusCommand) (interview.Interview, error) {
	if err := cmd.Validate(); err != nil {
		return interview.Interview{}, err
	}

	iv, err := s.getInterview(ctx, cmd.InterviewID)
	if err != nil {
		return interview.Interview{}, err
	}
	if !interview.CanTransition(iv.Status, cmd.Status) {
		return interview.Interview{}, interview.ErrInvalidStatusChange
	}

	iv.Status = cmd.Status
	iv.UpdatedAt = s.clock.Now()
	if err := s.InterviewRepository.Update(ctx, iv); err != nil {
		return interview.Interview{}, fmt.Errorf("failed to update interview: %w", err)
	}

	messaging.Emit(ctx, s.publisher, s.logger, messaging.EventInterviewStatusChanged, iv)
	return iv, nil
}

// SubmitFeedback implements interview.InterviewService. Only the assigned
// interviewer or an interview manager may complete an interview.
func (s *InterviewServiceImpl) SubmitFeedback(ctx context.Context, cmd interview.FeedbackCommand) (interview.Interview, error) {
	if err := cmd.Validate(); err != nil {
		return interview.Interview{}, err
	}

	iv, err := s.getInterview(ctx, cmd.InterviewID)
	if err != nil {
		return interview.Interview{}, err
	}
	if cmd.Actor.EmployeeID != iv.InterviewerID && !cmd.Actor.Can(user.PermissionInterviewManage) {
		return interview.Interview{}, user.ErrInsufficientPermissions
	}
	if !iv.Status.Blocks() {
		return interview.Interview{}, interview.ErrInterviewClosed
	}

	overall := cmd.OverallRating
	if overall == 0 {
		overall = cmd.Ratings.Mean()
	}

	now := s.clock.Now()
	iv.Feedback = &interview.Feedback{
		Ratings:        cmd.Ratings,
		OverallRating:  overall,
		Recommendation: cmd.Recommendation,
		Strengths:      cmd.Strengths,
		Weaknesses:     cmd.Weaknesses,
		Comments:       cmd.Comments,
		SubmittedBy:    cmd.Actor.UserID,
		SubmittedAt:    now,
	}
	iv.Status = interview.InterviewStatusCompleted
	iv.UpdatedAt = now

	if err := s.InterviewRepository.Update(ctx, iv); err != nil {
		return interview.Interview{}, fmt.Errorf("failed to update interview: %w", err)
	}

	s.logger.Info("Interview completed", "interview_id", iv.ID, "recommendation", cmd.Recommendation)
	messaging.Emit(ctx, s.publisher, s.logger, messaging.EventInterviewCompleted, iv)
	return iv, nil
}

// AvailableInterviewers implements interview.InterviewService.
func (s *InterviewServiceImpl) AvailableInterviewers(ctx context.Context, query interview.SlotQuery) ([]employee.Employee, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	sl, err := s.newSlot(query.Date, query.Time, query.DurationMinutes, query.Timezone)
	if err != nil {
		return nil, err
	}

	pool, err := s.interviewerPool(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.blocking(ctx, "", sl)
	if err != nil {
		return nil, err
	}
	byInterviewer := make(map[string][]interview.Interview)
	for _, iv := range existing {
		byInterviewer[iv.InterviewerID] = append(byInterviewer[iv.InterviewerID], iv)
	}

	available := make([]employee.Employee, 0, len(pool))
	for _, emp := range pool {
		if !overlapsAny(sl, byInterviewer[emp.ID], query.ExcludeID) {
			available = append(available, emp)
		}
	}
	return available, nil
}

func (s *InterviewServiceImpl) interviewerPool(ctx context.Context) ([]employee.Employee, error) {
	yes := true
	filter := employee.EmployeeFilter{
		CanInterview: &yes,
		IsActive:     &yes,
		Pagination:   shared.Pagination{Page: 1, Limit: shared.MaxLimit},
	}

	var pool []employee.Employee
	for {
		page, total, err := s.employeeRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list interviewers: %w", err)
		}
		pool = append(pool, page...)
		if len(page) == 0 || int64(len(pool)) >= total {
			return pool, nil
		}
		filter.Page++
	}
}

// SendReminders implements interview.InterviewService.
func (s *InterviewServiceImpl) SendReminders(ctx context.Context, lead time.Duration) (int, error) {
	now := s.clock.Now()
	upcoming, err := s.InterviewRepository.ListBlocking(ctx, interview.BlockingFilter{
		From: calendar.StartOfDay(now).AddDate(0, 0, -1),
		To:   calendar.StartOfDay(now.Add(lead)).AddDate(0, 0, 2),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list upcoming interviews: %w", err)
	}

	sent := 0
	for _, iv := range upcoming {
		if iv.Notifications.ReminderSentAt != nil {
			continue
		}
		start, _, err := iv.Scheduling.Window()
		if err != nil || start.Before(now) || start.After(now.Add(lead)) {
			continue
		}

		if err := s.publisher.Publish(ctx, messaging.EventInterviewReminder, iv); err != nil {
			s.logger.Warn("Failed to publish interview reminder", "interview_id", iv.ID, "error", err)
			continue
		}

		iv.Notifications.CandidateNotified = true
		iv.Notifications.InterviewerNotified = true
		iv.Notifications.ReminderSentAt = &now
		iv.UpdatedAt = now
		if err := s.InterviewRepository.Update(ctx, iv); err != nil {
			return sent, fmt.Errorf("failed to update interview notifications: %w", err)
		}
		sent++
	}

	if sent > 0 {
		s.logger.Info("Interview reminders sent", "count", sent)
	}
	return sent, nil
}

// Get implements interview.InterviewService.
func (s *InterviewServiceImpl) Get(ctx context.Context, id string) (interview.Interview, error) {
	return s.getInterview(ctx, id)
}

// List implements interview.InterviewService.
func (s *InterviewServiceImpl) List(ctx context.Context, filter interview.InterviewFilter) (interview.ListInterviewResponse, error) {
	filter.Pagination = filter.Pagination.Normalize()

	items, total, err := s.InterviewRepository.List(ctx, filter)
	if err != nil {
		return interview.ListInterviewResponse{}, fmt.Errorf("failed to list interviews: %w", err)
	}

	return interview.ListInterviewResponse{
		Items:      items,
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: filter.TotalPages(total),
	}, nil
}
