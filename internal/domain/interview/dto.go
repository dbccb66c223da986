package interview

import (
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/validator"
)

// SlotQuery describes a proposed slot. InterviewerID is ignored by
// AvailableInterviewers; ExcludeID skips one interview, typically the one
// being moved.
type SlotQuery struct {
	InterviewerID   string `json:"interviewer_id"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" validate:"required,datetime=15:04"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=5,max=480"`
	Timezone        string `json:"timezone" validate:"omitempty,timezone"`
	ExcludeID       string `json:"exclude_id"`
}

func (q SlotQuery) Validate() error {
	return validator.Struct(q)
}

type ScheduleCommand struct {
	CandidateID     string        `json:"candidate_id" validate:"required"`
	CandidateName   string        `json:"candidate_name" validate:"required,max=255"`
	CandidateEmail  string        `json:"candidate_email" validate:"omitempty,email"`
	Position        string        `json:"position" validate:"required,max=255"`
	InterviewerID   string        `json:"interviewer_id" validate:"required"`
	Type            InterviewType `json:"type" validate:"required,oneof=phone video in_person technical hr"`
	Date            string        `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string        `json:"time" validate:"required,datetime=15:04"`
	DurationMinutes int           `json:"duration_minutes" validate:"required,min=5,max=480"`
	Timezone        string        `json:"timezone" validate:"omitempty,timezone"`
	Location        string        `json:"location" validate:"max=255"`
	MeetingLink     string        `json:"meeting_link" validate:"omitempty,url"`
	Notes           string        `json:"notes" validate:"max=2000"`
	Actor           user.Actor    `json:"-"`
}

func (c ScheduleCommand) Validate() error {
	return validator.Struct(c)
}

type RescheduleCommand struct {
	InterviewID string     `json:"-" validate:"required"`
	NewDate     string     `json:"new_date" validate:"required,datetime=2006-01-02"`
	NewTime     string     `json:"new_time" validate:"required,datetime=15:04"`
	Reason      string     `json:"reason" validate:"required,max=500"`
	Actor       user.Actor `json:"-"`
}

func (c RescheduleCommand) Validate() error {
	return validator.Struct(c)
}

type UpdateStatusCommand struct {
	InterviewID string          `json:"-" validate:"required"`
	Status      InterviewStatus `json:"status" validate:"required,oneof=in_progress cancelled no_show"`
	Actor       user.Actor      `json:"-"`
}

func (c UpdateStatusCommand) Validate() error {
	return validator.Struct(c)
}

// FeedbackCommand completes an interview. A zero OverallRating is filled
// with the mean of the category ratings.
type FeedbackCommand struct {
	InterviewID    string         `json:"-" validate:"required"`
	Ratings        Ratings        `json:"ratings"`
	OverallRating  float64        `json:"overall_rating" validate:"omitempty,min=1,max=10"`
	Recommendation Recommendation `json:"recommendation" validate:"required,oneof=strong_hire hire maybe no_hire strong_no_hire"`
	Strengths      string         `json:"strengths" validate:"max=2000"`
	Weaknesses     string         `json:"weaknesses" validate:"max=2000"`
	Comments       string         `json:"comments" validate:"max=2000"`
	Actor          user.Actor     `json:"-"`
}

func (c FeedbackCommand) Validate() error {
	return validator.Struct(c)
}

type InterviewFilter struct {
	InterviewerID string
	CandidateID   string
	Status        InterviewStatus
	From          time.Time
	To            time.Time
	shared.Pagination
}

type ListInterviewResponse struct {
	Items      []Interview `json:"items"`
	TotalItems int64       `json:"total_items"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}
