package interview

import (
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/pkg/calendar"
)

type InterviewStatus string

const (
	InterviewStatusScheduled   InterviewStatus = "scheduled"
	InterviewStatusInProgress  InterviewStatus = "in_progress"
	InterviewStatusCompleted   InterviewStatus = "completed"
	InterviewStatusCancelled   InterviewStatus = "cancelled"
	InterviewStatusRescheduled InterviewStatus = "rescheduled"
	InterviewStatusNoShow      InterviewStatus = "no_show"
)

// BlockingStatuses are the statuses that occupy the interviewer's calendar.
var BlockingStatuses = []InterviewStatus{
	InterviewStatusScheduled,
	InterviewStatusInProgress,
	InterviewStatusRescheduled,
}

// Blocks reports whether an interview in this status occupies its slot.
func (s InterviewStatus) Blocks() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

type InterviewType string

const (
	InterviewTypePhone     InterviewType = "phone"
	InterviewTypeVideo     InterviewType = "video"
	InterviewTypeInPerson  InterviewType = "in_person"
	InterviewTypeTechnical InterviewType = "technical"
	InterviewTypeHR        InterviewType = "hr"
)

// Scheduling places an interview on the calendar. Date is midnight of the
// interview day in Timezone; Time is HH:MM on the 24h clock.
type Scheduling struct {
	Date            time.Time `json:"date" bson:"date"`
	Time            string    `json:"time" bson:"time"`
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes"`
	Timezone        string    `json:"timezone" bson:"timezone"`
}

// Window returns the half-open [start, end) the interview occupies.
func (s Scheduling) Window() (time.Time, time.Time, error) {
	loc := s.Date.Location()
	if s.Timezone != "" {
		l, err := time.LoadLocation(s.Timezone)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidTimezone
		}
		loc = l
	}
	start, err := calendar.At(s.Date.In(loc), s.Time)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(time.Duration(s.DurationMinutes) * time.Minute), nil
}

// Overlaps applies the half-open interval rule: two windows conflict iff
// each starts before the other ends.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

type Recommendation string

const (
	RecommendationStrongHire   Recommendation = "strong_hire"
	RecommendationHire         Recommendation = "hire"
	RecommendationMaybe        Recommendation = "maybe"
	RecommendationNoHire       Recommendation = "no_hire"
	RecommendationStrongNoHire Recommendation = "strong_no_hire"
)

// Ratings are scored 1-10.
type Ratings struct {
	Technical      int `json:"technical" bson:"technical" validate:"required,min=1,max=10"`
	Communication  int `json:"communication" bson:"communication" validate:"required,min=1,max=10"`
	ProblemSolving int `json:"problem_solving" bson:"problem_solving" validate:"required,min=1,max=10"`
	CulturalFit    int `json:"cultural_fit" bson:"cultural_fit" validate:"required,min=1,max=10"`
	Experience     int `json:"experience" bson:"experience" validate:"required,min=1,max=10"`
}

// Mean averages the categories to one decimal place.
func (r Ratings) Mean() float64 {
	sum := r.Technical + r.Communication + r.ProblemSolving + r.CulturalFit + r.Experience
	return float64(sum*10/5) / 10
}

type Feedback struct {
	Ratings        Ratings        `json:"ratings" bson:"ratings"`
	OverallRating  float64        `json:"overall_rating" bson:"overall_rating"`
	Recommendation Recommendation `json:"recommendation" bson:"recommendation"`
	Strengths      string         `json:"strengths,omitempty" bson:"strengths,omitempty"`
	Weaknesses     string         `json:"weaknesses,omitempty" bson:"weaknesses,omitempty"`
	Comments       string         `json:"comments,omitempty" bson:"comments,omitempty"`
	SubmittedBy    string         `json:"submitted_by" bson:"submitted_by"`
	SubmittedAt    time.Time      `json:"submitted_at" bson:"submitted_at"`
}

type RescheduleEntry struct {
	PreviousDate  time.Time `json:"previous_date" bson:"previous_date"`
	PreviousTime  string    `json:"previous_time" bson:"previous_time"`
	NewDate       time.Time `json:"new_date" bson:"new_date"`
	NewTime       string    `json:"new_time" bson:"new_time"`
	Reason        string    `json:"reason" bson:"reason"`
	RescheduledBy string    `json:"rescheduled_by" bson:"rescheduled_by"`
	RescheduledAt time.Time `json:"rescheduled_at" bson:"rescheduled_at"`
}

// Notifications track which parties were told about the current slot.
type Notifications struct {
	CandidateNotified   bool       `json:"candidate_notified" bson:"candidate_notified"`
	InterviewerNotified bool       `json:"interviewer_notified" bson:"interviewer_notified"`
	ReminderSentAt      *time.Time `json:"reminder_sent_at,omitempty" bson:"reminder_sent_at,omitempty"`
}

type Interview struct {
	ID                string            `json:"id" bson:"_id"`
	CandidateID       string            `json:"candidate_id" bson:"candidate_id"`
	CandidateName     string            `json:"candidate_name" bson:"candidate_name"`
	CandidateEmail    string            `json:"candidate_email,omitempty" bson:"candidate_email,omitempty"`
	Position          string            `json:"position" bson:"position"`
	InterviewerID     string            `json:"interviewer_id" bson:"interviewer_id"`
	Type              InterviewType     `json:"type" bson:"type"`
	Scheduling        Scheduling        `json:"scheduling" bson:"scheduling"`
	Location          string            `json:"location,omitempty" bson:"location,omitempty"`
	MeetingLink       string            `json:"meeting_link,omitempty" bson:"meeting_link,omitempty"`
	Status            InterviewStatus   `json:"status" bson:"status"`
	Feedback          *Feedback         `json:"feedback,omitempty" bson:"feedback,omitempty"`
	RescheduleHistory []RescheduleEntry `json:"reschedule_history" bson:"reschedule_history"`
	Notifications     Notifications     `json:"notifications" bson:"notifications"`
	Notes             string            `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy         string            `json:"created_by" bson:"created_by"`
	IsActive          bool              `json:"is_active" bson:"is_active"`
	CreatedAt         time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" bson:"updated_at"`
}

// transitions lists the statuses UpdateStatus may move to from each status.
var transitions = map[InterviewStatus][]InterviewStatus{
	InterviewStatusScheduled:   {InterviewStatusInProgress, InterviewStatusCancelled, InterviewStatusNoShow},
	InterviewStatusRescheduled: {InterviewStatusInProgress, InterviewStatusCancelled, InterviewStatusNoShow},
	InterviewStatusInProgress:  {InterviewStatusCancelled},
}

// CanTransition reports whether UpdateStatus may move from one status to another.
func CanTransition(from, to InterviewStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
