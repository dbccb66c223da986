package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-engine/internal/domain/interview"
)

type interviewRepository struct {
	s *Store
}

func NewInterviewRepository(s *Store) interview.InterviewRepository {
	return &interviewRepository{s: s}
}

func cloneInterview(i interview.Interview) interview.Interview {
	i.RescheduleHistory = slices.Clone(i.RescheduleHistory)
	if i.Feedback != nil {
		fb := *i.Feedback
		i.Feedback = &fb
	}
	return i
}

func (r *interviewRepository) Create(ctx context.Context, i interview.Interview) (interview.Interview, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if i.ID == "" {
		i.ID = uuid.Must(uuid.NewV7()).String()
	}
	r.s.interviews[i.ID] = cloneInterview(i)
	return i, nil
}

func (r *interviewRepository) GetByID(ctx context.Context, id string) (interview.Interview, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i, ok := r.s.interviews[id]
	if !ok {
		return interview.Interview{}, interview.ErrInterviewNotFound
	}
	return cloneInterview(i), nil
}

func (r *interviewRepository) Update(ctx context.Context, i interview.Interview) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.interviews[i.ID]; !ok {
		return interview.ErrInterviewNotFound
	}
	r.s.interviews[i.ID] = cloneInterview(i)
	return nil
}

func (r *interviewRepository) List(ctx context.Context, filter interview.InterviewFilter) ([]interview.Interview, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var items []interview.Interview
	for _, i := range r.s.interviews {
		if !i.IsActive {
			continue
		}
		if filter.InterviewerID != "" && i.InterviewerID != filter.InterviewerID {
			continue
		}
		if filter.CandidateID != "" && i.CandidateID != filter.CandidateID {
			continue
		}
		if filter.Status != "" && i.Status != filter.Status {
			continue
		}
		if !filter.From.IsZero() && i.Scheduling.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !i.Scheduling.Date.Before(filter.To) {
			continue
		}
		items = append(items, cloneInterview(i))
	}
	slices.SortFunc(items, compareSchedule)
	return page(items, filter.Pagination), int64(len(items)), nil
}

func (r *interviewRepository) ListBlocking(ctx context.Context, filter interview.BlockingFilter) ([]interview.Interview, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var items []interview.Interview
	for _, i := range r.s.interviews {
		if !i.IsActive || !i.Status.Blocks() {
			continue
		}
		if filter.InterviewerID != "" && i.InterviewerID != filter.InterviewerID {
			continue
		}
		if i.Scheduling.Date.Before(filter.From) || !i.Scheduling.Date.Before(filter.To) {
			continue
		}
		items = append(items, cloneInterview(i))
	}
	slices.SortFunc(items, compareSchedule)
	return items, nil
}

func compareSchedule(a, b interview.Interview) int {
	if c := a.Scheduling.Date.Compare(b.Scheduling.Date); c != 0 {
		return c
	}
	if a.Scheduling.Time < b.Scheduling.Time {
		return -1
	}
	if a.Scheduling.Time > b.Scheduling.Time {
		return 1
	}
	return 0
}
