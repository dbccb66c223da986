package interview

import (
	"context"
	"time"
)

// BlockingFilter selects active interviews in a blocking status whose
// scheduled date is in [From, To). An empty InterviewerID matches everyone.
type BlockingFilter struct {
	InterviewerID string
	From          time.Time
	To            time.Time
}

type InterviewRepository interface {
	Create(ctx context.Context, interview Interview) (Interview, error)
	GetByID(ctx context.Context, id string) (Interview, error)
	Update(ctx context.Context, interview Interview) error
	List(ctx context.Context, filter InterviewFilter) ([]Interview, int64, error)
	ListBlocking(ctx context.Context, filter BlockingFilter) ([]Interview, error)
}
