package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hris-engine/internal/domain/interview"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

type interviewRepository struct {
	db *database.DB
}

func NewInterviewRepository(db *database.DB) interview.InterviewRepository {
	return &interviewRepository{db: db}
}

const interviewColumns = `
	id, candidate_id, candidate_name, candidate_email, position, interviewer_id, type,
	scheduled_date, scheduled_time, duration_minutes, timezone,
	location, meeting_link, status, feedback, reschedule_history, notifications,
	notes, created_by, is_active, created_at, updated_at`

func scanInterview(row pgx.Row) (interview.Interview, error) {
	var i interview.Interview
	err := row.Scan(
		&i.ID, &i.CandidateID, &i.CandidateName, &i.CandidateEmail, &i.Position, &i.InterviewerID, &i.Type,
		&i.Scheduling.Date, &i.Scheduling.Time, &i.Scheduling.DurationMinutes, &i.Scheduling.Timezone,
		&i.Location, &i.MeetingLink, &i.Status, &i.Feedback, &i.RescheduleHistory, &i.Notifications,
		&i.Notes, &i.CreatedBy, &i.IsActive, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return interview.Interview{}, err
	}
	if i.RescheduleHistory == nil {
		i.RescheduleHistory = []interview.RescheduleEntry{}
	}
	return i, nil
}

func interviewArgs(i interview.Interview) []interface{} {
	if i.RescheduleHistory == nil {
		i.RescheduleHistory = []interview.RescheduleEntry{}
	}
	return []interface{}{
		i.ID, i.CandidateID, i.CandidateName, i.CandidateEmail, i.Position, i.InterviewerID, i.Type,
		i.Scheduling.Date, i.Scheduling.Time, i.Scheduling.DurationMinutes, i.Scheduling.Timezone,
		i.Location, i.MeetingLink, i.Status, i.Feedback, i.RescheduleHistory, i.Notifications,
		i.Notes, i.CreatedBy, i.IsActive, i.CreatedAt, i.UpdatedAt,
	}
}

func (r *interviewRepository) Create(ctx context.Context, i interview.Interview) (interview.Interview, error) {
	q := GetQuerier(ctx, r.db)

	if i.ID == "" {
		i.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO interviews (` + interviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING ` + interviewColumns

	created, err := scanInterview(q.QueryRow(ctx, query, interviewArgs(i)...))
	if err != nil {
		return interview.Interview{}, fmt.Errorf("failed to create interview: %w", err)
	}
	return created, nil
}

func (r *interviewRepository) GetByID(ctx context.Context, id string) (interview.Interview, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1`
	i, err := scanInterview(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return interview.Interview{}, interview.ErrInterviewNotFound
		}
		return interview.Interview{}, fmt.Errorf("failed to get interview by id: %w", err)
	}
	return i, nil
}

func (r *interviewRepository) Update(ctx context.Context, i interview.Interview) error {
	q := GetQuerier(ctx, r.db)

	if i.RescheduleHistory == nil {
		i.RescheduleHistory = []interview.RescheduleEntry{}
	}

	query := `
		UPDATE interviews SET
			candidate_id = $2, candidate_name = $3, candidate_email = $4, position = $5,
			interviewer_id = $6, type = $7,
			scheduled_date = $8, scheduled_time = $9, duration_minutes = $10, timezone = $11,
			location = $12, meeting_link = $13, status = $14, feedback = $15,
			reschedule_history = $16, notifications = $17, notes = $18,
			is_active = $19, updated_at = $20
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		i.ID, i.CandidateID, i.CandidateName, i.CandidateEmail, i.Position,
		i.InterviewerID, i.Type,
		i.Scheduling.Date, i.Scheduling.Time, i.Scheduling.DurationMinutes, i.Scheduling.Timezone,
		i.Location, i.MeetingLink, i.Status, i.Feedback,
		i.RescheduleHistory, i.Notifications, i.Notes,
		i.IsActive, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update interview: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return interview.ErrInterviewNotFound
	}
	return nil
}

// interviewOrder sorts chronologically; "HH:MM" strings order lexically.
const interviewOrder = `ORDER BY scheduled_date ASC, scheduled_time ASC`

func (r *interviewRepository) List(ctx context.Context, filter interview.InterviewFilter) ([]interview.Interview, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("is_active")
	if filter.InterviewerID != "" {
		w.add("interviewer_id = ?", filter.InterviewerID)
	}
	if filter.CandidateID != "" {
		w.add("candidate_id = ?", filter.CandidateID)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		w.add("scheduled_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		w.add("scheduled_date < ?", filter.To)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM interviews WHERE ` + w.clause
	if err := q.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count interviews: %w", err)
	}

	p := filter.Pagination.Normalize()
	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM interviews
		WHERE %s
		%s
		LIMIT %s OFFSET %s`,
		interviewColumns, w.clause, interviewOrder, w.next(p.Limit), w.next(p.Offset()))

	interviews, err := r.query(ctx, q, selectQuery, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return interviews, total, nil
}

func (r *interviewRepository) ListBlocking(ctx context.Context, filter interview.BlockingFilter) ([]interview.Interview, error) {
	q := GetQuerier(ctx, r.db)

	statuses := make([]string, len(interview.BlockingStatuses))
	for idx, s := range interview.BlockingStatuses {
		statuses[idx] = string(s)
	}

	w := newWhere("is_active")
	w.add("status = ANY(?)", statuses)
	w.add("scheduled_date >= ?", filter.From)
	w.add("scheduled_date < ?", filter.To)
	if filter.InterviewerID != "" {
		w.add("interviewer_id = ?", filter.InterviewerID)
	}

	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE ` + w.clause + ` ` + interviewOrder
	return r.query(ctx, q, query, w.args...)
}

func (r *interviewRepository) query(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]interview.Interview, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interviews: %w", err)
	}
	defer rows.Close()

	interviews := []interview.Interview{}
	for rows.Next() {
		i, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interviews: %w", err)
	}
	return interviews, nil
}
