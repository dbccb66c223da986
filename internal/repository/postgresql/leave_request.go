package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	id, employee_id, leave_type, start_date, end_date, total_days,
	is_half_day, half_day_period, reason, status,
	approved_by, approved_at, approval_comments,
	cancelled_by, cancelled_at, created_at, updated_at`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.LeaveType, &req.StartDate, &req.EndDate, &req.TotalDays,
		&req.IsHalfDay, &req.HalfDayPeriod, &req.Reason, &req.Status,
		&req.ApprovedBy, &req.ApprovedAt, &req.ApprovalComments,
		&req.CancelledBy, &req.CancelledAt, &req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		req.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO leave_requests (` + leaveRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		req.ID, req.EmployeeID, req.LeaveType, req.StartDate, req.EndDate, req.TotalDays,
		req.IsHalfDay, req.HalfDayPeriod, req.Reason, req.Status,
		req.ApprovedBy, req.ApprovedAt, req.ApprovalComments,
		req.CancelledBy, req.CancelledAt, req.CreatedAt, req.UpdatedAt,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`
	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by id: %w", err)
	}
	return req, nil
}

func (r *leaveRequestRepository) Update(ctx context.Context, req leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			leave_type = $2, start_date = $3, end_date = $4, total_days = $5,
			is_half_day = $6, half_day_period = $7, reason = $8, status = $9,
			approved_by = $10, approved_at = $11, approval_comments = $12,
			cancelled_by = $13, cancelled_at = $14, updated_at = $15
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		req.ID, req.LeaveType, req.StartDate, req.EndDate, req.TotalDays,
		req.IsHalfDay, req.HalfDayPeriod, req.Reason, req.Status,
		req.ApprovedBy, req.ApprovedAt, req.ApprovalComments,
		req.CancelledBy, req.CancelledAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("TRUE")
	if filter.EmployeeID != "" {
		w.add("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.LeaveType != "" {
		w.add("leave_type = ?", filter.LeaveType)
	}
	if !filter.From.IsZero() {
		w.add("start_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		w.add("start_date < ?", filter.To)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM leave_requests WHERE ` + w.clause
	if err := q.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	p := filter.Pagination.Normalize()
	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests
		WHERE %s
		ORDER BY created_at DESC
		LIMIT %s OFFSET %s`,
		leaveRequestColumns, w.clause, w.next(p.Limit), w.next(p.Offset()))

	rows, err := q.Query(ctx, selectQuery, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, total, nil
}

func (r *leaveRequestRepository) SumDaysByType(ctx context.Context, employeeID string, from, to time.Time, statuses []leave.LeaveRequestStatus) (map[leave.LeaveType]float64, error) {
	q := GetQuerier(ctx, r.db)

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	query := `
		SELECT leave_type, COALESCE(SUM(total_days), 0)
		FROM leave_requests
		WHERE employee_id = $1
			AND start_date >= $2 AND start_date < $3
			AND status = ANY($4)
		GROUP BY leave_type`

	rows, err := q.Query(ctx, query, employeeID, from, to, names)
	if err != nil {
		return nil, fmt.Errorf("failed to sum leave days: %w", err)
	}
	defer rows.Close()

	used := make(map[leave.LeaveType]float64)
	for rows.Next() {
		var (
			leaveType leave.LeaveType
			days      float64
		)
		if err := rows.Scan(&leaveType, &days); err != nil {
			return nil, fmt.Errorf("failed to scan leave days: %w", err)
		}
		used[leaveType] = days
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave days: %w", err)
	}
	return used, nil
}
