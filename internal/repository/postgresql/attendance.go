package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, date,
	check_in_time, check_in_location, check_in_method,
	check_out_time, check_out_location, check_out_method,
	breaks, working_hours, overtime_hours, status,
	late_arrival, early_departure, is_manual_entry, remarks,
	created_at, updated_at`

// punchColumns flattens a punch into its three nullable columns.
func punchColumns(p *attendance.Punch) (*time.Time, *string, *string) {
	if p == nil {
		return nil, nil, nil
	}
	t := p.Time
	loc := p.Location
	method := string(p.Method)
	return &t, &loc, &method
}

func punchFrom(t *time.Time, loc, method *string) *attendance.Punch {
	if t == nil {
		return nil
	}
	p := &attendance.Punch{Time: *t}
	if loc != nil {
		p.Location = *loc
	}
	if method != nil {
		p.Method = attendance.Method(*method)
	}
	return p
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att               attendance.Attendance
		inTime, outTime   *time.Time
		inLoc, inMethod   *string
		outLoc, outMethod *string
	)
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date,
		&inTime, &inLoc, &inMethod,
		&outTime, &outLoc, &outMethod,
		&att.Breaks, &att.WorkingHours, &att.OvertimeHours, &att.Status,
		&att.LateArrival, &att.EarlyDeparture, &att.IsManualEntry, &att.Remarks,
		&att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	att.CheckIn = punchFrom(inTime, inLoc, inMethod)
	att.CheckOut = punchFrom(outTime, outLoc, outMethod)
	if att.Breaks == nil {
		att.Breaks = []attendance.Break{}
	}
	return att, nil
}

func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if att.ID == "" {
		att.ID = uuid.Must(uuid.NewV7()).String()
	}

	if att.Breaks == nil {
		att.Breaks = []attendance.Break{}
	}
	inTime, inLoc, inMethod := punchColumns(att.CheckIn)
	outTime, outLoc, outMethod := punchColumns(att.CheckOut)

	query := `
		INSERT INTO attendances (` + attendanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		att.ID, att.EmployeeID, att.Date,
		inTime, inLoc, inMethod,
		outTime, outLoc, outMethod,
		att.Breaks, att.WorkingHours, att.OvertimeHours, att.Status,
		att.LateArrival, att.EarlyDeparture, att.IsManualEntry, att.Remarks,
		att.CreatedAt, att.UpdatedAt,
	))
	if err != nil {
		if violates(err, "attendances_employee_date_key") {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`
	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}
	return att, nil
}

func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, from, to time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date >= $2 AND date < $3
		LIMIT 1`
	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &att, nil
}

func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	if att.Breaks == nil {
		att.Breaks = []attendance.Break{}
	}
	inTime, inLoc, inMethod := punchColumns(att.CheckIn)
	outTime, outLoc, outMethod := punchColumns(att.CheckOut)

	query := `
		UPDATE attendances SET
			check_in_time = $2, check_in_location = $3, check_in_method = $4,
			check_out_time = $5, check_out_location = $6, check_out_method = $7,
			breaks = $8, working_hours = $9, overtime_hours = $10, status = $11,
			late_arrival = $12, early_departure = $13, is_manual_entry = $14,
			remarks = $15, updated_at = $16
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		att.ID,
		inTime, inLoc, inMethod,
		outTime, outLoc, outMethod,
		att.Breaks, att.WorkingHours, att.OvertimeHours, att.Status,
		att.LateArrival, att.EarlyDeparture, att.IsManualEntry,
		att.Remarks, att.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func attendanceWhere(employeeID string, from, to time.Time, status attendance.Status) *whereBuilder {
	w := newWhere("TRUE")
	if employeeID != "" {
		w.add("employee_id = ?", employeeID)
	}
	if !from.IsZero() {
		w.add("date >= ?", from)
	}
	if !to.IsZero() {
		w.add("date < ?", to)
	}
	if status != "" {
		w.add("status = ?", status)
	}
	return w
}

func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	w := attendanceWhere(filter.EmployeeID, filter.From, filter.To, filter.Status)

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendances WHERE ` + w.clause
	if err := q.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	p := filter.Pagination.Normalize()
	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE %s
		ORDER BY date DESC, created_at DESC
		LIMIT %s OFFSET %s`,
		attendanceColumns, w.clause, w.next(p.Limit), w.next(p.Offset()))

	rows, err := q.Query(ctx, selectQuery, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	attendances := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, total, nil
}

func (a *attendanceRepository) Summarize(ctx context.Context, filter attendance.SummaryFilter) (attendance.SummaryCounts, error) {
	q := GetQuerier(ctx, a.db)

	w := attendanceWhere(filter.EmployeeID, filter.From, filter.To, "")
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status <> 'absent'),
			COUNT(*) FILTER (WHERE status = 'absent'),
			COUNT(*) FILTER (WHERE late_arrival OR status = 'late'),
			COALESCE(SUM(working_hours), 0),
			COALESCE(SUM(overtime_hours), 0)
		FROM attendances
		WHERE ` + w.clause

	var c attendance.SummaryCounts
	err := q.QueryRow(ctx, query, w.args...).Scan(
		&c.TotalDays, &c.PresentDays, &c.AbsentDays, &c.LateDays,
		&c.TotalWorkingHours, &c.TotalOvertime,
	)
	if err != nil {
		return attendance.SummaryCounts{}, fmt.Errorf("failed to summarize attendances: %w", err)
	}
	return c, nil
}
