package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

type attendanceRepository struct {
	coll *mongo.Collection
}

func NewAttendanceRepository(db *database.MongoDB) attendance.AttendanceRepository {
	return &attendanceRepository{coll: db.Collection(attendanceCollection)}
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV7()).String()
	}
	if a.Breaks == nil {
		a.Breaks = []attendance.Break{}
	}
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		if duplicateOn(err, attendanceDayIndex) {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("insert attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("find attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, from, to time.Time) (*attendance.Attendance, error) {
	var a attendance.Attendance
	err := r.coll.FindOne(ctx, bson.M{
		"employee_id": employeeID,
		"date":        bson.M{"$gte": from, "$lt": to},
	}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &a, nil
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	if a.Breaks == nil {
		a.Breaks = []attendance.Break{}
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		if duplicateOn(err, attendanceDayIndex) {
			return attendance.ErrAttendanceExists
		}
		return fmt.Errorf("replace attendance: %w", err)
	}
	if res.MatchedCount == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func attendanceFilter(employeeID string, from, to time.Time, status attendance.Status) bson.M {
	filter := bson.M{}
	if employeeID != "" {
		filter["employee_id"] = employeeID
	}
	dateRange(filter, "date", from, to)
	if status != "" {
		filter["status"] = status
	}
	return filter
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	return list[attendance.Attendance](ctx, r.coll,
		attendanceFilter(filter.EmployeeID, filter.From, filter.To, filter.Status),
		findPage(filter.Pagination, bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}),
	)
}

func (r *attendanceRepository) Summarize(ctx context.Context, filter attendance.SummaryFilter) (attendance.SummaryCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: attendanceFilter(filter.EmployeeID, filter.From, filter.To, "")}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": 1},
			"present": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$ne": bson.A{"$status", attendance.StatusAbsent}}, 1, 0},
			}},
			"absent": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", attendance.StatusAbsent}}, 1, 0},
			}},
			"late": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$or": bson.A{
					"$late_arrival",
					bson.M{"$eq": bson.A{"$status", attendance.StatusLate}},
				}}, 1, 0},
			}},
			"hours":    bson.M{"$sum": "$working_hours"},
			"overtime": bson.M{"$sum": "$overtime_hours"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return attendance.SummaryCounts{}, fmt.Errorf("aggregate attendance: %w", err)
	}
	var rows []struct {
		Total    int64   `bson:"total"`
		Present  int64   `bson:"present"`
		Absent   int64   `bson:"absent"`
		Late     int64   `bson:"late"`
		Hours    float64 `bson:"hours"`
		Overtime float64 `bson:"overtime"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return attendance.SummaryCounts{}, fmt.Errorf("decode attendance summary: %w", err)
	}
	if len(rows) == 0 {
		return attendance.SummaryCounts{}, nil
	}
	row := rows[0]
	return attendance.SummaryCounts{
		TotalDays:         row.Total,
		PresentDays:       row.Present,
		AbsentDays:        row.Absent,
		LateDays:          row.Late,
		TotalWorkingHours: row.Hours,
		TotalOvertime:     row.Overtime,
	}, nil
}
