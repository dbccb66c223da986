package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

type leaveRequestRepository struct {
	coll *mongo.Collection
}

func NewLeaveRequestRepository(db *database.MongoDB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{coll: db.Collection(leaveCollection)}
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	if req.ID == "" {
		req.ID = uuid.Must(uuid.NewV7()).String()
	}
	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("insert leave request: %w", err)
	}
	return req, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("find leave request: %w", err)
	}
	return req, nil
}

func (r *leaveRequestRepository) Update(ctx context.Context, req leave.LeaveRequest) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": req.ID}, req)
	if err != nil {
		return fmt.Errorf("replace leave request: %w", err)
	}
	if res.MatchedCount == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	query := bson.M{}
	if filter.EmployeeID != "" {
		query["employee_id"] = filter.EmployeeID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.LeaveType != "" {
		query["leave_type"] = filter.LeaveType
	}
	dateRange(query, "start_date", filter.From, filter.To)

	return list[leave.LeaveRequest](ctx, r.coll, query,
		findPage(filter.Pagination, bson.D{{Key: "created_at", Value: -1}}))
}

func (r *leaveRequestRepository) SumDaysByType(ctx context.Context, employeeID string, from, to time.Time, statuses []leave.LeaveRequestStatus) (map[leave.LeaveType]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"employee_id": employeeID,
			"start_date":  bson.M{"$gte": from, "$lt": to},
			"status":      bson.M{"$in": statuses},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":  "$leave_type",
			"days": bson.M{"$sum": "$total_days"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate leave days: %w", err)
	}
	var rows []struct {
		LeaveType leave.LeaveType `bson:"_id"`
		Days      float64         `bson:"days"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode leave days: %w", err)
	}

	used := make(map[leave.LeaveType]float64, len(rows))
	for _, row := range rows {
		used[row.LeaveType] = row.Days
	}
	return used, nil
}
