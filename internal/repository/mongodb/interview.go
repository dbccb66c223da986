package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cmlabs-hris/hris-engine/internal/domain/interview"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

type interviewRepository struct {
	coll *mongo.Collection
}

func NewInterviewRepository(db *database.MongoDB) interview.InterviewRepository {
	return &interviewRepository{coll: db.Collection(interviewCollection)}
}

var scheduleOrder = bson.D{{Key: "scheduling.date", Value: 1}, {Key: "scheduling.time", Value: 1}}

func (r *interviewRepository) Create(ctx context.Context, i interview.Interview) (interview.Interview, error) {
	if i.ID == "" {
		i.ID = uuid.Must(uuid.NewV7()).String()
	}
	if i.RescheduleHistory == nil {
		i.RescheduleHistory = []interview.RescheduleEntry{}
	}
	if _, err := r.coll.InsertOne(ctx, i); err != nil {
		return interview.Interview{}, fmt.Errorf("insert interview: %w", err)
	}
	return i, nil
}

func (r *interviewRepository) GetByID(ctx context.Context, id string) (interview.Interview, error) {
	var i interview.Interview
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&i)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return interview.Interview{}, interview.ErrInterviewNotFound
	}
	if err != nil {
		return interview.Interview{}, fmt.Errorf("find interview: %w", err)
	}
	return i, nil
}

func (r *interviewRepository) Update(ctx context.Context, i interview.Interview) error {
	if i.RescheduleHistory == nil {
		i.RescheduleHistory = []interview.RescheduleEntry{}
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": i.ID}, i)
	if err != nil {
		return fmt.Errorf("replace interview: %w", err)
	}
	if res.MatchedCount == 0 {
		return interview.ErrInterviewNotFound
	}
	return nil
}

func (r *interviewRepository) List(ctx context.Context, filter interview.InterviewFilter) ([]interview.Interview, int64, error) {
	query := bson.M{"is_active": true}
	if filter.InterviewerID != "" {
		query["interviewer_id"] = filter.InterviewerID
	}
	if filter.CandidateID != "" {
		query["candidate_id"] = filter.CandidateID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	dateRange(query, "scheduling.date", filter.From, filter.To)

	return list[interview.Interview](ctx, r.coll, query, findPage(filter.Pagination, scheduleOrder))
}

func (r *interviewRepository) ListBlocking(ctx context.Context, filter interview.BlockingFilter) ([]interview.Interview, error) {
	query := bson.M{
		"is_active":       true,
		"status":          bson.M{"$in": interview.BlockingStatuses},
		"scheduling.date": bson.M{"$gte": filter.From, "$lt": filter.To},
	}
	if filter.InterviewerID != "" {
		query["interviewer_id"] = filter.InterviewerID
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(scheduleOrder))
	if err != nil {
		return nil, fmt.Errorf("find blocking interviews: %w", err)
	}
	interviews := []interview.Interview{}
	if err := cursor.All(ctx, &interviews); err != nil {
		return nil, fmt.Errorf("decode interviews: %w", err)
	}
	return interviews, nil
}
