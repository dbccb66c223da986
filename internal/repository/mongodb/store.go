// Package mongodb implements every repository on a MongoDB database.
// Uniqueness rules are unique indexes created by EnsureIndexes.
package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

const (
	attendanceCollection = "attendances"
	leaveCollection      = "leave_requests"
	payrollCollection    = "payroll_records"
	interviewCollection  = "interviews"
	employeeCollection   = "employees"
)

const (
	attendanceDayIndex = "attendance_employee_date_unique"
	payrollPeriodIndex = "payroll_active_period_unique"
	employeeCodeIndex  = "employee_code_unique"
	employeeEmailIndex = "employee_email_unique"
)

// EnsureIndexes creates the indexes every repository relies on.
func EnsureIndexes(ctx context.Context, db *database.MongoDB) error {
	indexes := map[string][]mongo.IndexModel{
		attendanceCollection: {
			{
				Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(attendanceDayIndex),
			},
			{Keys: bson.D{{Key: "date", Value: -1}}},
		},
		leaveCollection: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "start_date", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		payrollCollection: {
			{
				Keys: bson.D{
					{Key: "employee_id", Value: 1},
					{Key: "pay_period.month", Value: 1},
					{Key: "pay_period.year", Value: 1},
				},
				Options: options.Index().
					SetUnique(true).
					SetName(payrollPeriodIndex).
					SetPartialFilterExpression(bson.M{"is_active": true}),
			},
		},
		interviewCollection: {
			{Keys: bson.D{{Key: "interviewer_id", Value: 1}, {Key: "scheduling.date", Value: 1}}},
			{Keys: bson.D{{Key: "candidate_id", Value: 1}}},
		},
		employeeCollection: {
			{
				Keys:    bson.D{{Key: "employee_code", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(employeeCodeIndex),
			},
			{
				Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetName(employeeEmailIndex).
					SetCollation(&options.Collation{Locale: "en", Strength: 2}),
			},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

// duplicateOn reports whether err is a duplicate key error on the named index.
func duplicateOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}

// findPage applies sort and pagination to a Find.
func findPage(p shared.Pagination, sort bson.D) *options.FindOptionsBuilder {
	p = p.Normalize()
	return options.Find().
		SetSort(sort).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Limit))
}

// list counts the matching documents and decodes one page of them.
func list[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptionsBuilder) ([]T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", coll.Name(), err)
	}

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return items, total, nil
}

// dateRange builds a half-open [from, to) condition, skipping zero bounds.
func dateRange(filter bson.M, field string, from, to time.Time) {
	cond := bson.M{}
	if !from.IsZero() {
		cond["$gte"] = from
	}
	if !to.IsZero() {
		cond["$lt"] = to
	}
	if len(cond) > 0 {
		filter[field] = cond
	}
}
