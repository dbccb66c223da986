package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

type employeeRepository struct {
	coll *mongo.Collection
}

func NewEmployeeRepository(db *database.MongoDB) employee.EmployeeRepository {
	return &employeeRepository{coll: db.Collection(employeeCollection)}
}

func employeeWriteError(err error) error {
	switch {
	case duplicateOn(err, employeeCodeIndex):
		return employee.ErrEmployeeCodeExists
	case duplicateOn(err, employeeEmailIndex):
		return employee.ErrEmailExists
	}
	return nil
}

func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if e.ID == "" {
		e.ID = uuid.Must(uuid.NewV7()).String()
	}
	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		if derr := employeeWriteError(err); derr != nil {
			return employee.Employee{}, derr
		}
		return employee.Employee{}, fmt.Errorf("insert employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var e employee.Employee
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if err != nil {
		return employee.Employee{}, fmt.Errorf("find employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		if derr := employeeWriteError(err); derr != nil {
			return derr
		}
		return fmt.Errorf("replace employee: %w", err)
	}
	if res.MatchedCount == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	query := bson.M{}
	if len(filter.IDs) > 0 {
		query["_id"] = bson.M{"$in": filter.IDs}
	}
	if filter.Department != "" {
		query["department"] = filter.Department
	}
	if filter.CanInterview != nil {
		query["can_interview"] = *filter.CanInterview
	}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	if filter.Search != "" {
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"full_name": pattern},
			bson.M{"employee_code": pattern},
		}
	}

	return list[employee.Employee](ctx, r.coll, query,
		findPage(filter.Pagination, bson.D{{Key: "employee_code", Value: 1}}))
}
