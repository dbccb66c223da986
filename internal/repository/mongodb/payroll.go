package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/cmlabs-hris/hris-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

type payrollRepository struct {
	coll *mongo.Collection
}

func NewPayrollRepository(db *database.MongoDB) payroll.PayrollRepository {
	return &payrollRepository{coll: db.Collection(payrollCollection)}
}

func (r *payrollRepository) Create(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		if duplicateOn(err, payrollPeriodIndex) {
			return payroll.PayrollRecord{}, payroll.ErrDuplicatePayrollPeriod
		}
		return payroll.PayrollRecord{}, fmt.Errorf("insert payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("find payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) GetActiveByPeriod(ctx context.Context, employeeID string, month, year int) (*payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := r.coll.FindOne(ctx, bson.M{
		"employee_id":      employeeID,
		"pay_period.month": month,
		"pay_period.year":  year,
		"is_active":        true,
	}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find payroll record: %w", err)
	}
	return &rec, nil
}

func (r *payrollRepository) Update(ctx context.Context, rec payroll.PayrollRecord) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec)
	if err != nil {
		if duplicateOn(err, payrollPeriodIndex) {
			return payroll.ErrDuplicatePayrollPeriod
		}
		return fmt.Errorf("replace payroll record: %w", err)
	}
	if res.MatchedCount == 0 {
		return payroll.ErrPayrollRecordNotFound
	}
	return nil
}

func payrollFilter(employeeID string, month, year int, status payroll.PayrollStatus) bson.M {
	filter := bson.M{"is_active": true}
	if employeeID != "" {
		filter["employee_id"] = employeeID
	}
	if month != 0 {
		filter["pay_period.month"] = month
	}
	if year != 0 {
		filter["pay_period.year"] = year
	}
	if status != "" {
		filter["status"] = status
	}
	return filter
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	return list[payroll.PayrollRecord](ctx, r.coll,
		payrollFilter(filter.EmployeeID, filter.Month, filter.Year, filter.Status),
		findPage(filter.Pagination, bson.D{
			{Key: "pay_period.year", Value: -1},
			{Key: "pay_period.month", Value: -1},
			{Key: "created_at", Value: -1},
		}),
	)
}

func (r *payrollRepository) Summarize(ctx context.Context, filter payroll.SummaryFilter) (payroll.PayrollSummary, error) {
	countStatus := func(status payroll.PayrollStatus) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: payrollFilter(filter.EmployeeID, filter.Month, filter.Year, filter.Status)}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"employees":  bson.M{"$addToSet": "$employee_id"},
			"gross":      bson.M{"$sum": "$salary.gross_salary"},
			"net":        bson.M{"$sum": "$salary.net_salary"},
			"deductions": bson.M{"$sum": "$salary.deductions.total"},
			"paid":       countStatus(payroll.PayrollStatusPaid),
			"pending":    countStatus(payroll.PayrollStatusPending),
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("aggregate payroll: %w", err)
	}
	var rows []struct {
		Employees  []string        `bson:"employees"`
		Gross      decimal.Decimal `bson:"gross"`
		Net        decimal.Decimal `bson:"net"`
		Deductions decimal.Decimal `bson:"deductions"`
		Paid       int64           `bson:"paid"`
		Pending    int64           `bson:"pending"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("decode payroll summary: %w", err)
	}

	sum := payroll.PayrollSummary{
		TotalGrossSalary: decimal.Zero,
		TotalNetSalary:   decimal.Zero,
		TotalDeductions:  decimal.Zero,
	}
	if len(rows) == 0 {
		return sum, nil
	}
	row := rows[0]
	sum.TotalEmployees = int64(len(row.Employees))
	sum.TotalGrossSalary = row.Gross
	sum.TotalNetSalary = row.Net
	sum.TotalDeductions = row.Deductions
	sum.PaidCount = row.Paid
	sum.PendingCount = row.Pending
	return sum, nil
}
