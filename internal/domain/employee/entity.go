package employee

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
)

type Employee struct {
	ID           string          `json:"id" bson:"_id"`
	UserID       *string         `json:"user_id,omitempty" bson:"user_id,omitempty"`
	EmployeeCode string          `json:"employee_code" bson:"employee_code"`
	FullName     string          `json:"full_name" bson:"full_name"`
	Email        string          `json:"email" bson:"email"`
	Department   string          `json:"department" bson:"department"`
	Position     string          `json:"position" bson:"position"`
	Role         user.Role       `json:"role" bson:"role"`
	BaseSalary   decimal.Decimal `json:"base_salary" bson:"base_salary"`
	CanInterview bool            `json:"can_interview" bson:"can_interview"`
	IsActive     bool            `json:"is_active" bson:"is_active"`
	HireDate     time.Time       `json:"hire_date" bson:"hire_date"`
	CreatedAt    time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" bson:"updated_at"`
}
