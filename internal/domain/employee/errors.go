package employee

import (
	"fmt"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
)

var (
	ErrEmployeeNotFound   = fmt.Errorf("employee not found: %w", shared.ErrNotFound)
	ErrEmployeeCodeExists = fmt.Errorf("employee code already exists: %w", shared.ErrDuplicateRecord)
	ErrEmailExists        = fmt.Errorf("email already registered: %w", shared.ErrDuplicateRecord)
	ErrEmployeeInactive   = fmt.Errorf("employee is inactive: %w", shared.ErrInvalidTransition)
)
