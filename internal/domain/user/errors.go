package user

import (
	"fmt"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
)

var (
	ErrInsufficientPermissions = fmt.Errorf("insufficient permissions: %w", shared.ErrForbidden)
	ErrEmployeeIDRequired      = fmt.Errorf("caller has no employee profile: %w", shared.ErrForbidden)
)
