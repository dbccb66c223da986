// Package shared holds the error kinds and list helpers every domain builds on.
package shared

import (
	"errors"

	"github.com/cmlabs-hris/hris-engine/internal/pkg/calendar"
)

// Error kinds. Domain sentinels wrap one of these so callers can branch on
// either the precise error or its kind.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateRecord   = errors.New("duplicate record")
	ErrInvalidInterval   = calendar.ErrInvalidInterval
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
)
