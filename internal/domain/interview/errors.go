package interview

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
)

var (
	ErrInterviewNotFound      = fmt.Errorf("interview not found: %w", shared.ErrNotFound)
	ErrInterviewerNotFound    = fmt.Errorf("interviewer not found: %w", shared.ErrNotFound)
	ErrInterviewerUnavailable = errors.New("interviewer already has an interview in this time slot")
	ErrNotAnInterviewer       = errors.New("employee is not eligible to conduct interviews")
	ErrInterviewClosed        = fmt.Errorf("interview is no longer open: %w", shared.ErrInvalidTransition)
	ErrInvalidStatusChange    = fmt.Errorf("interview status change not allowed: %w", shared.ErrInvalidTransition)
	ErrInvalidTimezone        = errors.New("unknown timezone")
)
