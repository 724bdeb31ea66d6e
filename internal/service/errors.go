package service

import (
	"errors"
	"fmt"

	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Content Errors =====
var (
	ErrJobNotFound   = errors.New("job not found")
	ErrJobExpired    = errors.New("job has expired")
	ErrBlogNotFound  = errors.New("blog not found")
	ErrApplyInactive = errors.New("job is not accepting applications")
)

// ===== Company Errors =====
var (
	ErrCompanyNameMissing = errors.New("job has no company name")
)

// ===== Subscription Errors =====
var (
	ErrAlreadySubscribed    = errors.New("email already subscribed to this channel")
	ErrSubscriptionNotFound = errors.New("subscriber not found")
)

// ===== Notification Errors =====
var (
	ErrNoRecipient = errors.New("recipient address is empty")
)

// ValidationError carries field level failures found before any write
type ValidationError struct {
	Fields []model.FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
}

// newValidationError returns nil when fields is empty
func newValidationError(fields []model.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
