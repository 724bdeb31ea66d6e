package handler

import (
	"errors"
	"log/slog"

	"github.com/Alvi123787/Job-site-backend/internal/model"
	"github.com/Alvi123787/Job-site-backend/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var validation *service.ValidationError

	switch {
	// ===== Validation Errors → 422 =====
	case errors.As(err, &validation):
		return model.NewValidationError(validation.Fields)

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrJobNotFound):
		return model.NewNotFoundError("job")
	case errors.Is(err, service.ErrJobExpired):
		return model.NewExpiredError("This job post has expired")
	case errors.Is(err, service.ErrBlogNotFound):
		return model.NewNotFoundError("blog")
	case errors.Is(err, service.ErrSubscriptionNotFound):
		return model.NewNotFoundError("subscriber")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrAlreadySubscribed):
		return model.NewConflictError(err.Error())

	// ===== Bad Request → 400 =====
	case errors.Is(err, service.ErrApplyInactive):
		return model.NewBadRequestError("Job has expired")
	case errors.Is(err, service.ErrNoRecipient),
		errors.Is(err, service.ErrCompanyNameMissing):
		return model.NewBadRequestError(err.Error())

	// ===== Default → 500 =====
	default:
		slog.Error("unhandled service error", slog.String("error", err.Error()))
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
