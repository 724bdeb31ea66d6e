// Package service implements the business logic layer for the job board API.
//
// Services sit between the HTTP handlers and the repositories. They own
// validation, the publication pipeline and its side effects, and the
// company aggregate.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with its dependencies
//   - Store interfaces are declared here, next to the service that uses them
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Publication
//
// PublicationService stores a job or blog post and then, without failing
// the request, updates the company aggregate, publishes a domain event and
// hands subscriber notification to a background TaskRunner:
//
//	job, err := publications.PublishJob(ctx, req, userID)
//	// job is stored; notifications may still be in flight
//
// # Error Handling
//
// Sentinel errors live in errors.go and are mapped to HTTP problems by the
// handler package:
//
//	if errors.Is(err, service.ErrJobExpired) {
//	    // 404 with an "expired" problem type
//	}
//
// Field validation failures are returned as *ValidationError.
package service
