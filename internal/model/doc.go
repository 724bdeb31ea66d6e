// Package model defines domain records and request types for the job site API.
//
// # Domain Records
//
//   - Job: authoritative job posting with lazy expiry and an application counter
//   - Blog: authoritative blog post
//   - Company: materialized open-position aggregate keyed by company name
//   - Subscription: channel memberships keyed by normalized email
//   - Application: one (job, user) pair
//
// # Validation
//
// Request types expose Validate methods returning []FieldError, which the
// handler layer turns into RFC 9457 problem details:
//
//	if errs := req.Validate(time.Now()); len(errs) > 0 {
//	    WriteError(w, model.NewValidationError(errs))
//	    return
//	}
//
// # JSON Serialization
//
// Records use snake_case json tags. The same tags are used for the stored
// documents, so repositories decode query results straight into these types.
package model
