// Package handler provides HTTP request handlers for the job board API.
//
// Each handler struct holds the narrow service interfaces it needs for one
// feature area (jobs, blogs, companies, subscriptions) and is constructed
// with NewXxxHandler. Routes are registered on a net/http ServeMux with
// method and path patterns; path parameters are read with r.PathValue.
//
// # Response Format
//
//   - WriteData: single resource with optional HATEOAS links
//   - WriteCollection: paginated list of resources
//   - WriteError: RFC 9457 Problem Details error response
//
// Service errors are translated in one place by MapServiceError.
package handler
