// Package middleware provides HTTP middleware for the job board API.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Trace: opens a server span per request
//   - Logger, Recovery, CORS, Compress: request plumbing
//   - Auth: bearer token validation
//   - RequireAdmin: admin role gate, used after Auth
//   - RateLimit: per user or per IP token buckets
//
// Middlewares compose with Chain, outermost first:
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Recovery,
//	    middleware.Logger,
//	)
//
// # Context Values
//
//   - GetUserID(ctx): authenticated user ID
//   - GetClaims(ctx): full token claims
//   - GetRequestID(ctx): unique request identifier
package middleware
