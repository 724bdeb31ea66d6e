// Package helpers provides test utility functions for the job board API.
//
// # JWT Helpers
//
// Issue bearer tokens accepted by the helper's own JWT service:
//
//	h := helpers.NewJWTHelper(t)
//	token := h.GenerateToken("user:1", jwt.RoleAdmin)
//
// # Request Helpers
//
//	rr := helpers.NewRequest(t, http.MethodPost, "/v1/jobs").
//	    WithAuth(h, "user:1", jwt.RoleAdmin).
//	    WithBody(payload).
//	    Do(router)
//
// # Assertion Helpers
//
//	helpers.AssertProblemDetails(t, rr, http.StatusForbidden, model.ErrCodeForbidden)
//	helpers.AssertRecordExists(t, db, "job", id)
package helpers
