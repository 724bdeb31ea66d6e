package model

import "time"

// Application records that a user applied to a job. The (job, user) pair is
// unique; a second attempt is reported as an existing application.
type Application struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	UserID    string    `json:"user_id"`
	CreatedOn time.Time `json:"created_on"`
}

// ApplyResult is the outcome of an apply call. New is false when the user
// had already applied; the call still succeeds.
type ApplyResult struct {
	Applied           bool `json:"applied"`
	New               bool `json:"new"`
	ApplicationsCount int  `json:"applications_count"`
}

// ApplyStatus reports whether a user has applied to a job
type ApplyStatus struct {
	Applied           bool `json:"applied"`
	ApplicationsCount int  `json:"applications_count"`
}
