package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alvi123787/Job-site-backend/internal/database"
	"github.com/Alvi123787/Job-site-backend/internal/model"
	"github.com/Alvi123787/Job-site-backend/internal/seo"
)

// JobStore is the job posting store used outside of publication
type JobStore interface {
	GetByID(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, filter model.JobFilter) (*model.JobPage, error)
	Update(ctx context.Context, job *model.Job) (*model.Job, error)
	Delete(ctx context.Context, id string) error
	MarkExpired(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]model.CategoryCount, error)
	Stats(ctx context.Context) (*model.JobStats, error)
}

// ApplicationStore records job applications
type ApplicationStore interface {
	Apply(ctx context.Context, jobID, userID string) error
	Exists(ctx context.Context, jobID, userID string) (bool, error)
}

// JobService handles reads and edits of published job postings
type JobService struct {
	jobs         JobStore
	applications ApplicationStore
	site         seo.Site
	now          func() time.Time
}

// JobServiceConfig holds configuration for the job service
type JobServiceConfig struct {
	Jobs         JobStore
	Applications ApplicationStore
	Site         seo.Site
	Now          func() time.Time
}

// NewJobService creates a new job service
func NewJobService(cfg JobServiceConfig) *JobService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &JobService{
		jobs:         cfg.Jobs,
		applications: cfg.Applications,
		site:         cfg.Site,
		now:          now,
	}
}

// Get returns a visible job posting. A posting past its end date is
// reported as expired and flipped to Expired on the way out.
func (s *JobService) Get(ctx context.Context, id string) (*model.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	if job.IsPastEndDate(s.now()) {
		if job.Status == model.JobStatusActive {
			if err := s.jobs.MarkExpired(ctx, job.ID); err != nil {
				slog.WarnContext(ctx, "failed to mark job expired",
					slog.String("job_id", job.ID),
					slog.String("error", err.Error()),
				)
			}
		}
		return nil, ErrJobExpired
	}

	return job, nil
}

// List returns one page of active postings
func (s *JobService) List(ctx context.Context, filter model.JobFilter) (*model.JobPage, error) {
	return s.jobs.List(ctx, filter)
}

// Update applies a partial edit and regenerates the posting metadata
func (s *JobService) Update(ctx context.Context, id string, req *model.UpdateJobRequest) (*model.Job, error) {
	if err := newValidationError(req.Validate(s.now())); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	req.ApplyTo(job)
	if err := newValidationError(salaryFields(job)); err != nil {
		return nil, err
	}

	if ld, err := seo.BuildJobPosting(job, s.site); err != nil {
		slog.WarnContext(ctx, "job posting metadata not regenerated",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
	} else {
		job.SchemaJSONLD = ld
	}

	updated, err := s.jobs.Update(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	if updated == nil {
		return nil, ErrJobNotFound
	}
	return updated, nil
}

// salaryFields checks the merged salary range of an edited posting
func salaryFields(job *model.Job) []model.FieldError {
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		return []model.FieldError{{Field: "salary_max", Message: "salary_max must be at least salary_min"}}
	}
	return nil
}

// Delete removes a posting and its applications. The company aggregate is
// left as is until the next reconciliation.
func (s *JobService) Delete(ctx context.Context, id string) error {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return ErrJobNotFound
	}
	return s.jobs.Delete(ctx, job.ID)
}

// Apply records userID's application to a job. Applying again is not an
// error: the result reports applied without new and the count is unchanged.
func (s *JobService) Apply(ctx context.Context, jobID, userID string) (*model.ApplyResult, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if job.IsExpired(s.now()) || job.Status != model.JobStatusActive {
		return nil, ErrApplyInactive
	}

	err = s.applications.Apply(ctx, job.ID, userID)
	switch {
	case err == nil:
		return s.applyResult(ctx, job, true)
	case errors.Is(err, database.ErrDuplicate):
		return s.applyResult(ctx, job, false)
	default:
		return nil, fmt.Errorf("apply: %w", err)
	}
}

// applyResult re-reads the counter so callers see the stored value
func (s *JobService) applyResult(ctx context.Context, job *model.Job, isNew bool) (*model.ApplyResult, error) {
	count := job.ApplicationsCount
	if isNew {
		count++
	}
	if fresh, err := s.jobs.GetByID(ctx, job.ID); err == nil && fresh != nil {
		count = fresh.ApplicationsCount
	}
	return &model.ApplyResult{Applied: true, New: isNew, ApplicationsCount: count}, nil
}

// ApplyStatus reports whether userID has applied and the current count
func (s *JobService) ApplyStatus(ctx context.Context, jobID, userID string) (*model.ApplyStatus, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	applied, err := s.applications.Exists(ctx, job.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("application status: %w", err)
	}
	return &model.ApplyStatus{Applied: applied, ApplicationsCount: job.ApplicationsCount}, nil
}

// Categories counts active postings per category
func (s *JobService) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	return s.jobs.Categories(ctx)
}

// Stats returns the admin dashboard counters
func (s *JobService) Stats(ctx context.Context) (*model.JobStats, error) {
	return s.jobs.Stats(ctx)
}
