package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/Alvi123787/Job-site-backend/internal/middleware"
	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// JobPublisher publishes job postings with their side effects
type JobPublisher interface {
	PublishJob(ctx context.Context, req *model.CreateJobRequest, postedBy string) (*model.Job, error)
}

// JobReader is the job service surface used by JobHandler
type JobReader interface {
	Get(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, filter model.JobFilter) (*model.JobPage, error)
	Update(ctx context.Context, id string, req *model.UpdateJobRequest) (*model.Job, error)
	Delete(ctx context.Context, id string) error
	Apply(ctx context.Context, jobID, userID string) (*model.ApplyResult, error)
	ApplyStatus(ctx context.Context, jobID, userID string) (*model.ApplyStatus, error)
	Categories(ctx context.Context) ([]model.CategoryCount, error)
	Stats(ctx context.Context) (*model.JobStats, error)
}

// JobHandler handles job posting endpoints
type JobHandler struct {
	publisher JobPublisher
	jobs      JobReader
}

// NewJobHandler creates a new job handler
func NewJobHandler(publisher JobPublisher, jobs JobReader) *JobHandler {
	return &JobHandler{
		publisher: publisher,
		jobs:      jobs,
	}
}

// Create handles POST /v1/jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateJobRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	job, err := h.publisher.PublishJob(r.Context(), &req, middleware.GetUserID(r.Context()))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "publish job"))
		return
	}

	WriteData(w, http.StatusCreated, job, jobLinks(job.ID))
}

// List handles GET /v1/jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.JobFilter{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", model.DefaultPageLimit),
	}
	if featured, ok := queryBool(r, "featured"); ok {
		filter.Featured = &featured
	}

	page, err := h.jobs.List(r.Context(), filter)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list jobs"))
		return
	}

	WriteCollection(w, http.StatusOK, page.Jobs, &PaginationInfo{
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Total:      page.TotalJobs,
		HasMore:    page.Page < page.TotalPages,
	}, nil)
}

// Categories handles GET /v1/jobs/categories
func (h *JobHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.jobs.Categories(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, categories, nil)
}

// Stats handles GET /v1/jobs/stats
func (h *JobHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.jobs.Stats(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, stats, nil)
}

// Get handles GET /v1/jobs/{id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("job ID required"))
		return
	}

	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, job, jobLinks(job.ID))
}

// Update handles PUT /v1/jobs/{id}
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("job ID required"))
		return
	}

	var req model.UpdateJobRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	job, err := h.jobs.Update(r.Context(), id, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "update job"))
		return
	}

	WriteData(w, http.StatusOK, job, jobLinks(job.ID))
}

// Delete handles DELETE /v1/jobs/{id}
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("job ID required"))
		return
	}

	if err := h.jobs.Delete(r.Context(), id); err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "delete job"))
		return
	}

	WriteNoContent(w)
}

// Apply handles POST /v1/jobs/{id}/apply
func (h *JobHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("job ID required"))
		return
	}

	result, err := h.jobs.Apply(r.Context(), id, userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "apply to job"))
		return
	}

	status := http.StatusOK
	if result.New {
		status = http.StatusCreated
	}
	WriteData(w, status, result, nil)
}

// ApplyStatus handles GET /v1/jobs/{id}/apply/status
func (h *JobHandler) ApplyStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	status, err := h.jobs.ApplyStatus(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, status, nil)
}

func jobLinks(id string) map[string]string {
	key := strings.TrimPrefix(id, "job:")
	return map[string]string{
		"self":  "/v1/jobs/" + key,
		"apply": "/v1/jobs/" + key + "/apply",
	}
}
