package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Alvi123787/Job-site-backend/internal/broker"
	"github.com/Alvi123787/Job-site-backend/internal/model"
	"github.com/Alvi123787/Job-site-backend/internal/seo"
	"github.com/Alvi123787/Job-site-backend/internal/telemetry"
)

// JobWriter persists new job postings
type JobWriter interface {
	Create(ctx context.Context, job *model.Job) error
}

// BlogWriter persists new blog posts
type BlogWriter interface {
	Create(ctx context.Context, blog *model.Blog) error
}

// CompanyUpdater applies one job to the company aggregate
type CompanyUpdater interface {
	IncrementalUpdate(ctx context.Context, job *model.Job) error
}

// AlertNotifier renders and fans out subscriber alerts
type AlertNotifier interface {
	RenderJob(job *model.Job) (Rendering, error)
	RenderBlog(blog *model.Blog) (Rendering, error)
	Notify(ctx context.Context, channel model.Channel, r Rendering) (DispatchReport, error)
}

// TaskRunner runs detached tasks that outlive the request
type TaskRunner interface {
	Go(ctx context.Context, name string, fn func(ctx context.Context))
}

// PublicationService persists new content and triggers its side effects.
// Once the record is stored the call succeeds; aggregate maintenance, the
// domain event and subscriber notification can each fail without undoing it.
type PublicationService struct {
	jobs      JobWriter
	blogs     BlogWriter
	companies CompanyUpdater
	notifier  AlertNotifier
	publisher broker.Publisher
	runner    TaskRunner
	site      seo.Site
	now       func() time.Time
}

// PublicationServiceConfig holds configuration for the publication service
type PublicationServiceConfig struct {
	Jobs      JobWriter
	Blogs     BlogWriter
	Companies CompanyUpdater
	Notifier  AlertNotifier
	Publisher broker.Publisher
	Runner    TaskRunner
	Site      seo.Site
	Now       func() time.Time
}

// NewPublicationService creates a new publication service
func NewPublicationService(cfg PublicationServiceConfig) *PublicationService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = broker.NopPublisher{}
	}
	return &PublicationService{
		jobs:      cfg.Jobs,
		blogs:     cfg.Blogs,
		companies: cfg.Companies,
		notifier:  cfg.Notifier,
		publisher: publisher,
		runner:    cfg.Runner,
		site:      cfg.Site,
		now:       now,
	}
}

// PublishJob validates and stores a job posting, then updates its company,
// announces it and notifies job subscribers in the background.
func (s *PublicationService) PublishJob(ctx context.Context, req *model.CreateJobRequest, postedBy string) (*model.Job, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "publication.publish_job")
	defer span.End()

	now := s.now()
	if err := newValidationError(req.Validate(now)); err != nil {
		return nil, err
	}

	job := req.ToJob(now)
	job.PostedBy = postedBy

	if ld, err := seo.BuildJobPosting(job, s.site); err != nil {
		slog.WarnContext(ctx, "job posting metadata skipped",
			slog.String("title", job.Title),
			slog.String("error", err.Error()),
		)
	} else {
		job.SchemaJSONLD = ld
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, fmt.Errorf("create job: %w", err)
	}
	span.SetAttributes(
		attribute.String("job_id", job.ID),
		attribute.String("company", job.Company),
	)

	if err := s.companies.IncrementalUpdate(ctx, job); err != nil {
		slog.WarnContext(ctx, "company aggregate not updated",
			slog.String("job_id", job.ID),
			slog.String("company", job.Company),
			slog.String("error", err.Error()),
		)
	}

	s.announce(ctx, "announce.job", broker.ContentPublished{
		Kind:    string(model.ChannelJob),
		ID:      job.ID,
		Title:   job.Title,
		Company: job.Company,
	})

	s.notify(ctx, "notify.job", model.ChannelJob, func() (Rendering, error) {
		return s.notifier.RenderJob(job)
	})

	return job, nil
}

// PublishBlog validates and stores a blog post, then announces it and
// notifies blog subscribers in the background.
func (s *PublicationService) PublishBlog(ctx context.Context, req *model.CreateBlogRequest) (*model.Blog, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "publication.publish_blog")
	defer span.End()

	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	blog := req.ToBlog(s.now())
	if err := s.blogs.Create(ctx, blog); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, fmt.Errorf("create blog: %w", err)
	}
	span.SetAttributes(attribute.String("blog_id", blog.ID))

	s.announce(ctx, "announce.blog", broker.ContentPublished{
		Kind:  string(model.ChannelBlog),
		ID:    blog.ID,
		Title: blog.Title,
	})

	s.notify(ctx, "notify.blog", model.ChannelBlog, func() (Rendering, error) {
		return s.notifier.RenderBlog(blog)
	})

	return blog, nil
}

// announce publishes a content.published event from a detached task
func (s *PublicationService) announce(ctx context.Context, name string, payload broker.ContentPublished) {
	if s.runner == nil {
		return
	}

	s.runner.Go(ctx, name, func(ctx context.Context) {
		if err := s.publisher.Publish(ctx, broker.NewEvent(broker.EventContentPublished, payload)); err != nil {
			slog.WarnContext(ctx, "content event not published",
				slog.String("kind", payload.Kind),
				slog.String("id", payload.ID),
				slog.String("error", err.Error()),
			)
		}
	})
}

// notify hands the render and fan-out to the task runner and returns at once
func (s *PublicationService) notify(ctx context.Context, name string, channel model.Channel, render func() (Rendering, error)) {
	if s.notifier == nil || s.runner == nil {
		return
	}

	s.runner.Go(ctx, name, func(ctx context.Context) {
		r, err := render()
		if err != nil {
			slog.ErrorContext(ctx, "notification not rendered",
				slog.String("channel", string(channel)),
				slog.String("error", err.Error()),
			)
			return
		}
		if _, err := s.notifier.Notify(ctx, channel, r); err != nil {
			slog.ErrorContext(ctx, "notification not dispatched",
				slog.String("channel", string(channel)),
				slog.String("error", err.Error()),
			)
		}
	})
}
