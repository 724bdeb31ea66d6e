package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Alvi123787/Job-site-backend/internal/broker"
	"github.com/Alvi123787/Job-site-backend/internal/config"
	"github.com/Alvi123787/Job-site-backend/internal/model"
	"github.com/Alvi123787/Job-site-backend/internal/telemetry"
)

// CompanyJobSource reads the job fields the company aggregate is derived from
type CompanyJobSource interface {
	ListForReconcile(ctx context.Context) ([]*model.Job, error)
	CountActiveByCompany(ctx context.Context) ([]model.CompanyJobCount, error)
}

// CompanyRepository is the company aggregate store
type CompanyRepository interface {
	IncrementFromJob(ctx context.Context, meta model.CompanyMeta) (*model.Company, error)
	SetFromReconcile(ctx context.Context, meta model.CompanyMeta, count int) (bool, error)
	ListNames(ctx context.Context) ([]string, error)
	ZeroCounts(ctx context.Context, names []string) (int, error)
	DeleteByNames(ctx context.Context, names []string) (int, error)
	List(ctx context.Context, filter model.CompanyFilter) ([]*model.Company, error)
	GetByNames(ctx context.Context, names []string) (map[string]*model.Company, error)
}

// CompanyService keeps the company aggregate approximately in sync with the
// job postings. Publications increment it one job at a time; ReconcileAll
// recomputes it from scratch.
type CompanyService struct {
	jobs        CompanyJobSource
	companies   CompanyRepository
	publisher   broker.Publisher
	stalePolicy string
}

// CompanyServiceConfig holds configuration for the company service
type CompanyServiceConfig struct {
	Jobs      CompanyJobSource
	Companies CompanyRepository
	Publisher broker.Publisher
	// StalePolicy decides what ReconcileAll does with companies that no
	// longer have any job: config.StalePolicyKeep, Zero or Delete.
	StalePolicy string
}

// NewCompanyService creates a new company service
func NewCompanyService(cfg CompanyServiceConfig) *CompanyService {
	policy := cfg.StalePolicy
	if policy == "" {
		policy = config.StalePolicyKeep
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = broker.NopPublisher{}
	}
	return &CompanyService{
		jobs:        cfg.Jobs,
		companies:   cfg.Companies,
		publisher:   publisher,
		stalePolicy: policy,
	}
}

// DeriveLocation renders a job's display location: "Remote" for remote jobs,
// otherwise the non-empty parts of city, state and country joined by ", ".
func DeriveLocation(job *model.Job) string {
	if job.Remote {
		return "Remote"
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{job.City, job.State, job.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// CompanyMetaFromJob extracts the cached display metadata a job contributes
func CompanyMetaFromJob(job *model.Job) model.CompanyMeta {
	return model.CompanyMeta{
		Name:     strings.TrimSpace(job.Company),
		Logo:     job.CompanyLogo,
		Industry: job.Category,
		Location: DeriveLocation(job),
	}
}

// IncrementalUpdate records one newly published job against its company:
// the open position count goes up by one and the cached metadata is
// overwritten with the job's values. Errors are returned; the publication
// path logs and ignores them.
func (s *CompanyService) IncrementalUpdate(ctx context.Context, job *model.Job) error {
	ctx, span := telemetry.Tracer().Start(ctx, "companies.incremental_update")
	defer span.End()

	meta := CompanyMetaFromJob(job)
	if meta.Name == "" {
		return ErrCompanyNameMissing
	}
	span.SetAttributes(attribute.String("company", meta.Name))

	company, err := s.companies.IncrementFromJob(ctx, meta)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "increment failed")
		return fmt.Errorf("increment company %q: %w", meta.Name, err)
	}

	if company != nil {
		span.SetAttributes(attribute.Int("open_positions", company.OpenPositions))
	}
	return nil
}

// companyGroup is one company's share of the job table
type companyGroup struct {
	meta  model.CompanyMeta
	count int
}

// ReconcileAll recomputes every company that currently has at least one job:
// the count is set to the number of jobs naming it and the metadata comes
// from the first (oldest) of those jobs. Running it twice in a row with no
// job writes in between leaves the same records.
//
// Companies without any job are handled by the stale policy: kept as they
// are, zeroed, or deleted.
func (s *CompanyService) ReconcileAll(ctx context.Context) (*model.ReconcileSummary, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "companies.reconcile")
	defer span.End()

	jobs, err := s.jobs.ListForReconcile(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load jobs failed")
		return nil, fmt.Errorf("load jobs: %w", err)
	}

	groups, order := groupByCompany(jobs)
	summary := &model.ReconcileSummary{StalePolicy: s.stalePolicy}

	for _, name := range order {
		g := groups[name]
		created, err := s.companies.SetFromReconcile(ctx, g.meta, g.count)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "upsert failed")
			return nil, err
		}
		summary.CompaniesProcessed++
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	if s.stalePolicy != config.StalePolicyKeep {
		if err := s.applyStalePolicy(ctx, groups, summary); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "stale policy failed")
			return nil, err
		}
	}

	summary.CompletedAt = time.Now().UTC()
	span.SetAttributes(
		attribute.Int("companies_processed", summary.CompaniesProcessed),
		attribute.Int("created", summary.Created),
		attribute.Int("updated", summary.Updated),
	)

	slog.Info("company reconcile completed",
		slog.Int("processed", summary.CompaniesProcessed),
		slog.Int("created", summary.Created),
		slog.Int("updated", summary.Updated),
		slog.Int("stale_zeroed", summary.StaleZeroed),
		slog.Int("stale_deleted", summary.StaleDeleted),
		slog.String("stale_policy", summary.StalePolicy),
	)

	if err := s.publisher.Publish(ctx, broker.NewEvent(broker.EventCompaniesReconciled, summary)); err != nil {
		slog.Warn("failed to publish reconcile event", slog.String("error", err.Error()))
	}

	return summary, nil
}

// applyStalePolicy handles stored companies that no job names any more
func (s *CompanyService) applyStalePolicy(ctx context.Context, groups map[string]*companyGroup, summary *model.ReconcileSummary) error {
	names, err := s.companies.ListNames(ctx)
	if err != nil {
		return fmt.Errorf("list companies: %w", err)
	}

	var stale []string
	for _, name := range names {
		if _, ok := groups[name]; !ok {
			stale = append(stale, name)
		}
	}
	if len(stale) == 0 {
		return nil
	}

	switch s.stalePolicy {
	case config.StalePolicyZero:
		n, err := s.companies.ZeroCounts(ctx, stale)
		if err != nil {
			return fmt.Errorf("zero stale companies: %w", err)
		}
		summary.StaleZeroed = n
	case config.StalePolicyDelete:
		n, err := s.companies.DeleteByNames(ctx, stale)
		if err != nil {
			return fmt.Errorf("delete stale companies: %w", err)
		}
		summary.StaleDeleted = n
	}
	return nil
}

// groupByCompany counts jobs per company name. The first job seen for a
// name supplies its metadata; order keeps first-seen order.
func groupByCompany(jobs []*model.Job) (map[string]*companyGroup, []string) {
	groups := make(map[string]*companyGroup)
	var order []string
	for _, job := range jobs {
		meta := CompanyMetaFromJob(job)
		if meta.Name == "" {
			continue
		}
		g, ok := groups[meta.Name]
		if !ok {
			g = &companyGroup{meta: meta}
			groups[meta.Name] = g
			order = append(order, meta.Name)
		}
		g.count++
	}
	return groups, order
}

// List returns companies for the companies endpoint. With Active set the
// counts are computed live from non-expired jobs; otherwise the stored
// aggregate is returned. A featured listing that finds nothing falls back
// to the companies with the most open positions.
func (s *CompanyService) List(ctx context.Context, filter model.CompanyFilter) ([]*model.Company, error) {
	filter.Normalize()

	if filter.Active {
		return s.listActive(ctx, filter)
	}

	companies, err := s.companies.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.Featured && len(companies) == 0 {
		fallback := model.CompanyFilter{SortByPositions: true, Limit: filter.Limit}
		return s.companies.List(ctx, fallback)
	}
	return companies, nil
}

// listActive merges live per-company job counts with cached metadata
func (s *CompanyService) listActive(ctx context.Context, filter model.CompanyFilter) ([]*model.Company, error) {
	counts, err := s.jobs.CountActiveByCompany(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(counts))
	for _, c := range counts {
		names = append(names, c.Company)
	}
	cached, err := s.companies.GetByNames(ctx, names)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Company, 0, len(counts))
	for _, c := range counts {
		company := &model.Company{
			ID:            "company:" + c.Company,
			CompanyName:   c.Company,
			Logo:          c.CompanyLogo,
			Industry:      c.Category,
			OpenPositions: c.Count,
		}
		if stored, ok := cached[c.Company]; ok {
			company.ID = stored.ID
			company.Featured = stored.Featured
			company.Description = stored.Description
			company.Location = stored.Location
			company.CreatedOn = stored.CreatedOn
			company.UpdatedOn = stored.UpdatedOn
			if stored.Logo != "" {
				company.Logo = stored.Logo
			}
			if stored.Industry != "" {
				company.Industry = stored.Industry
			}
		}
		if filter.Featured && !company.Featured {
			continue
		}
		out = append(out, company)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if filter.SortByPositions && out[i].OpenPositions != out[j].OpenPositions {
			return out[i].OpenPositions > out[j].OpenPositions
		}
		return out[i].CompanyName < out[j].CompanyName
	})

	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
