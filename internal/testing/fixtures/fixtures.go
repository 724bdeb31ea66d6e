// Package fixtures provides test data factories for integration testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	job := f.CreateJob(t)
//	sub := f.CreateSubscription(t, model.ChannelJob)
//	legacy := f.CreateLegacySubscription(t)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/Alvi123787/Job-site-backend/internal/database"
	"github.com/Alvi123787/Job-site-backend/internal/model"
	"github.com/Alvi123787/Job-site-backend/internal/repository"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// Job Fixtures
// ============================================================================

// JobOpts customizes job creation
type JobOpts struct {
	Title    string
	Company  string
	Category string
	Country  string
	City     string
	Remote   bool
	Featured bool
	Status   model.JobStatus
	EndDate  time.Time
}

// CreateJob creates an active job ending a week from now
func (f *Factory) CreateJob(t *testing.T, opts ...func(*JobOpts)) *model.Job {
	t.Helper()

	o := &JobOpts{
		Title:    fmt.Sprintf("Engineer %s", randomID()),
		Company:  fmt.Sprintf("Company %s", randomID()),
		Category: "Engineering",
		Country:  "Pakistan",
		City:     "Lahore",
		Status:   model.JobStatusActive,
		EndDate:  time.Now().Add(7 * 24 * time.Hour),
	}
	for _, fn := range opts {
		fn(o)
	}

	job := &model.Job{
		Title:     o.Title,
		Company:   o.Company,
		Category:  o.Category,
		Country:   o.Country,
		City:      o.City,
		Remote:    o.Remote,
		Featured:  o.Featured,
		Status:    o.Status,
		EndDate:   o.EndDate,
		Currency:  model.DefaultCurrency,
		SalaryPer: model.DefaultSalaryPer,
	}
	if err := repository.NewJobRepository(f.db).Create(ctx(t), job); err != nil {
		t.Fatalf("fixtures: failed to create job: %v", err)
	}
	return job
}

// CreateExpiredJob creates a job whose end date has already passed but whose
// stored status is still Active.
func (f *Factory) CreateExpiredJob(t *testing.T, opts ...func(*JobOpts)) *model.Job {
	t.Helper()
	return f.CreateJob(t, append([]func(*JobOpts){func(o *JobOpts) {
		o.EndDate = time.Now().Add(-24 * time.Hour)
	}}, opts...)...)
}

// WithCompany sets the job's company name
func WithCompany(name string) func(*JobOpts) {
	return func(o *JobOpts) { o.Company = name }
}

// WithCategory sets the job's category
func WithCategory(category string) func(*JobOpts) {
	return func(o *JobOpts) { o.Category = category }
}

// WithStatus sets the job's stored status
func WithStatus(status model.JobStatus) func(*JobOpts) {
	return func(o *JobOpts) { o.Status = status }
}

// ============================================================================
// Blog Fixtures
// ============================================================================

// CreateBlog creates a blog post in category
func (f *Factory) CreateBlog(t *testing.T, category string) *model.Blog {
	t.Helper()

	blog := &model.Blog{
		Title:            fmt.Sprintf("Post %s", randomID()),
		Author:           "Test Author",
		Category:         category,
		ShortDescription: "Short description",
		Content:          "Body",
		Tags:             []string{"go"},
		PublishedAt:      time.Now(),
	}
	if err := repository.NewBlogRepository(f.db).Create(ctx(t), blog); err != nil {
		t.Fatalf("fixtures: failed to create blog: %v", err)
	}
	return blog
}

// ============================================================================
// Subscription Fixtures
// ============================================================================

// RandomEmail returns a unique normalized address
func RandomEmail() string {
	return fmt.Sprintf("sub_%s@test.local", randomID())
}

// CreateSubscription creates an active subscriber of the given channels
func (f *Factory) CreateSubscription(t *testing.T, channels ...model.Channel) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		Email: RandomEmail(),
		Types: append([]model.Channel{}, channels...),
	}
	if err := repository.NewSubscriptionRepository(f.db).Create(ctx(t), sub); err != nil {
		t.Fatalf("fixtures: failed to create subscription: %v", err)
	}
	return sub
}

// CreateLegacySubscription creates an active subscriber without a types
// field, as stored before channels existed.
func (f *Factory) CreateLegacySubscription(t *testing.T) *model.Subscription {
	t.Helper()

	email := RandomEmail()
	query := `
		CREATE subscription CONTENT {
			email: $email,
			unsubscribed: false,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	if err := f.db.Execute(ctx(t), query, map[string]interface{}{"email": email}); err != nil {
		t.Fatalf("fixtures: failed to create legacy subscription: %v", err)
	}
	return &model.Subscription{Email: email}
}

// Unsubscribe marks an existing subscriber inactive
func (f *Factory) Unsubscribe(t *testing.T, email string) {
	t.Helper()
	if _, err := repository.NewSubscriptionRepository(f.db).Deactivate(ctx(t), email); err != nil {
		t.Fatalf("fixtures: failed to unsubscribe: %v", err)
	}
}

// ============================================================================
// Company Fixtures
// ============================================================================

// CreateCompany stores a company record with a fixed open position count
func (f *Factory) CreateCompany(t *testing.T, name string, openPositions int, featured bool) {
	t.Helper()

	query := `
		UPSERT type::record('company', $name) SET
			company_name = $name,
			open_positions = $count,
			featured = $featured,
			created_on = time::now(),
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"name":     name,
		"count":    openPositions,
		"featured": featured,
	}
	if err := f.db.Execute(ctx(t), query, vars); err != nil {
		t.Fatalf("fixtures: failed to create company: %v", err)
	}
}
