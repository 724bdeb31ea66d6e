package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Alvi123787/Job-site-backend/internal/broker"
	"github.com/Alvi123787/Job-site-backend/internal/config"
	"github.com/Alvi123787/Job-site-backend/internal/model"
)

func TestDeriveLocation(t *testing.T) {
	tests := []struct {
		name string
		job  model.Job
		want string
	}{
		{"remote wins", model.Job{Remote: true, City: "Lahore", Country: "PK"}, "Remote"},
		{"all parts", model.Job{City: "Lahore", State: "Punjab", Country: "PK"}, "Lahore, Punjab, PK"},
		{"skips empty", model.Job{City: "Berlin", Country: "DE"}, "Berlin, DE"},
		{"trims", model.Job{City: "  ", Country: " DE "}, "DE"},
		{"nothing", model.Job{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveLocation(&tt.job); got != tt.want {
				t.Errorf("DeriveLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIncrementalUpdate_RemoteAcme(t *testing.T) {
	companies := newMemCompanyRepo()
	svc := NewCompanyService(CompanyServiceConfig{Jobs: &mockJobRepo{}, Companies: companies})

	job := &model.Job{Company: "Acme", Remote: true, City: "X", Country: "Y", Category: "Engineering"}
	if err := svc.IncrementalUpdate(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := companies.get("Acme")
	if got == nil {
		t.Fatal("expected Acme to exist")
	}
	if got.OpenPositions != 1 {
		t.Errorf("expected open_positions=1, got %d", got.OpenPositions)
	}
	if got.Location != "Remote" {
		t.Errorf("expected location Remote, got %q", got.Location)
	}
	if got.Industry != "Engineering" {
		t.Errorf("expected industry Engineering, got %q", got.Industry)
	}
}

func TestIncrementalUpdate_ConcurrentCountsEveryJob(t *testing.T) {
	companies := newMemCompanyRepo()
	svc := NewCompanyService(CompanyServiceConfig{Jobs: &mockJobRepo{}, Companies: companies})

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			job := &model.Job{Company: "Globex", City: fmt.Sprintf("City %d", i)}
			if err := svc.IncrementalUpdate(context.Background(), job); err != nil {
				t.Errorf("increment %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if got := companies.get("Globex").OpenPositions; got != n {
		t.Errorf("expected open_positions=%d, got %d", n, got)
	}
}

func TestIncrementalUpdate_LastWriteWinsMetadata(t *testing.T) {
	companies := newMemCompanyRepo()
	svc := NewCompanyService(CompanyServiceConfig{Jobs: &mockJobRepo{}, Companies: companies})
	ctx := context.Background()

	_ = svc.IncrementalUpdate(ctx, &model.Job{Company: "Initech", CompanyLogo: "old.png", City: "Austin"})
	_ = svc.IncrementalUpdate(ctx, &model.Job{Company: "Initech", CompanyLogo: "new.png", Remote: true})

	got := companies.get("Initech")
	if got.Logo != "new.png" || got.Location != "Remote" {
		t.Errorf("expected latest metadata, got logo=%q location=%q", got.Logo, got.Location)
	}
	if got.OpenPositions != 2 {
		t.Errorf("expected open_positions=2, got %d", got.OpenPositions)
	}
}

func TestIncrementalUpdate_MissingCompanyName(t *testing.T) {
	svc := NewCompanyService(CompanyServiceConfig{Jobs: &mockJobRepo{}, Companies: newMemCompanyRepo()})

	err := svc.IncrementalUpdate(context.Background(), &model.Job{Company: "   "})
	if !errors.Is(err, ErrCompanyNameMissing) {
		t.Errorf("expected ErrCompanyNameMissing, got %v", err)
	}
}

func reconcileJobs() []*model.Job {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*model.Job{
		{ID: "job:1", Company: "Acme", CompanyLogo: "first.png", City: "Lahore", CreatedOn: base},
		{ID: "job:2", Company: "Acme", CompanyLogo: "second.png", Remote: true, CreatedOn: base.Add(time.Hour)},
		{ID: "job:3", Company: "Globex", Category: "Finance", CreatedOn: base.Add(2 * time.Hour)},
		{ID: "job:4", Company: "", CreatedOn: base.Add(3 * time.Hour)},
	}
}

func TestReconcileAll_CountsAndFirstJobMetadata(t *testing.T) {
	companies := newMemCompanyRepo()
	jobs := &mockJobRepo{listForReconcileFunc: func(ctx context.Context) ([]*model.Job, error) {
		return reconcileJobs(), nil
	}}
	svc := NewCompanyService(CompanyServiceConfig{Jobs: jobs, Companies: companies})

	// drifted by incremental updates
	companies.companies["Acme"] = &model.Company{CompanyName: "Acme", OpenPositions: 9, Logo: "drift.png"}

	summary, err := svc.ReconcileAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.CompaniesProcessed != 2 || summary.Created != 1 || summary.Updated != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	acme := companies.get("Acme")
	if acme.OpenPositions != 2 {
		t.Errorf("expected Acme open_positions=2, got %d", acme.OpenPositions)
	}
	if acme.Logo != "first.png" || acme.Location != "Lahore" {
		t.Errorf("expected metadata of the oldest job, got logo=%q location=%q", acme.Logo, acme.Location)
	}
	if globex := companies.get("Globex"); globex == nil || globex.OpenPositions != 1 || globex.Industry != "Finance" {
		t.Errorf("unexpected Globex record: %+v", globex)
	}
}

func TestReconcileAll_Idempotent(t *testing.T) {
	companies := newMemCompanyRepo()
	jobs := &mockJobRepo{listForReconcileFunc: func(ctx context.Context) ([]*model.Job, error) {
		return reconcileJobs(), nil
	}}
	svc := NewCompanyService(CompanyServiceConfig{Jobs: jobs, Companies: companies})
	ctx := context.Background()

	if _, err := svc.ReconcileAll(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := *companies.get("Acme")

	summary, err := svc.ReconcileAll(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Created != 0 || summary.Updated != 2 {
		t.Errorf("expected only updates on second run, got %+v", summary)
	}
	if second := *companies.get("Acme"); second != first {
		t.Errorf("second run changed Acme: %+v -> %+v", first, second)
	}
}

func TestReconcileAll_StalePolicies(t *testing.T) {
	tests := []struct {
		policy      string
		wantStale   *int
		wantZeroed  int
		wantDeleted int
		exists      bool
	}{
		{policy: config.StalePolicyKeep, wantStale: intPtr(4), exists: true},
		{policy: config.StalePolicyZero, wantStale: intPtr(0), wantZeroed: 1, exists: true},
		{policy: config.StalePolicyDelete, wantDeleted: 1, exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			companies := newMemCompanyRepo()
			companies.companies["Hooli"] = &model.Company{CompanyName: "Hooli", OpenPositions: 4}
			jobs := &mockJobRepo{listForReconcileFunc: func(ctx context.Context) ([]*model.Job, error) {
				return reconcileJobs(), nil
			}}
			svc := NewCompanyService(CompanyServiceConfig{Jobs: jobs, Companies: companies, StalePolicy: tt.policy})

			summary, err := svc.ReconcileAll(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if summary.StaleZeroed != tt.wantZeroed || summary.StaleDeleted != tt.wantDeleted {
				t.Errorf("unexpected stale counts: %+v", summary)
			}

			hooli := companies.get("Hooli")
			if (hooli != nil) != tt.exists {
				t.Fatalf("expected exists=%v, got %+v", tt.exists, hooli)
			}
			if tt.wantStale != nil && hooli.OpenPositions != *tt.wantStale {
				t.Errorf("expected Hooli open_positions=%d, got %d", *tt.wantStale, hooli.OpenPositions)
			}
		})
	}
}

func TestReconcileAll_AbortsOnUpsertError(t *testing.T) {
	boom := errors.New("boom")
	jobs := &mockJobRepo{listForReconcileFunc: func(ctx context.Context) ([]*model.Job, error) {
		return reconcileJobs(), nil
	}}
	companies := &failingCompanyRepo{memCompanyRepo: newMemCompanyRepo(), err: boom}
	svc := NewCompanyService(CompanyServiceConfig{Jobs: jobs, Companies: companies})

	if _, err := svc.ReconcileAll(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected upsert error, got %v", err)
	}
	if companies.calls != 1 {
		t.Errorf("expected reconcile to stop after first failure, got %d calls", companies.calls)
	}
}

func TestReconcileAll_PublishesEvent(t *testing.T) {
	publisher := &mockPublisher{publishFunc: func(ctx context.Context, event broker.Event) error {
		return errors.New("bus down")
	}}
	svc := NewCompanyService(CompanyServiceConfig{
		Jobs:      &mockJobRepo{},
		Companies: newMemCompanyRepo(),
		Publisher: publisher,
	})

	if _, err := svc.ReconcileAll(context.Background()); err != nil {
		t.Fatalf("publish failure must not fail reconcile: %v", err)
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != broker.EventCompaniesReconciled {
		t.Errorf("expected one companies.reconciled event, got %+v", publisher.events)
	}
}

func TestCompanyList_FeaturedFallsBackToTopPositions(t *testing.T) {
	companies := newMemCompanyRepo()
	companies.companies["A"] = &model.Company{CompanyName: "A", OpenPositions: 1}
	companies.companies["B"] = &model.Company{CompanyName: "B", OpenPositions: 5}
	svc := NewCompanyService(CompanyServiceConfig{Jobs: &mockJobRepo{}, Companies: companies})

	got, err := svc.List(context.Background(), model.CompanyFilter{Featured: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].CompanyName != "B" {
		t.Errorf("expected fallback sorted by positions, got %+v", got)
	}
}

func TestCompanyList_ActiveMergesCachedRecords(t *testing.T) {
	companies := newMemCompanyRepo()
	companies.companies["Acme"] = &model.Company{ID: "company:Acme", CompanyName: "Acme", Featured: true, Location: "Remote", OpenPositions: 99}
	jobs := &mockJobRepo{countActiveByCompanyFunc: func(ctx context.Context) ([]model.CompanyJobCount, error) {
		return []model.CompanyJobCount{
			{Company: "Acme", Count: 2},
			{Company: "Globex", Count: 3, Category: "Finance"},
		}, nil
	}}
	svc := NewCompanyService(CompanyServiceConfig{Jobs: jobs, Companies: companies})

	got, err := svc.List(context.Background(), model.CompanyFilter{Active: true, SortByPositions: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(got))
	}
	if got[0].CompanyName != "Globex" || got[0].OpenPositions != 3 {
		t.Errorf("expected Globex first with live count, got %+v", got[0])
	}
	if got[1].OpenPositions != 2 || !got[1].Featured || got[1].Location != "Remote" {
		t.Errorf("expected Acme with live count and cached fields, got %+v", got[1])
	}

	featured, _ := svc.List(context.Background(), model.CompanyFilter{Active: true, Featured: true})
	if len(featured) != 1 || featured[0].CompanyName != "Acme" {
		t.Errorf("expected only featured Acme, got %+v", featured)
	}
}

type failingCompanyRepo struct {
	*memCompanyRepo
	err   error
	calls int
}

func (f *failingCompanyRepo) SetFromReconcile(ctx context.Context, meta model.CompanyMeta, count int) (bool, error) {
	f.calls++
	return false, f.err
}

func intPtr(v int) *int { return &v }
