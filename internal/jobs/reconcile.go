package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// Reconciler recomputes the company aggregate
type Reconciler interface {
	ReconcileAll(ctx context.Context) (*model.ReconcileSummary, error)
}

// ReconcileScheduler runs company reconciliation on a cron schedule
type ReconcileScheduler struct {
	reconciler Reconciler
	spec       string
	timeout    time.Duration
	cron       *cron.Cron
	running    bool
	mu         sync.Mutex
}

// NewReconcileScheduler creates a scheduler for spec. An empty spec yields
// a scheduler whose Start is a no-op.
func NewReconcileScheduler(reconciler Reconciler, spec string) *ReconcileScheduler {
	return &ReconcileScheduler{
		reconciler: reconciler,
		spec:       spec,
		timeout:    5 * time.Minute,
	}
}

// Start registers the job and starts the cron loop
func (s *ReconcileScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.spec == "" {
		return nil
	}

	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(s.spec, s.runScheduled); err != nil {
		return fmt.Errorf("invalid RECONCILE_CRON %q: %w", s.spec, err)
	}

	c.Start()
	s.cron = c
	s.running = true
	slog.Info("company reconcile scheduler started", slog.String("spec", s.spec))
	return nil
}

// Stop halts the cron loop and waits for a running reconciliation
func (s *ReconcileScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	c := s.cron
	s.mu.Unlock()

	<-c.Stop().Done()
	slog.Info("company reconcile scheduler stopped")
}

// runScheduled is the cron entry point
func (s *ReconcileScheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		slog.Error("scheduled company reconcile failed", slog.String("error", err.Error()))
	}
}

// RunOnce runs one reconciliation (for testing or manual trigger)
func (s *ReconcileScheduler) RunOnce(ctx context.Context) (*model.ReconcileSummary, error) {
	return s.reconciler.ReconcileAll(ctx)
}

// IsRunning returns whether the scheduler is running
func (s *ReconcileScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
