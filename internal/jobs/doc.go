// Package jobs implements background work for the job site API.
//
// The jobs package contains tasks that run independently of HTTP request
// handling.
//
// # Background executor
//
// Background runs detached fire-and-forget tasks such as subscriber
// notification fan-out:
//
//	bg := jobs.NewBackground(cfg.Notify.PipelineTimeout)
//	bg.Go(ctx, "notify.job", func(ctx context.Context) { ... })
//
// Tasks keep request-scoped values but not request cancellation. Panics are
// logged and swallowed. Wait drains running tasks during shutdown on a
// best-effort basis.
//
// # Scheduled reconciliation
//
// ReconcileScheduler runs the company aggregate reconciliation on a cron
// spec (robfig/cron syntax, e.g. "@every 6h" or "0 3 * * *"):
//
//	sched := jobs.NewReconcileScheduler(companyService, cfg.Reconcile.Cron)
//	sched.Start()
//	defer sched.Stop()
//
// # Error Handling
//
// Jobs log errors but don't crash the application. Failed runs are not
// retried; the next tick runs again.
package jobs
