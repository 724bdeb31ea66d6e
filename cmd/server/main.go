package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alvi123787/Job-site-backend/internal/broker"
	"github.com/Alvi123787/Job-site-backend/internal/config"
	"github.com/Alvi123787/Job-site-backend/internal/database"
	"github.com/Alvi123787/Job-site-backend/internal/handler"
	"github.com/Alvi123787/Job-site-backend/internal/jobs"
	"github.com/Alvi123787/Job-site-backend/internal/middleware"
	"github.com/Alvi123787/Job-site-backend/internal/repository"
	"github.com/Alvi123787/Job-site-backend/internal/seo"
	"github.com/Alvi123787/Job-site-backend/internal/service"
	"github.com/Alvi123787/Job-site-backend/internal/telemetry"
	"github.com/Alvi123787/Job-site-backend/migrations"
	"github.com/Alvi123787/Job-site-backend/pkg/jwt"
)

var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Text logs in development, JSON elsewhere
	logOpts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, logOpts)
	if cfg.IsDevelopment() {
		logHandler = slog.NewTextHandler(os.Stdout, logOpts)
	}
	slog.SetDefault(slog.New(logHandler))

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		slog.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	if err := database.Migrate(ctx, db, migrations.FS); err != nil {
		slog.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Domain events go to Redis when configured
	var publisher broker.Publisher = broker.NopPublisher{}
	if cfg.Redis.URL != "" {
		rdb, err := broker.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			slog.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		publisher = broker.NewRedisPublisher(rdb, cfg.Redis.Channel)
		slog.Info("publishing domain events", slog.String("channel", cfg.Redis.Channel))
	}
	defer func() { _ = publisher.Close() }()

	sender, err := service.NewSender(cfg.Mail)
	if err != nil {
		slog.Error("failed to initialize mail sender", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	jobRepo := repository.NewJobRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	site := seo.Site{
		Name: cfg.Site.Name,
		URL:  cfg.Site.URL,
		Logo: cfg.Site.Logo,
	}

	// Detached work (notification fan-out, welcome mails)
	background := jobs.NewBackground(cfg.Notify.PipelineTimeout)

	// Initialize services
	companyService := service.NewCompanyService(service.CompanyServiceConfig{
		Jobs:        jobRepo,
		Companies:   companyRepo,
		Publisher:   publisher,
		StalePolicy: cfg.Reconcile.StalePolicy,
	})
	notificationService := service.NewNotificationService(service.NotificationServiceConfig{
		Audience:     subscriptionRepo,
		Sender:       sender,
		FrontendBase: cfg.Site.FrontendBase,
		SendTimeout:  cfg.Notify.SendTimeout,
	})
	publicationService := service.NewPublicationService(service.PublicationServiceConfig{
		Jobs:      jobRepo,
		Blogs:     blogRepo,
		Companies: companyService,
		Notifier:  notificationService,
		Publisher: publisher,
		Runner:    background,
		Site:      site,
	})
	jobService := service.NewJobService(service.JobServiceConfig{
		Jobs:         jobRepo,
		Applications: applicationRepo,
		Site:         site,
	})
	blogService := service.NewBlogService(blogRepo)
	subscriptionService := service.NewSubscriptionService(service.SubscriptionServiceConfig{
		Subscriptions: subscriptionRepo,
		Welcomer:      notificationService,
		Runner:        background,
	})

	// Scheduled company reconciliation (disabled when RECONCILE_CRON is empty)
	reconcileScheduler := jobs.NewReconcileScheduler(companyService, cfg.Reconcile.Cron)
	if err := reconcileScheduler.Start(); err != nil {
		slog.Error("failed to start reconcile scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer reconcileScheduler.Stop()

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	// Create router and register routes
	mux := http.NewServeMux()
	handler.Routes{
		Health:        handler.NewHealthHandler(db, version),
		Jobs:          handler.NewJobHandler(publicationService, jobService),
		Blogs:         handler.NewBlogHandler(publicationService, blogService),
		Companies:     handler.NewCompanyHandler(companyService),
		Subscriptions: handler.NewSubscriptionHandler(subscriptionService),
		Auth:          middleware.Auth(jwtService),
		Limit:         middleware.RateLimit(rateLimiter),
	}.Register(mux)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Recovery,
		middleware.Trace,
		middleware.Logger,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	// Let in-flight notification fan-outs finish while there is time left
	if err := background.Wait(shutdownCtx); err != nil {
		slog.Warn("background tasks still running at shutdown",
			slog.Int("active", background.Active()),
		)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Warn("tracer shutdown failed", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
