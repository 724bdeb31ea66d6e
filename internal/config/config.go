package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Stale aggregate policies applied by a full reconciliation to companies
// that no longer have any job postings.
const (
	StalePolicyKeep   = "keep"
	StalePolicyZero   = "zero"
	StalePolicyDelete = "delete"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Mail      MailConfig
	Site      SiteConfig
	Redis     RedisConfig
	Reconcile ReconcileConfig
	Notify    NotifyConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string        `env:"SERVER_PORT" envDefault:"8080"`
	Env            string        `env:"SERVER_ENV" envDefault:"development"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:5174"`
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string `env:"DB_HOST" envDefault:"localhost"`
	Port      string `env:"DB_PORT" envDefault:"8000"`
	Namespace string `env:"DB_NAMESPACE" envDefault:"jobsite"`
	Database  string `env:"DB_DATABASE" envDefault:"main"`
	User      string `env:"DB_USER" envDefault:"root"`
	Password  string `env:"DB_PASSWORD" envDefault:"root"`
}

// JWTConfig holds bearer token settings
type JWTConfig struct {
	Secret         string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	Issuer         string `env:"JWT_ISSUER" envDefault:"jobsite"`
	ExpirationMins int    `env:"JWT_EXPIRATION_MINS" envDefault:"10080"`
}

// MailConfig holds SMTP delivery settings. When Enabled is false messages
// are written to the log instead of being sent.
type MailConfig struct {
	Enabled  bool   `env:"MAIL_ENABLED" envDefault:"false"`
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"MAIL_FROM" envDefault:"Job Site <no-reply@localhost>"`
}

// SiteConfig holds public site details used in links, SEO metadata and mail
type SiteConfig struct {
	Name         string `env:"SITE_NAME" envDefault:"Job Site"`
	URL          string `env:"SITE_URL" envDefault:"http://localhost:5174"`
	Logo         string `env:"SITE_LOGO"`
	FrontendBase string `env:"FRONTEND_BASE" envDefault:"http://localhost:5174"`
}

// RedisConfig holds the optional domain event bus settings
type RedisConfig struct {
	URL     string `env:"REDIS_URL"`
	Channel string `env:"REDIS_EVENTS_CHANNEL" envDefault:"jobsite.events"`
}

// ReconcileConfig holds scheduled company reconciliation settings
type ReconcileConfig struct {
	Cron        string `env:"RECONCILE_CRON"`
	StalePolicy string `env:"RECONCILE_STALE_POLICY" envDefault:"keep"`
}

// NotifyConfig bounds subscriber notification work
type NotifyConfig struct {
	SendTimeout     time.Duration `env:"NOTIFY_SEND_TIMEOUT" envDefault:"30s"`
	PipelineTimeout time.Duration `env:"NOTIFY_PIPELINE_TIMEOUT" envDefault:"10m"`
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// TelemetryConfig holds tracing export settings
type TelemetryConfig struct {
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"jobsite-api"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Reconcile.StalePolicy = strings.ToLower(strings.TrimSpace(cfg.Reconcile.StalePolicy))
	return cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Server.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// JWT validation - the development secret must never reach production
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.IsProduction() && c.JWT.Secret == "dev_secret_change_me" {
		errs = append(errs, errors.New("JWT_SECRET must be changed in production"))
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	// Mail validation
	if c.Mail.Enabled {
		if err := c.Mail.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("mail: %w", err))
		}
	}

	// Site validation
	if _, err := url.ParseRequestURI(c.Site.FrontendBase); err != nil {
		errs = append(errs, fmt.Errorf("FRONTEND_BASE must be an absolute URL: %w", err))
	}

	// Reconcile validation
	switch c.Reconcile.StalePolicy {
	case StalePolicyKeep, StalePolicyZero, StalePolicyDelete:
	default:
		errs = append(errs, fmt.Errorf("RECONCILE_STALE_POLICY must be 'keep', 'zero', or 'delete', got '%s'", c.Reconcile.StalePolicy))
	}

	// Notify validation
	if c.Notify.SendTimeout <= 0 {
		errs = append(errs, errors.New("NOTIFY_SEND_TIMEOUT must be positive"))
	}
	if c.Notify.PipelineTimeout < c.Notify.SendTimeout {
		errs = append(errs, errors.New("NOTIFY_PIPELINE_TIMEOUT must not be shorter than NOTIFY_SEND_TIMEOUT"))
	}

	// Rate limit validation
	if c.RateLimit.RPS <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks that all required SMTP fields are present
func (m MailConfig) Validate() error {
	var missing []string
	if m.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if m.User == "" {
		missing = append(missing, "SMTP_USER")
	}
	if m.Password == "" {
		missing = append(missing, "SMTP_PASS")
	}
	if m.From == "" {
		missing = append(missing, "MAIL_FROM")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
