// Package config manages application configuration for the job site API.
//
// Configuration is read from environment variables into tagged structs and
// then checked by Validate, which reports every problem at once rather than
// stopping at the first.
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS, log level)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: bearer token signing settings
//   - MailConfig: SMTP delivery for subscriber notifications
//   - SiteConfig: public site name and URLs used in links and SEO metadata
//   - RedisConfig: optional domain event bus
//   - ReconcileConfig: scheduled company reconciliation and stale policy
//   - NotifyConfig: per-send and per-pipeline notification timeouts
//   - RateLimitConfig: per-client request limits
//   - TelemetryConfig: optional OTLP trace export
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT             - HTTP server port (default: 8080)
//	DB_HOST, DB_PORT        - SurrealDB endpoint
//	JWT_SECRET              - HS256 signing secret
//	MAIL_ENABLED            - send real mail through SMTP_HOST (default: false)
//	FRONTEND_BASE           - base URL for links in notification mail
//	REDIS_URL               - enables domain event publishing when set
//	RECONCILE_CRON          - cron spec for scheduled reconciliation (empty: off)
//	RECONCILE_STALE_POLICY  - keep | zero | delete
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
