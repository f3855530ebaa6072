// Package config loads server settings from environment variables, applies
// defaults and validates everything on startup.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Env is the deployment environment. Only an explicit "development"
	// exposes error details.
	Env string `env:"APP_ENV" envAlt:"NODE_ENV" default:"production"`

	Server   ServerConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Storage  StorageConfig
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 3001)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"3001"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including draining uploads (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds upload and export processing settings.
type UploadConfig struct {
	// MaxFileSize is the per-file limit, e.g. "10MiB" or 10485760 (default: 10MiB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10MiB" unit:"bytes"`

	// MaxBodySize caps JSON request bodies (default: 50MiB)
	MaxBodySize int64 `env:"UPLOAD_MAX_BODY_SIZE" default:"50MiB" unit:"bytes"`

	// MaxConcurrent is the number of uploads or exports processed at once (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long a request waits for a slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// RateLimitConfig holds per-IP rate limits.
type RateLimitConfig struct {
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute applies to every route (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit applies to upload and export (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// AllowedOrigins lists extra CORS origins; entries may contain "*".
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`

	// ClientURL is the web client's origin, always allowed.
	ClientURL string `env:"CLIENT_URL"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// StorageConfig selects where uploaded and exported files go.
type StorageConfig struct {
	// Backend is auto, s3, postgres or simulated (default: auto)
	Backend string `env:"STORAGE_BACKEND" default:"auto"`

	AccountID       string `env:"R2_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID" envAlt:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY" envAlt:"S3_SECRET_ACCESS_KEY"`
	Bucket          string `env:"R2_BUCKET_NAME" envAlt:"S3_BUCKET" default:"csv-manager"`

	// Endpoint overrides the R2 host derived from AccountID.
	Endpoint string `env:"S3_ENDPOINT"`
	UseSSL   bool   `env:"S3_USE_SSL" default:"true"`

	// PresignExpiry is how long export links stay valid (default: 1h)
	PresignExpiry time.Duration `env:"STORAGE_PRESIGN_EXPIRY" default:"1h"`

	// DatabaseURL is the Postgres connection string for the postgres backend.
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// PublicBaseURL prefixes postgres-backed download links.
	PublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL"`

	// Retention is how long postgres-backed files live (default: 24h)
	Retention time.Duration `env:"STORAGE_RETENTION" default:"24h"`

	// SweepInterval is how often expired files are purged (default: 15m)
	SweepInterval time.Duration `env:"STORAGE_SWEEP_INTERVAL" default:"15m"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
