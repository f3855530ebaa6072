package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string // auto, s3, postgres, simulated
	S3            S3Config
	DatabaseURL   string
	PublicBaseURL string
	Retention     time.Duration
}

// hasS3Credentials reports whether enough is set to reach a bucket.
func (c Config) hasS3Credentials() bool {
	return c.S3.AccessKeyID != "" && c.S3.SecretAccessKey != "" &&
		(c.S3.AccountID != "" || c.S3.Endpoint != "")
}

// New builds the configured store. The returned close function releases
// backend resources and is never nil.
//
// With BackendAuto, S3 is used when credentials are present; otherwise the
// simulated store is used and a warning is logged.
func New(ctx context.Context, cfg Config) (Store, func(), error) {
	noop := func() {}

	backend := strings.ToLower(cfg.Backend)
	if backend == "" || backend == BackendAuto {
		if cfg.hasS3Credentials() {
			backend = BackendS3
		} else {
			slog.Warn("object store credentials not configured, file storage will be simulated")
			backend = BackendSimulated
		}
	}

	switch backend {
	case BackendS3:
		s, err := NewS3Store(cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("object store ready", "backend", BackendS3, "bucket", cfg.S3.Bucket)
		return s, noop, nil

	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("postgres storage requires a database url")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("ping database: %w", err)
		}
		s := NewPostgresStore(pool, PostgresConfig{
			PublicBaseURL: cfg.PublicBaseURL,
			Retention:     cfg.Retention,
		})
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		slog.Info("object store ready", "backend", BackendPostgres, "retention", s.retention.String())
		return s, pool.Close, nil

	case BackendSimulated:
		return NewSimulatedStore(), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
