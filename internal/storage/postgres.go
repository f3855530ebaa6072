package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultRetention is how long Postgres-backed objects live.
const DefaultRetention = 24 * time.Hour

// DBTX is the subset of pgx used by PostgresStore.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

const createObjectsTable = `
CREATE TABLE IF NOT EXISTS stored_objects (
	key          TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	content_type TEXT NOT NULL,
	metadata     JSONB NOT NULL DEFAULT '{}'::jsonb,
	body         BYTEA NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS stored_objects_expires_at_idx ON stored_objects (expires_at);`

const insertObject = `
INSERT INTO stored_objects (key, kind, content_type, metadata, body, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (key) DO UPDATE
SET kind = EXCLUDED.kind,
    content_type = EXCLUDED.content_type,
    metadata = EXCLUDED.metadata,
    body = EXCLUDED.body,
    expires_at = EXCLUDED.expires_at`

const selectObject = `
SELECT body, content_type FROM stored_objects
WHERE key = $1 AND expires_at > $2`

const deleteExpiredObjects = `DELETE FROM stored_objects WHERE expires_at <= $1`

// PostgresStore keeps files as short-lived rows and serves them through
// this server's download route.
type PostgresStore struct {
	db        DBTX
	baseURL   string
	retention time.Duration
	now       func() time.Time
}

// PostgresConfig configures PostgresStore.
type PostgresConfig struct {
	// PublicBaseURL prefixes download links, e.g. "https://csv.example.com".
	// Empty yields server-relative links.
	PublicBaseURL string
	Retention     time.Duration
}

// NewPostgresStore wraps db. Call EnsureSchema before first use.
func NewPostgresStore(db DBTX, cfg PostgresConfig) *PostgresStore {
	retention := cfg.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &PostgresStore{
		db:        db,
		baseURL:   strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		retention: retention,
		now:       time.Now,
	}
}

// EnsureSchema creates the objects table if needed.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createObjectsTable); err != nil {
		return fmt.Errorf("create stored_objects: %w", err)
	}
	return nil
}

// Put stores obj until the retention period ends.
func (s *PostgresStore) Put(ctx context.Context, obj Object) (string, error) {
	metadata := obj.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.db.Exec(ctx, insertObject,
		obj.Key, obj.Kind.String(), contentType, metadata, obj.Body, s.now().Add(s.retention))
	if err != nil {
		return "", fmt.Errorf("insert object: %w", err)
	}

	if obj.Kind != KindExport {
		return obj.Key, nil
	}
	return s.URL(ctx, obj.Key)
}

// URL returns the download link for key.
func (s *PostgresStore) URL(ctx context.Context, key string) (string, error) {
	return s.baseURL + DownloadPath(key), nil
}

// Open returns the stored body and content type.
func (s *PostgresStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	var (
		body        []byte
		contentType string
	)
	err := s.db.QueryRow(ctx, selectObject, key, s.now()).Scan(&body, &contentType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("select object: %w", err)
	}
	return io.NopCloser(bytes.NewReader(body)), contentType, nil
}

// PurgeExpired deletes objects whose retention ended at or before now.
func (s *PostgresStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteExpiredObjects, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired objects: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DownloadPath is the server route that serves key.
func DownloadPath(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "/api/files/" + strings.Join(parts, "/")
}
