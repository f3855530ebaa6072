package storage

import (
	"context"
	"encoding/base64"
	"log/slog"
)

// SimulatedStore stands in when no object store is configured. Nothing is
// kept: uploads return their key and exports return a data URI embedding the
// content, so downloads still work from the browser.
type SimulatedStore struct{}

// NewSimulatedStore returns the fallback store.
func NewSimulatedStore() *SimulatedStore {
	return &SimulatedStore{}
}

// Put returns the key for uploads and a data URI for exports.
func (s *SimulatedStore) Put(ctx context.Context, obj Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	slog.Debug("simulating object store put", "key", obj.Key, "kind", obj.Kind.String(), "bytes", len(obj.Body))

	if obj.Kind != KindExport {
		return obj.Key, nil
	}
	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(obj.Body), nil
}

// URL returns a placeholder reference for key.
func (s *SimulatedStore) URL(ctx context.Context, key string) (string, error) {
	return "#simulated-url-" + key, nil
}
