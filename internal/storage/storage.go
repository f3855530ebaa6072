// Package storage persists uploaded and generated files and hands back
// references callers can pass to a browser.
//
// Callers must treat every returned reference as an opaque string: depending
// on the backend it is an object key, a presigned URL, a download path on this
// server, or a data URI.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Kind distinguishes user uploads from generated exports. Backends return a
// key for uploads and a downloadable URL for exports.
type Kind int

const (
	KindUpload Kind = iota
	KindExport
)

func (k Kind) String() string {
	if k == KindExport {
		return "export"
	}
	return "upload"
}

// Object is one file to store.
type Object struct {
	Key         string
	Body        []byte
	ContentType string
	Kind        Kind
	Metadata    map[string]string
}

// Store is the object store adapter.
type Store interface {
	// Put stores obj and returns its reference.
	Put(ctx context.Context, obj Object) (string, error)
	// URL returns a retrievable reference for a stored key.
	URL(ctx context.Context, key string) (string, error)
}

// Opener is implemented by backends whose files are served by this process.
type Opener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// Purger is implemented by backends that expire objects themselves.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Pinger is implemented by backends that can check connectivity up front.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrNotFound is returned by Opener when a key does not exist or has expired.
var ErrNotFound = errors.New("object not found")

// Backend names accepted by New.
const (
	BackendAuto      = "auto"
	BackendS3        = "s3"
	BackendPostgres  = "postgres"
	BackendSimulated = "simulated"
)
