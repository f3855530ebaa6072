package core

// errors.go defines the error taxonomy shared by the parser, codec, service
// and transport layers. Validation problems are not errors: they are returned
// as a ValidationResult. ValidationFailedError only exists for the export
// gate, where the operation itself is refused.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTooManyRequests is returned when no work slot frees up in time.
var ErrTooManyRequests = errors.New("too many concurrent requests, please try again later")

// SchemaError reports required columns that could not be matched to any
// accepted header spelling.
type SchemaError struct {
	Schema    Schema
	Missing   []string // Logical field names with no matching column
	Available []string // Columns actually present
	Row       int      // 1-based row when checked per row, 0 for a file header
}

func (e *SchemaError) Error() string {
	where := fmt.Sprintf("%s CSV", e.Schema)
	if e.Row > 0 {
		where = fmt.Sprintf("%s row %d", e.Schema, e.Row)
	}
	return fmt.Sprintf("missing required columns in %s: %s. Available columns: %s",
		where, strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// ParseError wraps a failure to read CSV bytes.
type ParseError struct {
	Schema Schema
	Err    error
}

func (e *ParseError) Error() string {
	if e.Schema == "" {
		return fmt.Sprintf("invalid csv: %v", e.Err)
	}
	return fmt.Sprintf("invalid csv in %s file: %v", e.Schema, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RequestError reports a malformed request: missing payload parts or an
// unsupported option.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string { return "invalid request: " + e.Message }

// NewRequestError formats a RequestError.
func NewRequestError(format string, args ...any) *RequestError {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

// StorageError wraps an object store failure.
type StorageError struct {
	Op  string // "put" or "url"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ValidationFailedError refuses an export whose strings rows do not pass
// cross-dataset validation. Result carries the full detail.
type ValidationFailedError struct {
	Result ValidationResult
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("data validation failed: %d invalid rows", e.Result.Summary.InvalidRows)
}
