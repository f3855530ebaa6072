package core

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/JonMunkholm/csvmanager/internal/logging"
	"github.com/JonMunkholm/csvmanager/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CSVContentType is the content type of stored and exported files.
const CSVContentType = "text/csv"

// ObjectStore is the storage the service writes files to.
type ObjectStore interface {
	Put(ctx context.Context, obj storage.Object) (string, error)
}

// File is one uploaded file held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadRequest carries the two files of an upload. Both are required.
type UploadRequest struct {
	Strings         *File
	Classifications *File
}

// FileRefs holds the storage references of an upload's files.
type FileRefs struct {
	Strings         string `json:"strings"`
	Classifications string `json:"classifications"`
}

// UploadResult is the parsed, validated and stored upload.
type UploadResult struct {
	Strings         []StringsRow         `json:"strings"`
	Classifications []ClassificationsRow `json:"classifications"`
	Validation      ValidationResult     `json:"validation"`
	FileURLs        FileRefs             `json:"fileUrls"`
}

// ExportSelector picks which datasets an export produces.
type ExportSelector string

const (
	ExportStrings         ExportSelector = "strings"
	ExportClassifications ExportSelector = "classifications"
	ExportBoth            ExportSelector = "both"
)

// ExportRequest describes an export. A nil dataset means it was not sent;
// an empty non-nil dataset exports a header-only file.
type ExportRequest struct {
	Which           ExportSelector // Defaults to ExportBoth
	Format          string         // Only "csv"; defaults to "csv"
	Strings         []StringsRow
	Classifications []ClassificationsRow
}

// DownloadURL is one generated file.
type DownloadURL struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// ExportResult lists generated files, strings before classifications.
type ExportResult struct {
	DownloadURLs []DownloadURL `json:"downloadUrls"`
}

// Service runs uploads, validation and exports.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	store   ObjectStore
	limiter *Limiter
	now     func() time.Time
	newID   func() string
}

// NewService creates a Service. A nil limiter gets the defaults.
func NewService(store ObjectStore, limiter *Limiter) *Service {
	if limiter == nil {
		limiter = NewLimiter(DefaultMaxConcurrent, DefaultMaxWait)
	}
	return &Service{
		store:   store,
		limiter: limiter,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// Validate runs cross-dataset validation.
func (s *Service) Validate(stringsRows []StringsRow, classifications []ClassificationsRow) ValidationResult {
	return Validate(stringsRows, classifications)
}

// ValidateRow checks one edited row. rowIndex is 0-based. The result is
// never nil.
func (s *Service) ValidateRow(row StringsRow, rowIndex int, classifications []ClassificationsRow) []ValidationError {
	errs := ValidateSingleRow(row, rowIndex, BuildCombinationSet(classifications))
	if errs == nil {
		errs = []ValidationError{}
	}
	return errs
}

// Autocomplete builds the suggestion index for a catalog.
func (s *Service) Autocomplete(classifications []ClassificationsRow) AutocompleteIndex {
	return BuildAutocompleteIndex(classifications)
}

// Upload parses both files, validates strings against classifications and
// stores the original files. Parsing and storing each run both files
// concurrently; validation waits for both parses.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if req.Strings == nil || req.Classifications == nil {
		return nil, NewRequestError("both strings and classifications CSV files are required")
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	logger := logging.WithFields(ctx,
		"op", "upload",
		"strings_file", req.Strings.Name,
		"classifications_file", req.Classifications.Name,
	)

	var res UploadResult

	var parse errgroup.Group
	parse.Go(func() error {
		t, err := DecodeBytes(req.Strings.Data, SchemaStrings)
		if err != nil {
			return err
		}
		res.Strings, err = ParseStringsTable(t)
		return err
	})
	parse.Go(func() error {
		t, err := DecodeBytes(req.Classifications.Data, SchemaClassifications)
		if err != nil {
			return err
		}
		res.Classifications, err = ParseClassificationsTable(t)
		return err
	})
	if err := parse.Wait(); err != nil {
		logger.Warn("upload rejected", "error", err)
		return nil, err
	}

	res.Validation = Validate(res.Strings, res.Classifications)

	store, storeCtx := errgroup.WithContext(ctx)
	store.Go(func() error {
		ref, err := s.putUpload(storeCtx, SchemaStrings, req.Strings)
		res.FileURLs.Strings = ref
		return err
	})
	store.Go(func() error {
		ref, err := s.putUpload(storeCtx, SchemaClassifications, req.Classifications)
		res.FileURLs.Classifications = ref
		return err
	})
	if err := store.Wait(); err != nil {
		logger.Error("storing uploaded files failed", "error", err)
		return nil, err
	}

	logger.Info("upload processed",
		"strings_rows", len(res.Strings),
		"classifications_rows", len(res.Classifications),
		"invalid_rows", res.Validation.Summary.InvalidRows,
	)
	return &res, nil
}

func (s *Service) putUpload(ctx context.Context, schema Schema, f *File) (string, error) {
	now := s.now()
	key := fmt.Sprintf("uploads/%s/%d-%s-%s", schema, now.UnixMilli(), s.newID(), baseName(f.Name))

	contentType := f.ContentType
	if contentType == "" {
		contentType = CSVContentType
	}

	ref, err := s.store.Put(ctx, storage.Object{
		Key:         key,
		Body:        f.Data,
		ContentType: contentType,
		Kind:        storage.KindUpload,
		Metadata: map[string]string{
			"originalName": f.Name,
			"type":         string(schema),
			"uploadedAt":   now.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", &StorageError{Op: "put", Key: key, Err: err}
	}
	return ref, nil
}

// baseName strips any client-supplied directory from a filename.
func baseName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return "file.csv"
	}
	return name
}

// checkExport validates the request shape.
func checkExport(req *ExportRequest) error {
	if req.Format == "" {
		req.Format = "csv"
	}
	if !strings.EqualFold(req.Format, "csv") {
		return NewRequestError("unsupported format %q: only csv is supported", req.Format)
	}

	if req.Which == "" {
		req.Which = ExportBoth
	}
	switch req.Which {
	case ExportBoth:
		if req.Strings == nil || req.Classifications == nil {
			return NewRequestError("both strings and classifications data are required")
		}
	case ExportStrings:
		if req.Strings == nil || req.Classifications == nil {
			return NewRequestError("both strings and classifications data are required to export strings")
		}
	case ExportClassifications:
		if req.Classifications == nil {
			return NewRequestError("classificationsData is required to export classifications")
		}
	default:
		return NewRequestError("unknown export selection %q: use strings, classifications or both", req.Which)
	}
	return nil
}

// ExportFilename names an exported dataset by its UTC date, e.g.
// "strings-2024-03-01.csv".
func ExportFilename(schema Schema, t time.Time) string {
	return fmt.Sprintf("%s-%s.csv", schema, t.UTC().Format("2006-01-02"))
}

type exportFile struct {
	filename string
	body     []byte
}

// Export encodes and stores the selected datasets. Exporting strings is
// refused with a ValidationFailedError when any strings row is invalid;
// exporting classifications alone is never gated.
func (s *Service) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if err := checkExport(&req); err != nil {
		return nil, err
	}

	if req.Which != ExportClassifications {
		if v := Validate(req.Strings, req.Classifications); !v.IsValid() {
			return nil, &ValidationFailedError{Result: v}
		}
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	now := s.now()

	var files []exportFile
	if req.Which == ExportStrings || req.Which == ExportBoth {
		body, err := EncodeStrings(req.Strings)
		if err != nil {
			return nil, fmt.Errorf("encode strings: %w", err)
		}
		files = append(files, exportFile{filename: ExportFilename(SchemaStrings, now), body: body})
	}
	if req.Which == ExportClassifications || req.Which == ExportBoth {
		body, err := EncodeClassifications(req.Classifications)
		if err != nil {
			return nil, fmt.Errorf("encode classifications: %w", err)
		}
		files = append(files, exportFile{filename: ExportFilename(SchemaClassifications, now), body: body})
	}

	urls := make([]DownloadURL, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			key := fmt.Sprintf("exports/%d-%s-%s", now.UnixMilli(), s.newID(), f.filename)
			ref, err := s.store.Put(gctx, storage.Object{
				Key:         key,
				Body:        f.body,
				ContentType: CSVContentType,
				Kind:        storage.KindExport,
				Metadata:    map[string]string{"generatedAt": now.UTC().Format(time.RFC3339)},
			})
			if err != nil {
				return &StorageError{Op: "put", Key: key, Err: err}
			}
			urls[i] = DownloadURL{Filename: f.filename, URL: ref}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logging.FromContext(ctx).Error("storing export failed", "which", string(req.Which), "error", err)
		return nil, err
	}

	logging.FromContext(ctx).Info("export generated", "which", string(req.Which), "files", len(urls))
	return &ExportResult{DownloadURLs: urls}, nil
}

// LimiterStatus reports work slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForDrain blocks until in-flight uploads and exports finish.
func (s *Service) WaitForDrain(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
