package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/csvmanager/internal/core"
	"github.com/JonMunkholm/csvmanager/internal/logging"
	"github.com/JonMunkholm/csvmanager/internal/web/templates"
	"github.com/a-h/templ"
)

// multipartMemory is how much of an upload form is buffered in memory
// before spilling to temp files.
const multipartMemory = 32 << 20

type uploadResponse struct {
	Success bool               `json:"success"`
	Data    *core.UploadResult `json:"data"`
}

type exportResponse struct {
	Success      bool               `json:"success"`
	DownloadURLs []core.DownloadURL `json:"downloadUrls"`
}

type validateResponse struct {
	Validation core.ValidationResult `json:"validation"`
}

type validateRowResponse struct {
	Row    int                    `json:"row"`
	Errors []core.ValidationError `json:"errors"`
}

// handleUpload accepts the strings and classifications files as multipart
// fields of the same names.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	// Two files plus form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxSize+multipartMemory)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, err)
			return
		}
		s.respondError(w, r, core.NewRequestError("expected a multipart form with strings and classifications files"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	stringsFile, err := readFormFile(r, "strings", maxSize)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	classificationsFile, err := readFormFile(r, "classifications", maxSize)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.Upload(r.Context(), core.UploadRequest{
		Strings:         stringsFile,
		Classifications: classificationsFile,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{Success: true, Data: result})
}

// handleValidate cross-validates the edited datasets. HTMX requests get the
// validation report partial instead of JSON.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req datasetsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.StringsData == nil || req.ClassificationsData == nil {
		s.respondError(w, r, core.NewRequestError("both strings and classifications data are required"))
		return
	}

	stringsRows, classifications, err := req.parse()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result := s.service.Validate(stringsRows, classifications)
	logging.FromContext(r.Context()).Debug("validation finished",
		"total_rows", result.Summary.TotalRows,
		"invalid_rows", result.Summary.InvalidRows,
	)

	if isHTMX(r) {
		s.render(w, r, templates.ValidationReport(result))
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Validation: result})
}

// handleValidateRow checks a single edited row against the catalog.
func (s *Server) handleValidateRow(w http.ResponseWriter, r *http.Request) {
	var req rowRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Row == nil || req.ClassificationsData == nil {
		s.respondError(w, r, core.NewRequestError("row and classificationsData are required"))
		return
	}
	if req.RowIndex < 0 {
		s.respondError(w, r, core.NewRequestError("rowIndex must not be negative"))
		return
	}

	rows, err := core.ParseStrings([]core.RawRow{core.RawRow(req.Row)})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	classifications, err := core.ParseClassifications(req.ClassificationsData)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	errs := s.service.ValidateRow(rows[0], req.RowIndex, classifications)
	if isHTMX(r) {
		s.render(w, r, templates.RowErrors(req.RowIndex+1, errs))
		return
	}
	writeJSON(w, http.StatusOK, validateRowResponse{Row: req.RowIndex + 1, Errors: errs})
}

// handleExport writes the selected datasets to storage and returns their
// download links. A strings export with invalid rows is refused with the
// validation detail.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req datasetsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	stringsRows, classifications, err := req.parse()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.Export(r.Context(), core.ExportRequest{
		Which:           core.ExportSelector(strings.ToLower(strings.TrimSpace(req.Which))),
		Format:          strings.TrimSpace(req.Format),
		Strings:         stringsRows,
		Classifications: classifications,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, exportResponse{Success: true, DownloadURLs: result.DownloadURLs})
}

// handleAutocomplete returns the suggestion index for the edit form.
func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	var req datasetsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.ClassificationsData == nil {
		s.respondError(w, r, core.NewRequestError("classificationsData is required"))
		return
	}

	classifications, err := core.ParseClassifications(req.ClassificationsData)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, s.service.Autocomplete(classifications))
}

// render writes an HTML partial.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render partial", "error", err)
	}
}
