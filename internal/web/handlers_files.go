package web

import (
	"errors"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/JonMunkholm/csvmanager/internal/core"
	"github.com/JonMunkholm/csvmanager/internal/logging"
	"github.com/JonMunkholm/csvmanager/internal/storage"
	"github.com/go-chi/chi/v5"
)

type healthResponse struct {
	Status    string             `json:"status"`
	Timestamp string             `json:"timestamp"`
	Uptime    string             `json:"uptime"`
	Workers   core.LimiterStatus `json:"workers"`
}

// handleHealth reports liveness and current upload/export load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Workers:   s.service.LimiterStatus(),
	})
}

// handleDownloadFile streams a stored file for backends that serve their
// own downloads.
func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	if s.files == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	// The router matches on the decoded path, so the wildcard is the key.
	key := chi.URLParam(r, "*")
	if key == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	body, contentType, err := s.files.Open(r.Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "file not found or expired")
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("open stored file", "key", key, "error", err)
		writeError(w, http.StatusBadGateway, "file storage is unavailable")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(key)+`"`)
	w.Header().Set("Cache-Control", "private, no-store")
	if _, err := io.Copy(w, body); err != nil {
		logging.FromContext(r.Context()).Warn("stream stored file", "key", key, "error", err)
	}
}
