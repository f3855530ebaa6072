package web

// errors.go provides unified error responses for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. The status is derived from the error type
//  4. Technical error + context is logged with request ID for correlation
//  5. The user message is rendered as JSON, or as an HTML partial for HTMX

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/JonMunkholm/csvmanager/internal/core"
	"github.com/JonMunkholm/csvmanager/internal/logging"
	"github.com/JonMunkholm/csvmanager/internal/web/templates"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"` // development only

	Validation *core.ValidationResult `json:"validation,omitempty"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var (
		schemaErr  *core.SchemaError
		parseErr   *core.ParseError
		requestErr *core.RequestError
		gateErr    *core.ValidationFailedError
		storageErr *core.StorageError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &gateErr),
		errors.As(err, &schemaErr),
		errors.As(err, &parseErr),
		errors.As(err, &requestErr):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyRequests):
		return http.StatusServiceUnavailable
	case errors.As(err, &storageErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage is the "error" text sent to the client. Errors raised for
// bad input carry their own detail; everything else gets the mapped text.
func clientMessage(err error, msg core.UserMessage) string {
	var (
		schemaErr  *core.SchemaError
		parseErr   *core.ParseError
		requestErr *core.RequestError
		gateErr    *core.ValidationFailedError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &gateErr):
		return "Data validation failed"
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("File exceeds the %s upload limit", humanize.IBytes(uint64(max(tooLarge.Limit, 0))))
	case errors.As(err, &requestErr):
		return requestErr.Message
	case errors.As(err, &schemaErr), errors.As(err, &parseErr):
		return err.Error()
	default:
		return msg.Message
	}
}

// respondError logs err and writes the sanitized response. Unexpected
// errors only expose their technical text in development.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	message := clientMessage(err, userMsg)
	var gateErr *core.ValidationFailedError
	errors.As(err, &gateErr)

	if isHTMX(r) {
		alert := templates.ErrorAlert(message, userMsg.Action, userMsg.Code)
		if gateErr != nil {
			alert = templates.ExportRefused(message, userMsg.Action, userMsg.Code, gateErr.Result)
		}
		renderErrorPartial(w, r, alert, status)
		return
	}

	resp := ErrorResponse{
		Error:   message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	if gateErr != nil {
		resp.Validation = &gateErr.Result
	}
	if s.cfg.IsDevelopment() && !core.IsUserFacing(err) {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// renderErrorPartial writes an HTMX error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, alert templ.Component, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// HTMX discards non-2xx bodies unless told where to put them.
	w.Header().Set("HX-Retarget", "#alerts")
	w.Header().Set("HX-Reswap", "innerHTML")
	w.WriteHeader(status)
	if err := alert.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error alert", "error", err)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
