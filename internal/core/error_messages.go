// Package core provides the business logic for the dataset manager.
//
// # Error Codes Reference
//
// This file maps technical errors to user-friendly messages with codes for
// support reference. Codes are grouped by category:
//
// # Schema and File Errors (SCH, CSV, FILE)
//
//	SCH001  - Required column missing: a required column has no matching header
//	          Action: Rename the column; the message lists the columns found
//	          Patterns: "missing required columns"
//
//	CSV001  - Invalid CSV: the file could not be parsed
//	          Action: Ensure the file is comma-separated with consistent columns
//	          Patterns: "invalid csv"
//
//	FILE001 - File too large
//	          Patterns: "file too large", "request body too large"
//
// # Request Errors (REQ)
//
//	REQ001  - Missing data: a required file or dataset was not sent
//	          Patterns: "are required", "is required"
//
//	REQ002  - Unsupported format: only CSV export is available
//	          Patterns: "unsupported format"
//
//	REQ003  - Invalid request: malformed body or option
//	          Patterns: "invalid request"
//
//	REQ004  - Request cancelled
//	          Patterns: "context canceled"
//
//	REQ005  - Request timed out
//	          Patterns: "context deadline exceeded"
//
// # Validation (VAL)
//
//	VAL001  - Export refused: strings rows fail cross-dataset validation
//	          Patterns: "data validation failed"
//
// # Storage (STO)
//
//	STO001  - File storage unavailable
//	          Patterns: "storage "
//
// # Rate Limiting (RATE)
//
//	RATE001 - Too many requests from this client
//	          Patterns: "rate limit"
//
//	RATE002 - Server busy
//	          Patterns: "too many concurrent requests"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check application logs for the
// original technical error.
//
// # Typed Errors
//
// SchemaError, ParseError, ValidationFailedError and StorageError map to
// their code by type. A RequestError is matched against its own Message
// using only the REQ patterns, falling back to REQ003. Keys, causes and
// other embedded text never change the code of a typed error.
//
// # Pattern Matching
//
// Other errors are matched case-insensitively using strings.Contains. The
// first match wins, so specific patterns come before general ones.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// Order matters: the first matching pattern wins.
var errorPatterns = []errorPattern{
	// Schema and file errors
	{
		pattern: "missing required columns",
		msg: UserMessage{
			Message: "Required column is missing from CSV",
			Action:  "Check the file headers against the columns listed in the error",
			Code:    "SCH001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent columns",
			Code:    "CSV001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},

	// Validation gate
	{
		pattern: "data validation failed",
		msg: UserMessage{
			Message: "Some strings rows do not match the classification catalog",
			Action:  "Fix the highlighted rows and export again",
			Code:    "VAL001",
		},
	},

	// Request shape
	{
		pattern: "unsupported format",
		msg: UserMessage{
			Message: "Only CSV export is supported",
			Action:  "Request format \"csv\"",
			Code:    "REQ002",
		},
	},
	{
		pattern: "are required",
		msg: UserMessage{
			Message: "Required data is missing from the request",
			Action:  "Provide both datasets and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "is required",
		msg: UserMessage{
			Message: "Required data is missing from the request",
			Action:  "Provide the requested dataset and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request was malformed",
			Action:  "Check the request body and try again",
			Code:    "REQ003",
		},
	},

	// Storage
	{
		pattern: "storage ",
		msg: UserMessage{
			Message: "File storage is unavailable",
			Action:  "Please try again in a few moments",
			Code:    "STO001",
		},
	},

	// Lifecycle
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ005",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "too many concurrent requests",
		msg: UserMessage{
			Message: "Server is busy processing other files",
			Action:  "Please wait a moment and try again",
			Code:    "RATE002",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the generic ERR000 message is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		schemaErr  *SchemaError
		parseErr   *ParseError
		gateErr    *ValidationFailedError
		storageErr *StorageError
		requestErr *RequestError
	)
	switch {
	case errors.As(err, &gateErr):
		return messageFor("VAL001")
	case errors.As(err, &schemaErr):
		return messageFor("SCH001")
	case errors.As(err, &parseErr):
		return messageFor("CSV001")
	case errors.As(err, &storageErr):
		return messageFor("STO001")
	case errors.As(err, &requestErr):
		if msg, ok := matchPattern(requestErr.Message, "REQ"); ok {
			return msg
		}
		return messageFor("REQ003")
	}

	if msg, ok := matchPattern(err.Error(), ""); ok {
		return msg
	}
	return defaultMessage
}

// matchPattern returns the first pattern found in text whose code starts
// with codePrefix.
func matchPattern(text, codePrefix string) (UserMessage, bool) {
	text = strings.ToLower(text)
	for _, ep := range errorPatterns {
		if strings.HasPrefix(ep.msg.Code, codePrefix) && strings.Contains(text, ep.pattern) {
			return ep.msg, true
		}
	}
	return UserMessage{}, false
}

func messageFor(code string) UserMessage {
	for _, ep := range errorPatterns {
		if ep.msg.Code == code {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError formats an error as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern, meaning its
// text is safe and useful to show to the user.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
