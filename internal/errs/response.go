package errs

import (
	"net/http"
	"time"
)

// ErrorResponse is the canonical body of every failed request.
//
// Example:
//
//	{ "error": "Validation Error", "detail": "Duration must not exceed 365", "timestamp": "2025-01-01T00:00:00Z" }
type ErrorResponse struct {
	Error     string  `json:"error"`
	Detail    *string `json:"detail"`
	Timestamp string  `json:"timestamp"`
}

// Timestamp formats t as an ISO-8601 UTC timestamp.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// NewErrorResponse renders e into the uniform response shape and returns it
// together with the status code to write.
//
// This is the only place that decides what a client sees per category.
// Statuses outside the category's class are clamped and an internal fault
// without a detail falls back to DefaultErrorMessage.
func NewErrorResponse(e *HTTPError, now time.Time) (int, ErrorResponse) {
	var (
		status = e.Status
		detail = e.Detail
	)

	switch e.Category {
	case ClientValidation:
		if status < 400 || status > 499 {
			status = http.StatusBadRequest
		}

	case TransportError:
		if status < 400 || status > 599 {
			status = http.StatusBadRequest
		}

	default:
		if status < 500 || status > 599 {
			status = http.StatusInternalServerError
		}
		if detail == "" {
			detail = DefaultErrorMessage
		}
	}

	resp := ErrorResponse{
		Error:     (&HTTPError{Category: e.Category, Status: status}).Label(),
		Timestamp: Timestamp(now),
	}
	if detail != "" {
		resp.Detail = &detail
	}

	return status, resp
}
