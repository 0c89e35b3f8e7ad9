package errs

import (
	"fmt"
	"net/http"
)

// HTTPError is the main custom error type for API responses.
//
// Fields:
//   - Category: which branch of the taxonomy the failure belongs to.
//   - Status: HTTP status code written to the client.
//   - Detail: client-facing message. For InternalFault it is always a fixed
//     generic string.
//   - cause: the underlying error, kept for logs and errors.Is/As only.
type HTTPError struct {
	Category Category
	Status   int
	Detail   string

	cause error
}

// Error returns the client-facing detail, prefixed by the label.
func (e *HTTPError) Error() string {
	return e.Label() + ": " + e.Detail
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is reports whether target is also an *HTTPError of the same category.
// A target with an empty Category matches any HTTPError.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return t.Category == "" || t.Category == e.Category
}

// WithCause returns a copy of e that wraps cause.
func (e *HTTPError) WithCause(cause error) *HTTPError {
	return &HTTPError{
		Category: e.Category,
		Status:   e.Status,
		Detail:   e.Detail,
		cause:    cause,
	}
}

// WithDetail returns a copy of e with Detail replaced.
func (e *HTTPError) WithDetail(detail string) *HTTPError {
	return &HTTPError{
		Category: e.Category,
		Status:   e.Status,
		Detail:   detail,
		cause:    e.cause,
	}
}

// Label is the value of the "error" field in the response body.
func (e *HTTPError) Label() string {
	switch e.Category {
	case ClientValidation:
		return "Validation Error"
	case TransportError:
		return fmt.Sprintf("HTTP %d Error", e.Status)
	default:
		return http.StatusText(http.StatusInternalServerError)
	}
}
