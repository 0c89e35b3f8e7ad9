package errs

import (
	"net/http"
)

// NewValidationError creates a 400 ClientValidation error.
//
// detail should name every violated constraint; it is sent to the client
// unchanged.
func NewValidationError(detail string) *HTTPError {
	return &HTTPError{
		Category: ClientValidation,
		Status:   http.StatusBadRequest,
		Detail:   detail,
	}
}

// NewTransportError creates a TransportError carrying the framework's status
// code and its own detail text.
func NewTransportError(status int, detail string) *HTTPError {
	if detail == "" {
		detail = http.StatusText(status)
	}

	return &HTTPError{
		Category: TransportError,
		Status:   status,
		Detail:   detail,
	}
}

// NewNotFoundError creates a 404 TransportError for unknown routes.
func NewNotFoundError() *HTTPError {
	return NewTransportError(http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

// NewTooManyRequestsError creates a 429 TransportError for rate-limited clients.
func NewTooManyRequestsError() *HTTPError {
	return NewTransportError(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
}

// NewInternalError creates a 500 InternalFault around cause.
//
// The detail is always DefaultErrorMessage; the cause never reaches the client.
func NewInternalError(cause error) *HTTPError {
	return &HTTPError{
		Category: InternalFault,
		Status:   http.StatusInternalServerError,
		Detail:   DefaultErrorMessage,
		cause:    cause,
	}
}

// NewOperationError creates a 500 InternalFault with a fixed, operation
// specific detail such as "Failed to generate itinerary.".
func NewOperationError(detail string, cause error) *HTTPError {
	return NewInternalError(cause).WithDetail(detail)
}
