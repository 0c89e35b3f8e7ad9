// Package errs defines the error taxonomy of the API and the single
// function that renders it.
//
// Every failure reaching a client belongs to exactly one Category:
//   - ClientValidation: a request field violated a constraint.
//   - TransportError: the framework rejected the request before validation
//     (malformed JSON, unknown route, wrong method, rate limit, ...).
//   - InternalFault: anything unexpected while handling the request.
//
// Whatever the category, clients receive the same ErrorResponse shape.
package errs

// Category is the closed set of failure kinds an HTTPError can carry.
type Category string

const (
	ClientValidation Category = "client_validation"
	TransportError   Category = "transport_error"
	InternalFault    Category = "internal_fault"
)

// DefaultErrorMessage is the detail sent for internal faults that have no
// operation-specific message. The real cause is only logged.
const DefaultErrorMessage = "An unexpected server error occurred."
