package validation

import (
	"strings"
)

// FieldError represents a single validation issue for a specific field.
//
// Message is a complete, human-readable sentence naming the violated
// constraint (e.g. "Message must be at least 10 characters long").
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f *FieldError) Error() string {
	return f.Message
}

// Errors collects every field failure found while constructing one request.
//
// It satisfies error so constructors can return it directly; an empty
// Errors is never returned as an error (see Err).
type Errors []FieldError

// Error joins all messages in field order, separated by "; ".
func (e Errors) Error() string {
	if len(e) == 0 {
		return "Validation failed"
	}

	messages := make([]string, 0, len(e))
	for _, fe := range e {
		messages = append(messages, fe.Message)
	}

	return strings.Join(messages, "; ")
}

// Add appends fe when it is non-nil.
func (e *Errors) Add(fe *FieldError) {
	if fe != nil {
		*e = append(*e, *fe)
	}
}

// Has reports whether at least one failure was recorded for field.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Err returns e as an error, or nil when nothing failed.
//
// Returning a nil Errors typed as error would produce a non-nil interface,
// so constructors always go through Err.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func fieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}
