// Package validation contains the logic for sanitizing and validating
// request data.
//
// It is split in three layers:
//   - Sanitize strips denylisted characters from free text.
//   - Field validators (Destination, Duration, Interests, ...) are pure
//     functions returning the clean value or a *FieldError.
//   - BindAndValidate decodes the request body and hands it to a
//     constructor that composes the validators.
//
// Enum, range and email checks run through the `validator` library so the
// failure messages come from one tag-to-message table.
package validation
