package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Field constraints shared by the request constructors.
const (
	MaxDestinationLength = 100
	MinTripDuration      = 1
	MaxTripDuration      = 365
	MaxInterestsCount    = 20
	MaxInterestLength    = 50
	MaxQueryLength       = 1000
	MaxHistoryLength     = 50
	MaxNameLength        = 100
	MinMessageLength     = 10
	MaxMessageLength     = 2000
)

// AllowedRoles lists the chat roles in the order they are reported to clients.
var AllowedRoles = []string{"user", "assistant", "system"}

// validate is safe for concurrent use; it caches nothing per request.
var validate = validator.New()

// Destination validates and sanitizes a travel destination.
func Destination(raw string) (string, *FieldError) {
	return sanitizedText("destination", "Destination", raw, MaxDestinationLength)
}

// Query validates and sanitizes a user query.
func Query(raw string) (string, *FieldError) {
	return sanitizedText("query", "Query", raw, MaxQueryLength)
}

// Name validates and sanitizes the sender name of a contact inquiry.
func Name(raw string) (string, *FieldError) {
	return sanitizedText("name", "Name", raw, MaxNameLength)
}

// Duration checks that a trip duration is present, is a whole number and
// lies within [MinTripDuration, MaxTripDuration].
//
// raw is the decoded JSON value. Integral numbers such as 7.0 and numeric
// strings such as "7" are accepted; fractions, booleans, arrays and objects
// are not.
func Duration(raw any) (int, *FieldError) {
	if raw == nil {
		return 0, fieldError("duration", "Duration is required")
	}

	days, ok := wholeNumber(raw)
	if !ok {
		return 0, fieldError("duration", "Duration must be a whole number")
	}

	tag := fmt.Sprintf("min=%d,max=%d", MinTripDuration, MaxTripDuration)
	if fe := checkVar("duration", "Duration", days, tag); fe != nil {
		return 0, fe
	}

	return days, nil
}

// maxWholeNumber bounds conversions so huge inputs still fail the range
// check instead of overflowing int.
const maxWholeNumber = 1 << 31

func wholeNumber(raw any) (int, bool) {
	var f float64

	switch v := raw.(type) {
	case int:
		return v, true
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}

	return int(max(min(f, maxWholeNumber), -maxWholeNumber)), true
}

// Interests sanitizes each entry, truncates it to MaxInterestLength
// characters and drops entries that end up empty. The filtered list keeps
// the original order and is cut to the first MaxInterestsCount entries.
func Interests(raw []string) ([]string, *FieldError) {
	if len(raw) == 0 {
		return nil, fieldError("interests", "At least one interest must be provided")
	}

	interests := make([]string, 0, min(len(raw), MaxInterestsCount))
	for _, entry := range raw {
		cleaned := truncate(Sanitize(entry, DenyMarkupAndQuotes), MaxInterestLength)
		if cleaned == "" {
			continue
		}

		interests = append(interests, cleaned)
		if len(interests) == MaxInterestsCount {
			break
		}
	}

	if len(interests) == 0 {
		return nil, fieldError("interests", "At least one valid interest must be provided")
	}

	return interests, nil
}

// History checks the number of chat messages sent along with a query.
func History[T any](history []T) *FieldError {
	return checkVar("history", "History", history, fmt.Sprintf("max=%d", MaxHistoryLength))
}

// Parts checks that a chat message carries a parts list. An empty list is
// allowed; a missing one is not.
func Parts(field string, parts []map[string]string) *FieldError {
	return checkVar(field, "Parts", parts, "required")
}

// Role checks that a chat role is exactly one of AllowedRoles.
// Matching is case-sensitive and values are not coerced.
func Role(field, raw string) (string, *FieldError) {
	tag := "oneof=" + strings.Join(AllowedRoles, " ")
	if fe := checkVar(field, "Role", raw, tag); fe != nil {
		return "", fe
	}
	return raw, nil
}

// Email checks that raw is a syntactically valid address: local@domain,
// at least one dot in the domain and no whitespace anywhere.
func Email(raw string) (string, *FieldError) {
	if fe := checkVar("email", "Email", raw, "required,email"); fe != nil {
		return "", fe
	}

	invalid := fieldError("email", "Email must be a valid email address")

	if strings.IndexFunc(raw, unicode.IsSpace) >= 0 {
		return "", invalid
	}

	at := strings.LastIndex(raw, "@")
	if at <= 0 {
		return "", invalid
	}

	domain := raw[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return "", invalid
	}

	return raw, nil
}

// Message validates and sanitizes the body of a contact inquiry.
// Only angle brackets are stripped.
func Message(raw string) (string, *FieldError) {
	if strings.TrimSpace(raw) == "" {
		return "", fieldError("message", "Message cannot be empty")
	}

	sanitized := Sanitize(raw, DenyMarkup)
	length := utf8.RuneCountInString(sanitized)

	if length < MinMessageLength {
		return "", fieldError("message",
			fmt.Sprintf("Message must be at least %d characters long", MinMessageLength))
	}

	if length > MaxMessageLength {
		return "", fieldError("message",
			fmt.Sprintf("Message must not exceed %d characters", MaxMessageLength))
	}

	return sanitized, nil
}

func sanitizedText(field, label, raw string, maxLength int) (string, *FieldError) {
	if strings.TrimSpace(raw) == "" {
		return "", fieldError(field, label+" cannot be empty")
	}

	sanitized := Sanitize(raw, DenyMarkupAndQuotes)
	if sanitized == "" {
		return "", fieldError(field, label+" must contain valid characters")
	}

	if utf8.RuneCountInString(sanitized) > maxLength {
		return "", fieldError(field, fmt.Sprintf("%s must not exceed %d characters", label, maxLength))
	}

	return sanitized, nil
}

func truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	return string([]rune(s)[:maxRunes])
}

// checkVar runs a single validator tag against value and turns the first
// failure into a FieldError whose message starts with label.
func checkVar(field, label string, value any, tag string) *FieldError {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return fieldError(field, label+" is invalid")
	}

	return fieldError(field, label+" "+describe(validationErrors[0]))
}

// describe converts a validator failure into the predicate half of a
// user-friendly message.
func describe(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"

	case "min":
		switch err.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", err.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must contain at least %s items", err.Param())
		default:
			return fmt.Sprintf("must be at least %s", err.Param())
		}

	case "max":
		switch err.Kind() {
		case reflect.String:
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must not contain more than %s items", err.Param())
		default:
			return fmt.Sprintf("must not exceed %s", err.Param())
		}

	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(err.Param()), ", ")

	case "email":
		return "must be a valid email address"

	default:
		if err.Param() != "" {
			return fmt.Sprintf("failed the %s=%s check", err.Tag(), err.Param())
		}
		return fmt.Sprintf("failed the %s check", err.Tag())
	}
}
