package validation

import (
	"regexp"
	"strings"
)

var (
	// DenyMarkupAndQuotes is the denylist for short free-text fields
	// (destination, interests, query, name).
	DenyMarkupAndQuotes = regexp.MustCompile(`[<>"']`)

	// DenyMarkup is the denylist for the contact message. Quotes are kept so
	// natural language survives.
	DenyMarkup = regexp.MustCompile(`[<>]`)
)

// Sanitize trims text, removes every character matched by deny and trims
// again.
//
// It never fails: if everything is stripped the result is "" and callers
// are expected to re-check length. The second trim keeps the function
// idempotent when a stripped character sat next to whitespace
// (e.g. "< Bali" -> "Bali").
func Sanitize(text string, deny *regexp.Regexp) string {
	cleaned := deny.ReplaceAllString(strings.TrimSpace(text), "")
	return strings.TrimSpace(cleaned)
}
