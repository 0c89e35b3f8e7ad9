package model

import (
	"slices"

	"github.com/deppfellow/baliblissed-backend/internal/validation"
)

// ItineraryPayload is the body of POST /api/suggest-itinerary.
//
// Duration is decoded loosely so that a non-integer value is reported as a
// field violation rather than a decoding failure.
type ItineraryPayload struct {
	Destination string   `json:"destination"`
	Duration    any      `json:"duration"`
	Interests   []string `json:"interests"`
}

// ItineraryRequest is a validated itinerary request.
type ItineraryRequest struct {
	destination string
	duration    int
	interests   []string
}

// NewItineraryRequest sanitizes and validates p.
//
// All fields are checked; the returned error is a validation.Errors listing
// every failure.
func NewItineraryRequest(p ItineraryPayload) (ItineraryRequest, error) {
	var fieldErrors validation.Errors

	destination, fe := validation.Destination(p.Destination)
	fieldErrors.Add(fe)

	duration, fe := validation.Duration(p.Duration)
	fieldErrors.Add(fe)

	interests, fe := validation.Interests(p.Interests)
	fieldErrors.Add(fe)

	if err := fieldErrors.Err(); err != nil {
		return ItineraryRequest{}, err
	}

	return ItineraryRequest{
		destination: destination,
		duration:    duration,
		interests:   interests,
	}, nil
}

func (r ItineraryRequest) Destination() string { return r.destination }

// Duration is the trip length in days.
func (r ItineraryRequest) Duration() int { return r.duration }

// Interests returns a copy of the sanitized interests in their original order.
func (r ItineraryRequest) Interests() []string { return slices.Clone(r.interests) }

// ItineraryResponse is returned by POST /api/suggest-itinerary.
type ItineraryResponse struct {
	Itinerary string `json:"itinerary"`
}
