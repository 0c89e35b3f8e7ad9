package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deppfellow/baliblissed-backend/internal/model"
)

// Assistant produces the content of the three AI-backed endpoints.
//
// Implementations receive fully validated requests and must return either
// a response or an error; any error is reported to clients as an internal
// fault with a generic message.
type Assistant interface {
	SuggestItinerary(ctx context.Context, req model.ItineraryRequest) (model.ItineraryResponse, error)
	AnswerQuery(ctx context.Context, req model.QueryRequest) (model.QueryResponse, error)
	AnalyzeInquiry(ctx context.Context, req model.ContactInquiryRequest) (model.ContactAnalysisResponse, error)
}

// PlaceholderAssistant builds deterministic responses from the request
// fields alone. It performs no I/O.
type PlaceholderAssistant struct {
	logger *zerolog.Logger
}

// NewPlaceholderAssistant returns a PlaceholderAssistant. A nil logger
// disables its debug output.
func NewPlaceholderAssistant(logger *zerolog.Logger) *PlaceholderAssistant {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &PlaceholderAssistant{logger: logger}
}

var _ Assistant = (*PlaceholderAssistant)(nil)

func (a *PlaceholderAssistant) SuggestItinerary(ctx context.Context, req model.ItineraryRequest) (model.ItineraryResponse, error) {
	a.logger.Debug().
		Str("destination", req.Destination()).
		Int("duration", req.Duration()).
		Int("interests", len(req.Interests())).
		Msg("generating placeholder itinerary")

	itinerary := fmt.Sprintf(
		"### **Your Custom Itinerary for %s**\n\n"+
			"**Duration:** %d days\n"+
			"**Interests:** %s\n\n"+
			"This is a placeholder itinerary generated by the BaliBlissed backend. "+
			"Integrate a real AI model to get a complete suggestion.",
		req.Destination(),
		req.Duration(),
		strings.Join(req.Interests(), ", "),
	)

	return model.ItineraryResponse{Itinerary: itinerary}, nil
}

func (a *PlaceholderAssistant) AnswerQuery(ctx context.Context, req model.QueryRequest) (model.QueryResponse, error) {
	a.logger.Debug().
		Int("query_length", len(req.Query())).
		Int("history", req.HistoryLen()).
		Msg("generating placeholder answer")

	answer := fmt.Sprintf(
		"This is a placeholder answer from the BaliBlissed backend for your query: '%s'.\n"+
			"The chat history has %d messages.",
		req.Query(),
		req.HistoryLen(),
	)

	return model.QueryResponse{Answer: answer}, nil
}

func (a *PlaceholderAssistant) AnalyzeInquiry(ctx context.Context, req model.ContactInquiryRequest) (model.ContactAnalysisResponse, error) {
	a.logger.Debug().
		Int("message_length", len(req.Message())).
		Msg("generating placeholder inquiry analysis")

	return model.ContactAnalysisResponse{
		Analysis: model.ContactAnalysis{
			Summary:        fmt.Sprintf("A summary of the message from %s would go here.", req.Name()),
			Category:       "General Inquiry",
			SuggestedReply: "Thank you for contacting us! We will get back to you shortly.",
		},
	}, nil
}
