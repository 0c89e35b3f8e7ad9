package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/baliblissed-backend/internal/errs"
	"github.com/deppfellow/baliblissed-backend/internal/model"
	"github.com/deppfellow/baliblissed-backend/internal/server"
	"github.com/deppfellow/baliblissed-backend/internal/service"
)

// AssistantHandler serves the three AI-backed endpoints under /api.
type AssistantHandler struct {
	Handler
	assistant service.Assistant
}

func NewAssistantHandler(s *server.Server, assistant service.Assistant) *AssistantHandler {
	return &AssistantHandler{
		Handler:   NewHandler(s),
		assistant: assistant,
	}
}

// SuggestItinerary handles POST /api/suggest-itinerary.
func (h *AssistantHandler) SuggestItinerary() echo.HandlerFunc {
	return Handle(h.Handler, model.NewItineraryRequest,
		func(c echo.Context, req model.ItineraryRequest) (model.ItineraryResponse, error) {
			res, err := h.assistant.SuggestItinerary(c.Request().Context(), req)
			if err != nil {
				return model.ItineraryResponse{}, errs.NewOperationError("Failed to generate itinerary.", err)
			}
			return res, nil
		}, http.StatusOK)
}

// AnswerQuery handles POST /api/answer-query.
func (h *AssistantHandler) AnswerQuery() echo.HandlerFunc {
	return Handle(h.Handler, model.NewQueryRequest,
		func(c echo.Context, req model.QueryRequest) (model.QueryResponse, error) {
			res, err := h.assistant.AnswerQuery(c.Request().Context(), req)
			if err != nil {
				return model.QueryResponse{}, errs.NewOperationError("Failed to process query.", err)
			}
			return res, nil
		}, http.StatusOK)
}

// HandleContactInquiry handles POST /api/handle-contact-inquiry.
func (h *AssistantHandler) HandleContactInquiry() echo.HandlerFunc {
	return Handle(h.Handler, model.NewContactInquiryRequest,
		func(c echo.Context, req model.ContactInquiryRequest) (model.ContactAnalysisResponse, error) {
			res, err := h.assistant.AnalyzeInquiry(c.Request().Context(), req)
			if err != nil {
				return model.ContactAnalysisResponse{}, errs.NewOperationError("Failed to process contact inquiry.", err)
			}
			return res, nil
		}, http.StatusOK)
}
