package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/baliblissed-backend/internal/handler"
	"github.com/deppfellow/baliblissed-backend/internal/middleware"
)

// registerAPIRoutes mounts the assistant endpoints under /api behind the
// per-client rate limit.
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	api := r.Group("/api", m.RateLimit.Limit())

	api.POST("/suggest-itinerary", h.Assistant.SuggestItinerary())
	api.POST("/answer-query", h.Assistant.AnswerQuery())
	api.POST("/handle-contact-inquiry", h.Assistant.HandleContactInquiry())
}
