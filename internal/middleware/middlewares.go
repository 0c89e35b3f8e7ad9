package middleware

import (
	"github.com/deppfellow/baliblissed-backend/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server.
type Middlewares struct {
	// Global holds middleware applied to every route plus the global
	// error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer stores a request-scoped logger on each request.
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware; it degrades to a no-op when
	// the agent is disabled.
	Tracing *TracingMiddleware

	// RateLimit enforces the per-client budget on /api routes.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components using the application
// container.
func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, s.LoggerService.GetApplication()),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
