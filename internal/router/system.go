package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/baliblissed-backend/internal/handler"
	"github.com/deppfellow/baliblissed-backend/internal/server"
)

// registerSystemRoutes registers the endpoints that are not business logic:
// status, liveness, readiness and, outside production, the docs UI with
// its static assets.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/", h.Health.Root)
	r.GET("/health", h.Health.Liveness)
	r.GET("/ready", h.Health.Readiness)

	if s.Config.Primary.IsProduction() {
		return
	}

	r.StaticFS("/static", h.OpenAPI.Assets())
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
