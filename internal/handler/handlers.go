package handler

import (
	"io/fs"

	"github.com/deppfellow/baliblissed-backend/internal/server"
	"github.com/deppfellow/baliblissed-backend/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so the router
// receives one object.
type Handlers struct {
	Health    *HealthHandler    // Root, liveness and readiness.
	OpenAPI   *OpenAPIHandler   // Docs UI, non-production only.
	Assistant *AssistantHandler // The /api endpoints.
}

// NewHandlers constructs the handler container. assets holds openapi.html
// and openapi.json.
func NewHandlers(s *server.Server, services *service.Services, assets fs.FS) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s, assets),
		Assistant: NewAssistantHandler(s, services.Assistant),
	}
}
