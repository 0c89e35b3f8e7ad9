package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/baliblissed-backend/internal/config"
	"github.com/deppfellow/baliblissed-backend/internal/errs"
	"github.com/deppfellow/baliblissed-backend/internal/middleware"
	"github.com/deppfellow/baliblissed-backend/internal/server"
)

// WelcomeMessage is returned by the root endpoint.
const WelcomeMessage = "Welcome to the BaliBlissed AI Backend!"

// StatusResponse is the body of the root endpoint.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// LivenessResponse is the body of GET /health.
type LivenessResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ReadinessResponse is the body of GET /ready.
type ReadinessResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HealthHandler serves the system endpoints used by load balancers and
// uptime monitors. None of them depend on request input.
type HealthHandler struct {
	Handler

	now func() time.Time
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		now:     time.Now,
	}
}

// Root confirms the service is reachable.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{
		Status:  "ok",
		Message: WelcomeMessage,
	})
}

// Liveness reports that the process is up. It stays healthy while draining.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, LivenessResponse{
		Status:    "healthy",
		Timestamp: errs.Timestamp(h.now()),
		Version:   config.Version,
	})
}

// Readiness reports whether new traffic should be routed here.
//
// It returns 503 once graceful shutdown has started.
func (h *HealthHandler) Readiness(c echo.Context) error {
	timestamp := errs.Timestamp(h.now())

	if !h.server.Ready() {
		middleware.GetLogger(c).Warn().
			Str("operation", "readiness_check").
			Msg("readiness check failed: server is draining")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("ReadinessCheckFailed", map[string]interface{}{
				"operation": "readiness_check",
				"reason":    "draining",
			})
		}

		return c.JSON(http.StatusServiceUnavailable, ReadinessResponse{
			Status:    "not_ready",
			Timestamp: timestamp,
		})
	}

	return c.JSON(http.StatusOK, ReadinessResponse{
		Status:    "ready",
		Timestamp: timestamp,
	})
}
