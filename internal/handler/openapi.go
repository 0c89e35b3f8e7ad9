package handler

import (
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deppfellow/baliblissed-backend/internal/server"
)

// OpenAPIHandler serves the OpenAPI UI (openapi.html), which loads
// openapi.json from /static.
type OpenAPIHandler struct {
	Handler
	assets fs.FS
}

// NewOpenAPIHandler constructs an OpenAPIHandler reading from assets.
func NewOpenAPIHandler(s *server.Server, assets fs.FS) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		assets:  assets,
	}
}

// ServeOpenAPIUI serves openapi.html uncached, so docs updates show up
// immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := fs.ReadFile(h.assets, "openapi.html")

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return errors.Wrap(err, "failed to read OpenAPI UI template")
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return errors.Wrap(err, "failed to write HTML response")
	}

	return nil
}

// Assets returns the filesystem served under /static.
func (h *OpenAPIHandler) Assets() fs.FS {
	return h.assets
}
