// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"net"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/baliblissed-backend/internal/config"
	"github.com/deppfellow/baliblissed-backend/internal/handler"
	"github.com/deppfellow/baliblissed-backend/internal/middleware"
	"github.com/deppfellow/baliblissed-backend/internal/server"
)

// NewRouter builds the Echo instance with global middleware, the error
// handler and every route.
//
// Middleware order matters:
//  1. RequestID first, so everything after it can correlate.
//  2. New Relic transaction, then the attributes that need it.
//  3. ContextEnhancer builds the request logger used by all later layers
//     and by GlobalErrorHandler.
//  4. RequestLogger wraps Recover, so recovered panics are still logged
//     with their final status.
//  5. CORS, Secure, Gzip and BodyLimit shape the response.
func NewRouter(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = m.Global.GlobalErrorHandler
	router.IPExtractor = ipExtractor(s.Config.Server)

	router.Use(
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		m.Global.Recover(),
		m.Global.CORS(),
		m.Global.Secure(),
		m.Global.Gzip(),
		m.Global.BodyLimit(),
	)

	registerSystemRoutes(router, s, h)
	registerAPIRoutes(router, h, m)

	return router
}

// ipExtractor decides what c.RealIP() reports, which keys the rate limiter.
//
// Without trusted proxies the peer address is used and forwarding headers
// are ignored. With them, X-Forwarded-For is walked from the right and the
// first hop outside the trusted ranges is the client.
func ipExtractor(cfg config.ServerConfig) echo.IPExtractor {
	if len(cfg.TrustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range cfg.TrustedProxies {
		// Validated by config.LoadConfig.
		if _, ipNet, err := net.ParseCIDR(cidr); err == nil {
			options = append(options, echo.TrustIPRange(ipNet))
		}
	}

	return echo.ExtractIPFromXFFHeader(options...)
}
