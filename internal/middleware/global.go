package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/baliblissed-backend/internal/errs"
	"github.com/deppfellow/baliblissed-backend/internal/server"
	"github.com/deppfellow/baliblissed-backend/internal/validation"
)

// panicStackKey holds the stack of a recovered panic until the global
// error handler logs it.
const panicStackKey = "panic_stack"

var allowedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodOptions,
}

// GlobalMiddlewares groups "global" middleware and the global error handler.
// It keeps a pointer to *server.Server so every middleware can read config.
type GlobalMiddlewares struct {
	server *server.Server

	// now is swapped in tests.
	now func() time.Time
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
		now:    time.Now,
	}
}

// CORS allows the frontend origins with credentials.
//
// Request headers are reflected rather than answered with "*", which
// browsers ignore on credentialed requests. X-Request-ID is readable by
// browser clients.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     global.server.Config.Server.AllowedOrigins(),
		AllowMethods:     allowedMethods,
		AllowCredentials: true,
		ExposeHeaders:    []string{RequestIDHeader},
	})
}

// RequestLogger emits one access log line ("API") per request.
//
// Failures are reported by GlobalErrorHandler; this line only records
// what was served, so it stays at info level whatever the status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// The status is not written yet when the handler returned an
			// error; derive it the way GlobalErrorHandler will.
			// See https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				_, statusCode = classifiedStatus(v.Error)
			}

			GetLogger(c).Info().
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns panics into InternalFault responses. The stack is kept on
// the context and logged by GlobalErrorHandler together with the panic.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			c.Set(panicStackKey, string(stack))
			return errors.Wrap(err, "recovered from panic")
		},
	})
}

// Secure sets the standard browser hardening headers.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com; style-src 'self' 'unsafe-inline' https://unpkg.com; img-src 'self' data:",
	})
}

// Gzip compresses responses of at least 1000 bytes when the client accepts it.
func (global *GlobalMiddlewares) Gzip() echo.MiddlewareFunc {
	return middleware.GzipWithConfig(middleware.GzipConfig{
		MinLength: 1000,
	})
}

// BodyLimit rejects request bodies above Server.BodyLimit with 413.
func (global *GlobalMiddlewares) BodyLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(global.server.Config.Server.BodyLimit)
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every failure, whether returned by a handler, raised by the framework or
// recovered from a panic, is classified into exactly one category, logged
// once with the request-scoped logger and written as errs.ErrorResponse.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	httpErr := Classify(err)
	status, body := errs.NewErrorResponse(httpErr, global.now())

	logger := GetLogger(c)

	var event *zerolog.Event
	if httpErr.Category == errs.InternalFault {
		event = logger.Error().Stack()
	} else {
		event = logger.Warn()
	}

	if stack, ok := c.Get(panicStackKey).(string); ok {
		event = event.Str("panic_stack", stack)
	}

	event.
		Err(err).
		Str("category", string(httpErr.Category)).
		Int("status", status).
		Str("detail", httpErr.Detail).
		Msg(body.Error)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to write error response")
	}
}

// Classify maps any error onto the error taxonomy.
//
//   - *errs.HTTPError keeps its category.
//   - validation errors that escaped the request pipeline are ClientValidation.
//   - *echo.HTTPError (unknown route, bad method, oversized body, ...) is a
//     TransportError with the framework's status and text.
//   - anything else is an InternalFault; its text never reaches the client.
func Classify(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var fieldErrors validation.Errors
	if errors.As(err, &fieldErrors) {
		return errs.NewValidationError(fieldErrors.Error()).WithCause(err)
	}

	var fieldErr *validation.FieldError
	if errors.As(err, &fieldErr) {
		return errs.NewValidationError(fieldErr.Message).WithCause(err)
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return errs.NewTransportError(echoErr.Code, echoMessage(echoErr)).WithCause(err)
	}

	return errs.NewInternalError(err)
}

// classifiedStatus returns the category and the status GlobalErrorHandler
// will write for err.
func classifiedStatus(err error) (errs.Category, int) {
	httpErr := Classify(err)
	status, _ := errs.NewErrorResponse(httpErr, time.Time{})
	return httpErr.Category, status
}

func echoMessage(err *echo.HTTPError) string {
	switch msg := err.Message.(type) {
	case string:
		if msg != "" {
			return msg
		}
	case error:
		return msg.Error()
	case nil:
	default:
		return fmt.Sprint(msg)
	}
	return http.StatusText(err.Code)
}
