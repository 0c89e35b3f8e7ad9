package validation

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deppfellow/baliblissed-backend/internal/errs"
)

// Constructor turns a decoded payload into a validated request.
//
// Constructors compose the field validators of this package and return
// Errors (wrapped as error) when at least one field fails.
type Constructor[P any, Req any] func(payload P) (Req, error)

// BindAndValidate decodes the request body into a fresh P and builds the
// validated request from it.
//
// Flow:
//  1. c.Bind fills a zero P from the body. A malformed body, a type
//     mismatch or an unsupported content type is a transport error and
//     keeps the framework's status code and text.
//  2. build composes sanitizers and validators. Any failure is a client
//     validation error whose detail lists every violated constraint.
//
// A new payload is allocated per call so concurrent requests never share
// decoding state.
func BindAndValidate[P any, Req any](c echo.Context, build Constructor[P, Req]) (Req, error) {
	var (
		payload P
		zero    Req
	)

	if err := c.Bind(&payload); err != nil {
		return zero, bindError(err)
	}

	req, err := build(payload)
	if err != nil {
		var fieldErrors Errors
		if errors.As(err, &fieldErrors) {
			return zero, errs.NewValidationError(fieldErrors.Error())
		}

		var fieldErr *FieldError
		if errors.As(err, &fieldErr) {
			return zero, errs.NewValidationError(fieldErr.Message)
		}

		return zero, errors.Wrap(err, "failed to construct request")
	}

	return req, nil
}

// bindError converts an echo binding failure into a transport error.
func bindError(err error) *errs.HTTPError {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		message, ok := echoErr.Message.(string)
		if !ok || message == "" {
			message = http.StatusText(echoErr.Code)
		}
		return errs.NewTransportError(echoErr.Code, message).WithCause(err)
	}

	return errs.NewTransportError(http.StatusBadRequest, "Invalid request body").WithCause(err)
}
