// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// request ids, request-scoped logging, tracing, CORS, compression,
// security headers, rate limiting and panic recovery. The global error
// handler living here is the single exit for every failed request.
package middleware
