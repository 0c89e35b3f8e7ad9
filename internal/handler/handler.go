// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It decodes requests, builds validated request objects through the
// validation and model packages, and calls the service layer. A handler
// never sees an invalid request.
package handler
