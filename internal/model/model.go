// Package model holds the request and response types of the API.
//
// Each request type has two forms:
//   - a Payload, the raw JSON shape decoded from the body;
//   - the validated request, built only through its New... constructor.
//
// Validated requests keep their fields unexported and hand out copies, so
// nothing downstream can change them after construction.
package model
