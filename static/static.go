// Package static embeds the API documentation assets served at /docs and
// /static outside production.
package static

import "embed"

// FS holds openapi.html and openapi.json at its root.
//
//go:embed openapi.html openapi.json
var FS embed.FS
