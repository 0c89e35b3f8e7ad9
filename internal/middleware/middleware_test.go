package middleware

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/baliblissed-backend/internal/config"
	"github.com/deppfellow/baliblissed-backend/internal/server"
)

// newTestServer returns a development Server whose logs go to the returned
// buffer as JSON lines.
func newTestServer(t *testing.T) (*server.Server, *bytes.Buffer) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Integration.GeminiAPIKey = "test-key"

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	return s, &buf
}
