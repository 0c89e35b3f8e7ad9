package service

import (
	"github.com/deppfellow/baliblissed-backend/internal/server"
)

// Services is the container of every business service.
type Services struct {
	Assistant Assistant
}

// NewServices wires the default implementations.
//
// The placeholder assistant needs nothing from s today; a generation
// backend would read its credentials from s.Config.Integration here.
func NewServices(s *server.Server) *Services {
	return &Services{
		Assistant: NewPlaceholderAssistant(s.Logger),
	}
}
