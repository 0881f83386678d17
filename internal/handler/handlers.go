package handler

import (
	"github.com/MKhiriev/go-data-vault/internal/handler/http"
	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/internal/service"
)

// Handlers groups the transport handlers of the engine. Only HTTP is wired;
// the aggregate keeps a place for future transports.
type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, logger *logger.Logger) *Handlers {
	logger.Info().Msg("creating new handlers...")

	return &Handlers{
		HTTP: http.NewHandler(services, logger),
	}
}
