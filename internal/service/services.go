package service

import (
	"github.com/MKhiriev/go-data-vault/internal/config"
	"github.com/MKhiriev/go-data-vault/internal/crypto"
	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/internal/store"
	"github.com/MKhiriev/go-data-vault/internal/utils"
)

// Services is the facade the transport layer talks to. Every externally
// reachable operation of the engine lives on one of its three members.
type Services struct {
	SessionService SessionService
	UserService    UserService
	DataService    DataService
}

// NewServices wires the service layer on top of the storage layer.
func NewServices(storages *store.Storages, cfg *config.StructuredConfig, clock utils.Clock, log *logger.Logger) *Services {
	hasher := crypto.NewPasswordHasher()

	sessions := NewSessionService(storages.Credentials, hasher, clock, cfg.App, cfg.Security, log)

	return &Services{
		SessionService: sessions,
		UserService:    NewUserService(storages.Credentials, hasher, sessions, clock, cfg.Security, cfg.Bootstrap, log),
		DataService:    NewDataService(storages.Schema, storages.Dataset, clock, log),
	}
}
