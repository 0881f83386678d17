package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-data-vault/internal/config"
	"github.com/MKhiriev/go-data-vault/internal/crypto"
	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/internal/utils"
)

// Storages aggregates every persistence backend of the engine: the encrypted
// containers and the relational record store.
type Storages struct {
	Containers  *ContainerStore
	Credentials UserCredentials
	Schema      SchemaStore
	Dataset     DatasetRepository
	DB          *DB
}

// NewStorages opens and wires the full storage layer: unlocks the container
// store with the master passphrase, connects the configured relational
// engine, runs migrations, and builds the typed stores on top.
func NewStorages(ctx context.Context, cfg config.Storage, masterPassphrase string, vault crypto.Vault, clock utils.Clock, log *logger.Logger) (*Storages, error) {
	containers := NewContainerStore(cfg.Containers, vault, log)
	if err := containers.Unlock(masterPassphrase); err != nil {
		return nil, fmt.Errorf("unlocking container store failed: %w", err)
	}

	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connecting relational store failed: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migrating relational store failed: %w", err)
	}

	return &Storages{
		Containers:  containers,
		Credentials: NewCredentialStore(containers, cfg.Containers.UsersFile, log),
		Schema:      NewSchemaStore(containers, cfg.Containers.SchemaFile, log),
		Dataset:     NewDatasetRepository(db, containers, clock, log),
		DB:          db,
	}, nil
}
