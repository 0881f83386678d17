package store

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/models"
)

// schemaContainer is the persisted shape of the schema container.
type schemaContainer struct {
	Schema models.Schema `json:"schema"`
}

// schemaStore is the container-backed implementation of [SchemaStore].
// A missing container reads as an empty schema: unlike credentials, an
// installation legitimately starts with no schema defined.
type schemaStore struct {
	containers *ContainerStore
	file       string
	logger     *logger.Logger

	mu sync.RWMutex
}

// NewSchemaStore constructs a [SchemaStore] persisting into the named
// container file.
func NewSchemaStore(containers *ContainerStore, file string, log *logger.Logger) SchemaStore {
	log.Debug().Str("file", file).Msg("creating schema store")
	return &schemaStore{
		containers: containers,
		file:       file,
		logger:     log,
	}
}

func (s *schemaStore) Load(ctx context.Context) (models.Schema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var container schemaContainer
	err := s.containers.Load(s.file, &container)
	if errors.Is(err, ErrContainerNotFound) {
		return models.Schema{}, nil
	}
	if err != nil {
		return models.Schema{}, err
	}

	return container.Schema, nil
}

func (s *schemaStore) Save(ctx context.Context, schema models.Schema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containers.Save(s.file, schemaContainer{Schema: schema})
}
