//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

package store

import (
	"context"

	"github.com/MKhiriev/go-data-vault/models"
)

// UserCredentials persists the full user collection as one encrypted
// container. Load and Save are idempotent; Update serializes concurrent
// read-modify-write cycles internally so callers never lose updates.
type UserCredentials interface {
	Exists(ctx context.Context) bool
	Load(ctx context.Context) (map[string]models.User, error)
	Save(ctx context.Context, users map[string]models.User) error
	Update(ctx context.Context, fn func(users map[string]models.User) error) error
}

// SchemaStore persists the administrator-defined schema as an encrypted
// container, independent of the credential container.
type SchemaStore interface {
	Load(ctx context.Context) (models.Schema, error)
	Save(ctx context.Context, schema models.Schema) error
}

// DatasetRepository is the data-access layer for the relational record
// store. Multi-record mutations are transactional: a failure at any step
// rolls the whole mutation back.
type DatasetRepository interface {
	AddRecord(ctx context.Context, record models.DataRecord, updatedBy string) (models.StoredRecord, error)
	UpdateRecord(ctx context.Context, id int64, record models.DataRecord, updatedBy string) error
	DeleteRecord(ctx context.Context, id int64, updatedBy string) error
	ReplaceAll(ctx context.Context, records []models.DataRecord, updatedBy string) (int, error)
	GetPage(ctx context.Context, page, pageSize int) (models.Page, error)
	Metadata(ctx context.Context) (models.DatasetMetadata, error)
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying. Each engine ships its own implementation.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
