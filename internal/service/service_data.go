package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/internal/store"
	"github.com/MKhiriev/go-data-vault/internal/utils"
	"github.com/MKhiriev/go-data-vault/internal/validators"
	"github.com/MKhiriev/go-data-vault/models"
)

// dataService is the concrete implementation of DataService. Lock order is
// fixed: the schema is always read before the record store is touched, so a
// concurrent schema change and record mutation cannot deadlock.
type dataService struct {
	schema  store.SchemaStore
	dataset store.DatasetRepository
	clock   utils.Clock
	logger  *logger.Logger
}

// NewDataService constructs a DataService.
func NewDataService(schema store.SchemaStore, dataset store.DatasetRepository, clock utils.Clock, log *logger.Logger) DataService {
	return &dataService{
		schema:  schema,
		dataset: dataset,
		clock:   clock,
		logger:  log,
	}
}

// UpdateSchema implements DataService.
func (d *dataService) UpdateSchema(ctx context.Context, actor models.Session, schema models.Schema) error {
	if err := Authorize(SubjectOf(actor), models.OpModifySchema, nil); err != nil {
		return d.denied(actor, models.OpModifySchema, err)
	}
	if err := validators.ValidateSchema(schema); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	now := d.clock.Now()
	schema.LastModified = &now
	schema.ModifiedBy = actor.Email

	if err := d.schema.Save(ctx, schema); err != nil {
		return fmt.Errorf("schema update failed: %w", err)
	}

	d.logger.Info().Str("modified_by", actor.Email).Int("columns", len(schema.Columns)).Msg("schema updated")
	return nil
}

// GetSchema implements DataService.
func (d *dataService) GetSchema(ctx context.Context, actor models.Session) (models.Schema, error) {
	if err := Authorize(SubjectOf(actor), models.OpReadData, nil); err != nil {
		return models.Schema{}, d.denied(actor, models.OpReadData, err)
	}
	return d.schema.Load(ctx)
}

// AddRecord implements DataService.
func (d *dataService) AddRecord(ctx context.Context, actor models.Session, record models.DataRecord) (models.StoredRecord, error) {
	if err := Authorize(SubjectOf(actor), models.OpModifyData, nil); err != nil {
		return models.StoredRecord{}, d.denied(actor, models.OpModifyData, err)
	}

	if err := d.validateAgainstSchema(ctx, record); err != nil {
		return models.StoredRecord{}, err
	}

	stored, err := d.dataset.AddRecord(ctx, record, actor.Email)
	if err != nil {
		return models.StoredRecord{}, fmt.Errorf("adding record failed: %w", err)
	}
	return stored, nil
}

// UpdateRecord implements DataService.
func (d *dataService) UpdateRecord(ctx context.Context, actor models.Session, id int64, record models.DataRecord) error {
	if err := Authorize(SubjectOf(actor), models.OpModifyData, nil); err != nil {
		return d.denied(actor, models.OpModifyData, err)
	}

	if err := d.validateAgainstSchema(ctx, record); err != nil {
		return err
	}

	if err := d.dataset.UpdateRecord(ctx, id, record, actor.Email); err != nil {
		return fmt.Errorf("updating record %d failed: %w", id, err)
	}
	return nil
}

// DeleteRecord implements DataService.
func (d *dataService) DeleteRecord(ctx context.Context, actor models.Session, id int64) error {
	if err := Authorize(SubjectOf(actor), models.OpModifyData, nil); err != nil {
		return d.denied(actor, models.OpModifyData, err)
	}

	if err := d.dataset.DeleteRecord(ctx, id, actor.Email); err != nil {
		return fmt.Errorf("deleting record %d failed: %w", id, err)
	}
	return nil
}

// GetData implements DataService.
func (d *dataService) GetData(ctx context.Context, actor models.Session, page, pageSize int) (models.Page, error) {
	if err := Authorize(SubjectOf(actor), models.OpReadData, nil); err != nil {
		return models.Page{}, d.denied(actor, models.OpReadData, err)
	}
	return d.dataset.GetPage(ctx, page, pageSize)
}

// GetMetadata implements DataService.
func (d *dataService) GetMetadata(ctx context.Context, actor models.Session) (models.DatasetMetadata, error) {
	if err := Authorize(SubjectOf(actor), models.OpReadData, nil); err != nil {
		return models.DatasetMetadata{}, d.denied(actor, models.OpReadData, err)
	}
	return d.dataset.Metadata(ctx)
}

// ImportRows implements DataService. Every row is validated against the
// active schema before anything is written; one bad row aborts the whole
// import with its index in the error, and the previous dataset stays intact.
func (d *dataService) ImportRows(ctx context.Context, actor models.Session, rows []models.DataRecord) (int, error) {
	if err := Authorize(SubjectOf(actor), models.OpModifyData, nil); err != nil {
		return 0, d.denied(actor, models.OpModifyData, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: no rows to import", ErrInvalidDataProvided)
	}

	schema, err := d.schema.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading schema failed: %w", err)
	}
	for i, row := range rows {
		if err := validators.ValidateRecord(schema, row); err != nil {
			return 0, fmt.Errorf("%w: row %d: %w", ErrInvalidDataProvided, i+1, err)
		}
	}

	imported, err := d.dataset.ReplaceAll(ctx, rows, actor.Email)
	if err != nil {
		return 0, fmt.Errorf("import failed: %w", err)
	}

	d.logger.Info().Int("rows", imported).Str("imported_by", actor.Email).Msg("dataset imported")
	return imported, nil
}

// validateAgainstSchema loads the active schema and validates one record.
func (d *dataService) validateAgainstSchema(ctx context.Context, record models.DataRecord) error {
	schema, err := d.schema.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading schema failed: %w", err)
	}
	if err := validators.ValidateRecord(schema, record); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return nil
}

func (d *dataService) denied(actor models.Session, op models.Operation, err error) error {
	d.logger.Audit(logger.AuditAuthorizationDeny, actor.Email).
		Str("operation", string(op)).
		Err(err).
		Msg("operation denied")
	return err
}
