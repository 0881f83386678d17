package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/internal/mock"
	"github.com/MKhiriev/go-data-vault/models"
)

func newTestDataService(t *testing.T) (DataService, *mock.MockSchemaStore, *mock.MockDatasetRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	schema := mock.NewMockSchemaStore(ctrl)
	dataset := mock.NewMockDatasetRepository(ctrl)
	svc := NewDataService(schema, dataset, newFakeClock(), logger.Nop())
	return svc, schema, dataset
}

func adminSession() models.Session {
	return models.Session{ID: "s-1", UserID: "u-admin", Email: "admin@vault.local", Role: models.RoleAdmin}
}

func moderatorSession() models.Session {
	return models.Session{ID: "s-2", UserID: "u-mod", Email: "mod@vault.local", Role: models.RoleModerator}
}

func readerSession() models.Session {
	return models.Session{ID: "s-3", UserID: "u-user", Email: "user@vault.local", Role: models.RoleUser}
}

func testSchema() models.Schema {
	return models.Schema{Columns: []models.ColumnDef{
		{Name: "name", Type: models.FieldString},
		{Name: "amount", Type: models.FieldNumber},
		{Name: "due", Type: models.FieldDate, Nullable: true},
	}}
}

func TestUpdateSchema_StampsAndSaves(t *testing.T) {
	svc, schema, _ := newTestDataService(t)
	ctx := context.Background()

	schema.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, saved models.Schema) error {
			assert.Equal(t, "admin@vault.local", saved.ModifiedBy)
			require.NotNil(t, saved.LastModified)
			return nil
		})

	require.NoError(t, svc.UpdateSchema(ctx, adminSession(), testSchema()))
}

func TestUpdateSchema_InvalidSchemaRejected(t *testing.T) {
	svc, _, _ := newTestDataService(t)

	err := svc.UpdateSchema(context.Background(), adminSession(), models.Schema{})
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestUpdateSchema_ModeratorDenied(t *testing.T) {
	svc, _, _ := newTestDataService(t)

	err := svc.UpdateSchema(context.Background(), moderatorSession(), testSchema())
	require.ErrorIs(t, err, ErrInsufficientPermission)
}

func TestAddRecord_ValidatesAgainstSchema(t *testing.T) {
	svc, schema, dataset := newTestDataService(t)
	ctx := context.Background()

	record := models.DataRecord{"name": "alpha", "amount": 12.5}

	schema.EXPECT().Load(ctx).Return(testSchema(), nil)
	dataset.EXPECT().AddRecord(ctx, record, "mod@vault.local").
		Return(models.StoredRecord{ID: 1, Fields: record}, nil)

	stored, err := svc.AddRecord(ctx, moderatorSession(), record)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ID)
}

func TestAddRecord_SchemaViolationRejected(t *testing.T) {
	svc, schema, _ := newTestDataService(t)
	ctx := context.Background()

	schema.EXPECT().Load(ctx).Return(testSchema(), nil)

	// amount must be a number
	_, err := svc.AddRecord(ctx, moderatorSession(), models.DataRecord{"name": "alpha", "amount": "twelve"})
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAddRecord_NoSchemaDefined(t *testing.T) {
	svc, schema, _ := newTestDataService(t)
	ctx := context.Background()

	schema.EXPECT().Load(ctx).Return(models.Schema{}, nil)

	_, err := svc.AddRecord(ctx, moderatorSession(), models.DataRecord{"name": "alpha"})
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAddRecord_ReaderDenied(t *testing.T) {
	svc, _, _ := newTestDataService(t)

	_, err := svc.AddRecord(context.Background(), readerSession(), models.DataRecord{"name": "alpha"})
	require.ErrorIs(t, err, ErrInsufficientPermission)
}

func TestUpdateRecord_PassesThrough(t *testing.T) {
	svc, schema, dataset := newTestDataService(t)
	ctx := context.Background()

	record := models.DataRecord{"name": "beta", "amount": 1.0, "due": time.Now().UTC().Format(time.RFC3339)}

	schema.EXPECT().Load(ctx).Return(testSchema(), nil)
	dataset.EXPECT().UpdateRecord(ctx, int64(7), record, "mod@vault.local").Return(nil)

	require.NoError(t, svc.UpdateRecord(ctx, moderatorSession(), 7, record))
}

func TestDeleteRecord_NoValidationNeeded(t *testing.T) {
	svc, _, dataset := newTestDataService(t)
	ctx := context.Background()

	dataset.EXPECT().DeleteRecord(ctx, int64(7), "mod@vault.local").Return(nil)

	require.NoError(t, svc.DeleteRecord(ctx, moderatorSession(), 7))
}

func TestGetData_ReaderAllowed(t *testing.T) {
	svc, _, dataset := newTestDataService(t)
	ctx := context.Background()

	dataset.EXPECT().GetPage(ctx, 2, 25).Return(models.Page{CurrentPage: 2, PageSize: 25}, nil)

	page, err := svc.GetData(ctx, readerSession(), 2, 25)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
}

func TestGetMetadata_ReaderAllowed(t *testing.T) {
	svc, _, dataset := newTestDataService(t)
	ctx := context.Background()

	updated := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	dataset.EXPECT().Metadata(ctx).Return(models.DatasetMetadata{
		Version:     "7",
		LastUpdated: &updated,
		UpdatedBy:   "mod@vault.local",
		RowCount:    42,
	}, nil)

	meta, err := svc.GetMetadata(ctx, readerSession())
	require.NoError(t, err)
	assert.Equal(t, "7", meta.Version)
	assert.Equal(t, 42, meta.RowCount)
}

func TestImportRows_AllRowsValidatedBeforeWrite(t *testing.T) {
	svc, schema, dataset := newTestDataService(t)
	ctx := context.Background()

	rows := []models.DataRecord{
		{"name": "a", "amount": 1.0},
		{"name": "b", "amount": 2.0},
	}

	schema.EXPECT().Load(ctx).Return(testSchema(), nil)
	dataset.EXPECT().ReplaceAll(ctx, rows, "mod@vault.local").Return(2, nil)

	n, err := svc.ImportRows(ctx, moderatorSession(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestImportRows_BadRowAbortsBeforeWrite(t *testing.T) {
	svc, schema, _ := newTestDataService(t)
	ctx := context.Background()

	rows := []models.DataRecord{
		{"name": "a", "amount": 1.0},
		{"name": "b", "amount": "not-a-number"},
	}

	// ReplaceAll must never be called: the dataset mock has no expectation
	schema.EXPECT().Load(ctx).Return(testSchema(), nil)

	_, err := svc.ImportRows(ctx, moderatorSession(), rows)
	require.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.Contains(t, err.Error(), "row 2")
}

func TestImportRows_EmptyRejected(t *testing.T) {
	svc, _, _ := newTestDataService(t)

	_, err := svc.ImportRows(context.Background(), moderatorSession(), nil)
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}
