package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

// builderFor returns a squirrel statement builder with the placeholder
// format of the active engine ($N for postgres, ? for sqlite).
func builderFor(engine string) sq.StatementBuilderType {
	if engine == EnginePostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// buildInsertRecordQuery inserts one sealed record and returns its new ID.
// RETURNING is supported by both engines in use.
func buildInsertRecordQuery(b sq.StatementBuilderType, sealedFields string, now time.Time) (string, []any, error) {
	return b.Insert("records").
		Columns("fields", "created_at", "updated_at").
		Values(sealedFields, now, now).
		Suffix("RETURNING id").
		ToSql()
}

func buildUpdateRecordQuery(b sq.StatementBuilderType, id int64, sealedFields string, now time.Time) (string, []any, error) {
	return b.Update("records").
		Set("fields", sealedFields).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildDeleteRecordQuery(b sq.StatementBuilderType, id int64) (string, []any, error) {
	return b.Delete("records").
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildDeleteAllRecordsQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Delete("records").ToSql()
}

func buildSelectPageQuery(b sq.StatementBuilderType, limit, offset uint64) (string, []any, error) {
	return b.Select("id", "fields").
		From("records").
		OrderBy("id ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
}

func buildCountRecordsQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select("COUNT(*)").From("records").ToSql()
}

func buildSelectMetadataQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select("version", "last_updated", "updated_by", "row_count").
		From("dataset_meta").
		Where(sq.Eq{"id": 1}).
		ToSql()
}

// buildStampMetadataQuery upserts the single dataset_meta row, bumping the
// version counter on every mutation. The `excluded` alias works in both
// sqlite and postgres ON CONFLICT clauses.
func buildStampMetadataQuery(b sq.StatementBuilderType, now time.Time, updatedBy string, rowCount int) (string, []any, error) {
	return b.Insert("dataset_meta").
		Columns("id", "version", "last_updated", "updated_by", "row_count").
		Values(1, 1, now, updatedBy, rowCount).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			version = dataset_meta.version + 1,
			last_updated = excluded.last_updated,
			updated_by = excluded.updated_by,
			row_count = excluded.row_count`).
		ToSql()
}
