// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/internal/utils"
	"github.com/MKhiriev/go-data-vault/models"
)

const defaultPageSize = 50

// querier is the subset of *sql.Tx / *sql.Conn the read helpers need.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// datasetRepository implements [DatasetRepository] on top of the concurrent
// data manager. Record fields are sealed with the installation key before
// they touch the engine, so the database file alone discloses nothing.
// Every mutation stamps dataset_meta inside the same transaction: a version
// bump and its records commit or roll back together.
type datasetRepository struct {
	db         *DB
	containers *ContainerStore
	builder    sq.StatementBuilderType
	clock      utils.Clock
	logger     *logger.Logger
}

// NewDatasetRepository constructs a [DatasetRepository] bound to db.
func NewDatasetRepository(db *DB, containers *ContainerStore, clock utils.Clock, log *logger.Logger) DatasetRepository {
	return &datasetRepository{
		db:         db,
		containers: containers,
		builder:    builderFor(db.engine),
		clock:      clock,
		logger:     log,
	}
}

// AddRecord implements [DatasetRepository].
func (r *datasetRepository) AddRecord(ctx context.Context, record models.DataRecord, updatedBy string) (models.StoredRecord, error) {
	sealed, err := r.sealRecord(record)
	if err != nil {
		return models.StoredRecord{}, err
	}

	var id int64
	err = r.db.WithWriteTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query, args, err := buildInsertRecordQuery(r.builder, sealed, r.clock.Now())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		return r.stampMetadata(ctx, tx, updatedBy)
	})
	if err != nil {
		return models.StoredRecord{}, err
	}

	return models.StoredRecord{ID: id, Fields: record}, nil
}

// UpdateRecord implements [DatasetRepository]. A miss on the target ID yields
// [ErrRecordNotFound] and leaves the dataset version untouched.
func (r *datasetRepository) UpdateRecord(ctx context.Context, id int64, record models.DataRecord, updatedBy string) error {
	sealed, err := r.sealRecord(record)
	if err != nil {
		return err
	}

	return r.db.WithWriteTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query, args, err := buildUpdateRecordQuery(r.builder, id, sealed, r.clock.Now())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected == 0 {
			return fmt.Errorf("%w: id=%d", ErrRecordNotFound, id)
		}

		return r.stampMetadata(ctx, tx, updatedBy)
	})
}

// DeleteRecord implements [DatasetRepository].
func (r *datasetRepository) DeleteRecord(ctx context.Context, id int64, updatedBy string) error {
	return r.db.WithWriteTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query, args, err := buildDeleteRecordQuery(r.builder, id)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected == 0 {
			return fmt.Errorf("%w: id=%d", ErrRecordNotFound, id)
		}

		return r.stampMetadata(ctx, tx, updatedBy)
	})
}

// ReplaceAll implements [DatasetRepository]. The whole import is one
// transaction: a failure at any row rolls back to the previous dataset.
func (r *datasetRepository) ReplaceAll(ctx context.Context, records []models.DataRecord, updatedBy string) (int, error) {
	sealed := make([]string, 0, len(records))
	for _, record := range records {
		s, err := r.sealRecord(record)
		if err != nil {
			return 0, err
		}
		sealed = append(sealed, s)
	}

	err := r.db.WithWriteTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query, args, err := buildDeleteAllRecordsQuery(r.builder)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		now := r.clock.Now()
		for _, s := range sealed {
			query, args, err := buildInsertRecordQuery(r.builder, s, now)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}
			var id int64
			if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		return r.stampMetadata(ctx, tx, updatedBy)
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info().Int("rows", len(records)).Str("updated_by", updatedBy).Msg("dataset replaced")
	return len(records), nil
}

// GetPage implements [DatasetRepository]. Pages are 1-based; out-of-range
// pages return an empty record list with accurate totals rather than an error.
func (r *datasetRepository) GetPage(ctx context.Context, page, pageSize int) (models.Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	result := models.Page{
		CurrentPage: page,
		PageSize:    pageSize,
	}

	err := r.db.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		query, args, err := buildCountRecordsQuery(r.builder)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if err := conn.QueryRowContext(ctx, query, args...).Scan(&result.TotalRecords); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		result.TotalPages = (result.TotalRecords + pageSize - 1) / pageSize

		offset := uint64(page-1) * uint64(pageSize)
		query, args, err = buildSelectPageQuery(r.builder, uint64(pageSize), offset)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				id         int64
				sealedBlob string
			)
			if err := rows.Scan(&id, &sealedBlob); err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRows, err)
			}

			fields, err := r.openRecord(sealedBlob)
			if err != nil {
				return fmt.Errorf("record id=%d: %w", id, err)
			}
			result.Records = append(result.Records, models.StoredRecord{ID: id, Fields: fields})
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		meta, err := r.readMetadata(ctx, conn)
		if err != nil {
			return err
		}
		result.Metadata = meta
		return nil
	})
	if err != nil {
		return models.Page{}, err
	}

	return result, nil
}

// Metadata implements [DatasetRepository]. A dataset that has never been
// mutated reports zero-valued metadata.
func (r *datasetRepository) Metadata(ctx context.Context) (models.DatasetMetadata, error) {
	var meta models.DatasetMetadata
	err := r.db.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		m, err := r.readMetadata(ctx, conn)
		if err != nil {
			return err
		}
		meta = m
		return nil
	})
	return meta, err
}

// stampMetadata upserts the dataset_meta row inside the caller's transaction,
// recounting rows so RowCount can never drift from the records table.
func (r *datasetRepository) stampMetadata(ctx context.Context, tx *sql.Tx, updatedBy string) error {
	query, args, err := buildCountRecordsQuery(r.builder)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	var rowCount int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&rowCount); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err = buildStampMetadataQuery(r.builder, r.clock.Now(), updatedBy, rowCount)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// readMetadata loads the single dataset_meta row via q.
func (r *datasetRepository) readMetadata(ctx context.Context, q querier) (models.DatasetMetadata, error) {
	query, args, err := buildSelectMetadataQuery(r.builder)
	if err != nil {
		return models.DatasetMetadata{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		version     int64
		lastUpdated sql.NullTime
		updatedBy   sql.NullString
		rowCount    int
	)
	err = q.QueryRowContext(ctx, query, args...).Scan(&version, &lastUpdated, &updatedBy, &rowCount)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DatasetMetadata{}, nil
	}
	if err != nil {
		return models.DatasetMetadata{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	meta := models.DatasetMetadata{
		Version:   strconv.FormatInt(version, 10),
		UpdatedBy: updatedBy.String,
		RowCount:  rowCount,
	}
	if lastUpdated.Valid {
		t := lastUpdated.Time
		meta.LastUpdated = &t
	}
	return meta, nil
}

// sealRecord encodes and encrypts a record's fields for storage.
func (r *datasetRepository) sealRecord(record models.DataRecord) (string, error) {
	plaintext, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("error encoding record fields: %w", err)
	}

	sealed, err := r.containers.Seal(plaintext)
	if err != nil {
		return "", fmt.Errorf("error sealing record fields: %w", err)
	}
	return string(sealed), nil
}

// openRecord is the inverse of sealRecord.
func (r *datasetRepository) openRecord(sealed string) (models.DataRecord, error) {
	plaintext, err := r.containers.Open([]byte(sealed))
	if err != nil {
		return nil, err
	}

	var fields models.DataRecord
	if err := json.Unmarshal(plaintext, &fields); err != nil {
		return nil, fmt.Errorf("%w: undecodable record fields", ErrCorruptContainer)
	}
	return fields, nil
}
