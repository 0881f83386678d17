package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-data-vault/internal/config"
	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/migrations"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/semaphore"
)

// DB wraps the shared relational store and enforces the concurrency
// discipline of the data manager:
//
//   - a bounded pool of reusable connections with an acquisition timeout —
//     callers that cannot obtain one in time get [ErrBusy] instead of
//     blocking indefinitely;
//   - at most one in-flight write transaction at any instant (readers run
//     concurrently under the engine's snapshot/WAL isolation);
//   - bounded-backoff retry of transient engine errors, distinguished from
//     permanent ones by the per-engine [ErrorClassificator];
//   - a writer hold-time threshold past which the slot is force-released
//     and [ErrLockTimeout] reported, so contention can never escalate into
//     a process-level deadlock.
type DB struct {
	*sql.DB
	engine             string
	errorClassificator ErrorClassificator
	logger             *logger.Logger

	conns          *semaphore.Weighted
	acquireTimeout time.Duration

	writerSlot chan struct{}
	writerHold time.Duration
}

func newDB(conn *sql.DB, engine string, cfg config.DB, classifier ErrorClassificator, log *logger.Logger) *DB {
	conn.SetMaxIdleConns(cfg.MinConns)
	conn.SetMaxOpenConns(cfg.MaxConns)

	return &DB{
		DB:                 conn,
		engine:             engine,
		errorClassificator: classifier,
		logger:             log,
		conns:              semaphore.NewWeighted(int64(cfg.MaxConns)),
		acquireTimeout:     cfg.AcquireTimeout,
		writerSlot:         make(chan struct{}, 1),
		writerHold:         cfg.WriterHoldTimeout,
	}
}

// Migrate applies the embedded schema migrations for the active engine.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.engine)
}

// WithConn runs fn on a pooled connection. Acquisition is bounded by the
// configured timeout; on exhaustion the caller receives [ErrBusy]. The
// permit is released on every path, including caller cancellation, so an
// abandoned wait never leaks a held resource.
func (db *DB) WithConn(ctx context.Context, fn func(ctx context.Context, conn *sql.Conn) error) error {
	acquireCtx, cancel := context.WithTimeout(ctx, db.acquireTimeout)
	defer cancel()

	if err := db.conns.Acquire(acquireCtx, 1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: no connection available within %s", ErrBusy, db.acquireTimeout)
		}
		return err
	}
	defer db.conns.Release(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer conn.Close()

	return fn(ctx, conn)
}

// WithWriteTx runs fn inside the single write transaction slot.
//
// The slot is acquired with the same bounded wait as connections ([ErrBusy]
// on timeout). Once held, the whole transaction must finish within the
// writer hold threshold or it is rolled back and reported as
// [ErrLockTimeout]. Transient engine errors (lock contention, deadlock
// rollback) are retried with capped exponential backoff; permanent errors
// such as constraint violations surface immediately.
func (db *DB) WithWriteTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	select {
	case db.writerSlot <- struct{}{}:
	case <-time.After(db.acquireTimeout):
		return fmt.Errorf("%w: writer slot not available within %s", ErrBusy, db.acquireTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-db.writerSlot }()

	holdCtx, cancel := context.WithTimeout(ctx, db.writerHold)
	defer cancel()

	backoff := retry.WithMaxRetries(5, retry.WithCappedDuration(time.Second, retry.NewExponential(50*time.Millisecond)))
	err := retry.Do(holdCtx, backoff, func(ctx context.Context) error {
		txErr := db.runTx(ctx, fn)
		if txErr == nil {
			return nil
		}

		switch db.errorClassificator.Classify(txErr) {
		case Retryable:
			db.logger.Warn().Err(txErr).Msg("transient storage error, retrying write transaction")
			return retry.RetryableError(txErr)
		case Constraint:
			return fmt.Errorf("%w: %w", ErrConstraintViolation, txErr)
		default:
			return txErr
		}
	})

	// A deadline on holdCtx (not the caller's ctx) means the writer slot
	// was held past the threshold: force-released above via rollback.
	if errors.Is(holdCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		db.logger.Error().Dur("threshold", db.writerHold).Msg("writer slot hold threshold exceeded")
		return fmt.Errorf("%w: write transaction exceeded %s", ErrLockTimeout, db.writerHold)
	}

	return err
}

// runTx begins a transaction, runs fn, and commits on success or rolls back
// on error/panic. Panics are rethrown after rollback.
func (db *DB) runTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
		}
	}()

	err = fn(ctx, tx)
	return err
}
