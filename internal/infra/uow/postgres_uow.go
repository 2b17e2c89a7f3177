package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"clinic-scheduler/internal/infra/postgres"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

const (
	defaultMaxRetries  = 3
	defaultBackoffBase = 100 * time.Millisecond
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool        *pgxpool.Pool
	maxRetries  int
	backoffBase time.Duration
}

func NewPostgresUoW(pool *pgxpool.Pool) *PostgresUoW {
	return &PostgresUoW{
		pool:        pool,
		maxRetries:  defaultMaxRetries,
		backoffBase: defaultBackoffBase,
	}
}

// Serializable so that the conflict check and the write it guards cannot
// interleave with a competing writer on the same resource.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		err = fn(ctx, newPgTx(pgxTx))
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !isRetryableError(err) {
			return err
		}
		if attempt == u.maxRetries {
			slog.Error("transaction failed after max retries",
				"attempts", attempt+1,
				"error", err.Error())
			return errs.Mark(err, errMaxRetriesExceeded)
		}

		waitTime := calculateBackoff(attempt, u.backoffBase)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, newPgTx(pgxTx)); err != nil {
		return err
	}

	return pgxTx.Commit(ctx)
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

// isRetryableError is true only for failures raised by the database's own
// concurrency control. Stale versions and booking conflicts go back to the caller.
func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx postgres.DBTX

	// Lazy-initialized repositories
	availabilityRepo *postgres.AvailabilityRepository
	bookingRepo      *postgres.BookingRepository
	caseRepo         *postgres.CaseRepository
	resourceRepo     *postgres.ResourceRepository
}

func newPgTx(dbtx postgres.DBTX) *pgTx {
	return &pgTx{dbtx: dbtx}
}

func (t *pgTx) Availability() shared.AvailabilityRepository {
	if t.availabilityRepo == nil {
		t.availabilityRepo = postgres.NewAvailabilityRepository(t.dbtx)
	}
	return t.availabilityRepo
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = postgres.NewBookingRepository(t.dbtx)
	}
	return t.bookingRepo
}

func (t *pgTx) Cases() shared.CaseRepository {
	if t.caseRepo == nil {
		t.caseRepo = postgres.NewCaseRepository(t.dbtx)
	}
	return t.caseRepo
}

func (t *pgTx) Resources() shared.ResourceRepository {
	if t.resourceRepo == nil {
		t.resourceRepo = postgres.NewResourceRepository(t.dbtx)
	}
	return t.resourceRepo
}
