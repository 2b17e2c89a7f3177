package postgres

import (
	"context"

	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/interval"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/pkg/pgconv"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `
id, resource_id, case_id, holder_id, starts_at, ends_at, status, version,
expires_at, confirmed_by, cancel_reason, created_at, updated_at`

const getBookingsInRange = `SELECT` + bookingColumns + `
FROM bookings
WHERE resource_id = $1
  AND status IN ('provisional', 'confirmed')
  AND starts_at < $3 AND ends_at > $2
ORDER BY starts_at, id`

const getBookingByID = `SELECT` + bookingColumns + `
FROM bookings
WHERE id = $1`

const getBookingVersion = `SELECT version FROM bookings WHERE id = $1`

const createBooking = `
INSERT INTO bookings (` + bookingColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const updateBooking = `
UPDATE bookings
SET starts_at = $2, ends_at = $3, status = $4, version = $5,
    expires_at = $6, confirmed_by = $7, cancel_reason = $8, updated_at = $9
WHERE id = $1 AND version = $10`

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) GetBookings(ctx context.Context, q shared.RangeQuery) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, getBookingsInRange, q.ResourceID, pgconv.TimeToPgtype(q.From), pgconv.TimeToPgtype(q.To))
	if err != nil {
		return nil, wrap("failed to get bookings", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*booking.Booking, error) {
		return scanBooking(row)
	})
	if err != nil {
		return nil, wrap("failed to scan bookings", err)
	}
	return out, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, getBookingByID, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.NotFound("booking", id)
		}
		return nil, wrap("failed to find booking by ID", err)
	}
	return b, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	s := b.Snapshot()
	_, err := r.db.Exec(ctx, createBooking,
		s.ID,
		s.ResourceID,
		pgconv.UUIDPtrToPgtype(s.CaseID),
		s.HolderID,
		pgconv.TimeToPgtype(s.Interval.Start()),
		pgconv.TimeToPgtype(s.Interval.End()),
		s.Status.String(),
		s.Version,
		pgconv.TimeToPgtype(s.ExpiresAt),
		pgconv.UUIDPtrToPgtype(s.ConfirmedBy),
		s.CancelReason,
		pgconv.TimeToPgtype(s.CreatedAt),
		pgconv.TimeToPgtype(s.UpdatedAt),
	)
	if err != nil {
		return wrap("failed to create booking", err)
	}
	return nil
}

// Update is a compare-and-swap on version. A miss is reported as
// StaleVersionError or NotFound depending on whether the row still exists.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, expectedVersion int64) error {
	s := b.Snapshot()
	tag, err := r.db.Exec(ctx, updateBooking,
		s.ID,
		pgconv.TimeToPgtype(s.Interval.Start()),
		pgconv.TimeToPgtype(s.Interval.End()),
		s.Status.String(),
		s.Version,
		pgconv.TimeToPgtype(s.ExpiresAt),
		pgconv.UUIDPtrToPgtype(s.ConfirmedBy),
		s.CancelReason,
		pgconv.TimeToPgtype(s.UpdatedAt),
		expectedVersion,
	)
	if err != nil {
		return wrap("failed to update booking", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var actual int64
	if err := r.db.QueryRow(ctx, getBookingVersion, s.ID).Scan(&actual); err != nil {
		if pgconv.IsNoRows(err) {
			return errs.NotFound("booking", s.ID)
		}
		return wrap("failed to read booking version", err)
	}
	return &errs.StaleVersionError{Entity: "booking", ID: s.ID, Expected: expectedVersion, Actual: actual}
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		s                    booking.Snapshot
		caseID, confirmedBy  pgtype.UUID
		startsAt, endsAt     pgtype.Timestamptz
		expiresAt            pgtype.Timestamptz
		createdAt, updatedAt pgtype.Timestamptz
		status               string
	)
	err := row.Scan(
		&s.ID, &s.ResourceID, &caseID, &s.HolderID, &startsAt, &endsAt, &status, &s.Version,
		&expiresAt, &confirmedBy, &s.CancelReason, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	iv, err := interval.New(startsAt.Time, endsAt.Time)
	if err != nil {
		return nil, errs.Wrapf(err, "booking %s has a malformed interval", s.ID)
	}
	s.Interval = iv
	s.CaseID = pgconv.UUIDPtrFromPgtype(caseID)
	s.ConfirmedBy = pgconv.UUIDPtrFromPgtype(confirmedBy)
	s.Status = booking.Status(status)
	s.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
	s.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	s.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return booking.Reconstruct(s), nil
}
