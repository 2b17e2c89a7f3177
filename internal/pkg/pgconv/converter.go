package pgconv

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func UUIDPtrFromPgtype(pu pgtype.UUID) *uuid.UUID {
	if !pu.Valid {
		return nil
	}
	id := uuid.UUID(pu.Bytes)
	return &id
}

func UUIDToPgtype(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func UUIDPtrToPgtype(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func TimeFromPgtype(pt pgtype.Timestamptz) time.Time {
	return pt.Time
}

func TimeToPgtype(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// DateToPgtype keeps only the calendar date of t, read in t's own location.
func DateToPgtype(t time.Time) pgtype.Date {
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func DatePtrToPgtype(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{Valid: false}
	}
	return DateToPgtype(*t)
}

// DateFromPgtype returns midnight UTC of the stored calendar date.
func DateFromPgtype(pd pgtype.Date) time.Time {
	return pd.Time
}

func DatePtrFromPgtype(pd pgtype.Date) *time.Time {
	if !pd.Valid {
		return nil
	}
	t := pd.Time
	return &t
}

func Int4PtrToPgtype(i *int) pgtype.Int4 {
	if i == nil {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(*i), Valid: true} // #nosec G115 -- minutes of a day
}

func IntPtrFromPgtype(pi pgtype.Int4) *int {
	if !pi.Valid {
		return nil
	}
	v := int(pi.Int32)
	return &v
}

// IsNoRows checks if the error is a "no rows" error from pgx
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
