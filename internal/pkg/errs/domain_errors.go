package errs

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Error kinds surfaced by the scheduling engine. Typed errors below match
// their kind through errors.Is.
var (
	ErrValidation        = New("validation failed")
	ErrNotFound          = New("not found")
	ErrConflict          = New("scheduling conflict")
	ErrStaleVersion      = New("stale version")
	ErrExpiredHold       = New("hold expired")
	ErrInvalidTransition = New("invalid status transition")
	ErrReadiness         = New("readiness requirements not met")

	ErrDatabaseOperationFailed = New("database operation failed")
)

type ValidationError struct {
	Field  string
	Reason string
}

func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError is raised by repositories and propagated unchanged.
type NotFoundError struct {
	Entity string
	ID     string
}

func NotFound(entity string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id.String()}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type StaleVersionError struct {
	Entity   string
	ID       uuid.UUID
	Expected int64
	Actual   int64
}

func (e *StaleVersionError) Error() string {
	return fmt.Sprintf("%s %s: expected version %d, stored version %d", e.Entity, e.ID, e.Expected, e.Actual)
}

func (e *StaleVersionError) Is(target error) bool { return target == ErrStaleVersion }

type ExpiredHoldError struct {
	BookingID uuid.UUID
	ExpiredAt time.Time
}

func (e *ExpiredHoldError) Error() string {
	return fmt.Sprintf("hold %s expired at %s", e.BookingID, e.ExpiredAt.Format(time.RFC3339))
}

func (e *ExpiredHoldError) Is(target error) bool { return target == ErrExpiredHold }

// IsRetryable reports whether the caller may re-fetch and re-attempt.
func IsRetryable(err error) bool {
	return Is(err, ErrStaleVersion) || Is(err, ErrConflict)
}
