package booking

import (
	"time"

	"clinic-scheduler/internal/domain/interval"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

const DefaultHoldTTL = 10 * time.Minute

type HoldSpec struct {
	ResourceID    uuid.UUID
	CaseID        *uuid.UUID
	HolderID      uuid.UUID
	Interval      interval.TimeInterval
	TTL           time.Duration
	BufferMinutes int
}

type Factory struct {
	Clock      clock.Clock
	DefaultTTL time.Duration
}

func NewFactory(clock clock.Clock, defaultTTL time.Duration) *Factory {
	if defaultTTL <= 0 {
		defaultTTL = DefaultHoldTTL
	}
	return &Factory{
		Clock:      clock,
		DefaultTTL: defaultTTL,
	}
}

// Hold creates a provisional booking after checking existing against the
// requested interval. Cancelled and expired bookings never conflict.
func (f *Factory) Hold(spec HoldSpec, existing []*Booking) (*Booking, error) {
	if spec.ResourceID == uuid.Nil {
		return nil, errs.Validation("resource_id", "is required")
	}
	if spec.HolderID == uuid.Nil {
		return nil, errs.Validation("holder_id", "is required")
	}
	if spec.Interval.IsZero() {
		return nil, errs.Validation("interval", "is required")
	}
	if spec.TTL < 0 {
		return nil, errs.Validation("ttl", "cannot be negative")
	}
	ttl := spec.TTL
	if ttl == 0 {
		ttl = f.DefaultTTL
	}

	now := f.Clock.Now()
	if conflicts := FindConflicts(spec.Interval, existing, now, spec.BufferMinutes, uuid.Nil); len(conflicts) > 0 {
		return nil, &ConflictError{ResourceID: spec.ResourceID, Proposed: spec.Interval, Conflicts: conflicts}
	}

	return &Booking{
		id:         uuid.New(),
		resourceID: spec.ResourceID,
		caseID:     spec.CaseID,
		holderID:   spec.HolderID,
		interval:   spec.Interval,
		status:     StatusProvisional,
		version:    1,
		expiresAt:  now.Add(ttl),
		createdAt:  now,
		updatedAt:  now,
	}, nil
}
