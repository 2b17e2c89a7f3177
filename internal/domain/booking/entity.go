package booking

import (
	"time"

	"clinic-scheduler/internal/domain/conflict"
	"clinic-scheduler/internal/domain/interval"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

// Booking is a reservation of one resource for one interval. Records are
// never deleted; terminal states are kept for history.
type Booking struct {
	id           uuid.UUID
	resourceID   uuid.UUID
	caseID       *uuid.UUID
	holderID     uuid.UUID
	interval     interval.TimeInterval
	status       Status
	version      int64
	expiresAt    time.Time
	confirmedBy  *uuid.UUID
	cancelReason string
	createdAt    time.Time
	updatedAt    time.Time
}

type Snapshot struct {
	ID           uuid.UUID
	ResourceID   uuid.UUID
	CaseID       *uuid.UUID
	HolderID     uuid.UUID
	Interval     interval.TimeInterval
	Status       Status
	Version      int64
	ExpiresAt    time.Time
	ConfirmedBy  *uuid.UUID
	CancelReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func Reconstruct(s Snapshot) *Booking {
	return &Booking{
		id:           s.ID,
		resourceID:   s.ResourceID,
		caseID:       s.CaseID,
		holderID:     s.HolderID,
		interval:     s.Interval,
		status:       s.Status,
		version:      s.Version,
		expiresAt:    s.ExpiresAt,
		confirmedBy:  s.ConfirmedBy,
		cancelReason: s.CancelReason,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		ID:           b.id,
		ResourceID:   b.resourceID,
		CaseID:       b.caseID,
		HolderID:     b.holderID,
		Interval:     b.interval,
		Status:       b.status,
		Version:      b.version,
		ExpiresAt:    b.expiresAt,
		ConfirmedBy:  b.confirmedBy,
		CancelReason: b.cancelReason,
		CreatedAt:    b.createdAt,
		UpdatedAt:    b.updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID                   { return b.id }
func (b *Booking) ResourceID() uuid.UUID           { return b.resourceID }
func (b *Booking) CaseID() *uuid.UUID              { return b.caseID }
func (b *Booking) HolderID() uuid.UUID             { return b.holderID }
func (b *Booking) Interval() interval.TimeInterval { return b.interval }
func (b *Booking) Status() Status                  { return b.status }
func (b *Booking) Version() int64                  { return b.version }
func (b *Booking) ExpiresAt() time.Time            { return b.expiresAt }
func (b *Booking) ConfirmedBy() *uuid.UUID         { return b.confirmedBy }
func (b *Booking) CancelReason() string            { return b.cancelReason }
func (b *Booking) CreatedAt() time.Time            { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time            { return b.updatedAt }

// EffectiveStatus applies lazy expiry: a provisional hold past its
// expiresAt reads as expired without being rewritten.
func (b *Booking) EffectiveStatus(now time.Time) Status {
	if b.status == StatusProvisional && now.After(b.expiresAt) {
		return StatusExpired
	}
	return b.status
}

func (b *Booking) IsActiveAt(now time.Time) bool {
	return b.EffectiveStatus(now).IsActive()
}

// Confirm checks expiry, then version, then confirmed competitors.
func (b *Booking) Confirm(now time.Time, expectedVersion int64, confirmerID uuid.UUID, competitors []*Booking, bufferMinutes int) error {
	if b.EffectiveStatus(now) == StatusExpired {
		return &errs.ExpiredHoldError{BookingID: b.id, ExpiredAt: b.expiresAt}
	}
	if err := b.checkVersion(expectedVersion); err != nil {
		return err
	}
	if b.status != StatusProvisional {
		return invalidState("confirm", b.status)
	}

	var confirmed []*Booking
	for _, c := range competitors {
		if c.status == StatusConfirmed {
			confirmed = append(confirmed, c)
		}
	}
	if err := b.checkConflicts(b.interval, confirmed, now, bufferMinutes); err != nil {
		return err
	}

	b.status = StatusConfirmed
	b.confirmedBy = &confirmerID
	b.touch(now)
	return nil
}

// Cancel is a no-op on an already cancelled booking.
func (b *Booking) Cancel(now time.Time, expectedVersion int64, reason string) (changed bool, err error) {
	if b.status == StatusCancelled {
		return false, nil
	}
	if err := b.checkVersion(expectedVersion); err != nil {
		return false, err
	}
	if !b.IsActiveAt(now) {
		return false, invalidState("cancel", b.EffectiveStatus(now))
	}

	b.status = StatusCancelled
	b.cancelReason = reason
	b.touch(now)
	return true, nil
}

// Reschedule moves a confirmed booking to a new interval on the same record.
func (b *Booking) Reschedule(now time.Time, expectedVersion int64, next interval.TimeInterval, competitors []*Booking, bufferMinutes int) error {
	if err := b.checkVersion(expectedVersion); err != nil {
		return err
	}
	if b.status != StatusConfirmed {
		return invalidState("reschedule", b.status)
	}
	if next.IsZero() {
		return errs.Validation("interval", "is required")
	}
	if err := b.checkConflicts(next, competitors, now, bufferMinutes); err != nil {
		return err
	}

	b.interval = next
	b.touch(now)
	return nil
}

func (b *Booking) checkVersion(expected int64) error {
	if expected != b.version {
		return &errs.StaleVersionError{Entity: "booking", ID: b.id, Expected: expected, Actual: b.version}
	}
	return nil
}

func (b *Booking) checkConflicts(proposed interval.TimeInterval, others []*Booking, now time.Time, bufferMinutes int) error {
	conflicts := FindConflicts(proposed, others, now, bufferMinutes, b.id)
	if len(conflicts) > 0 {
		return &ConflictError{ResourceID: b.resourceID, Proposed: proposed, Conflicts: conflicts}
	}
	return nil
}

func (b *Booking) touch(now time.Time) {
	b.version++
	b.updatedAt = now
}

// FindConflicts runs the detector over the bookings active at now,
// skipping exclude.
func FindConflicts(proposed interval.TimeInterval, others []*Booking, now time.Time, bufferMinutes int, exclude uuid.UUID) []Conflict {
	active := make([]*Booking, 0, len(others))
	intervals := make([]interval.TimeInterval, 0, len(others))
	for _, o := range others {
		if o.id == exclude || !o.IsActiveAt(now) {
			continue
		}
		active = append(active, o)
		intervals = append(intervals, o.interval)
	}

	var out []Conflict
	for _, i := range conflict.NewDetector().ConflictIndexes(proposed, intervals, bufferMinutes) {
		out = append(out, Conflict{BookingID: active[i].id, Interval: intervals[i], Status: active[i].EffectiveStatus(now)})
	}
	return out
}
