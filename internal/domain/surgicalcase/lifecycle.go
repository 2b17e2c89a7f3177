package surgicalcase

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle applies the case status allow-table. The PLANNING to
// READY_FOR_SCHEDULING edge is additionally gated by Readiness.
type Lifecycle struct {
	Readiness ReadinessChecker
}

func NewLifecycle(readiness ReadinessChecker) *Lifecycle {
	return &Lifecycle{Readiness: readiness}
}

func (l *Lifecycle) Transition(c *Case, target Status, actorID uuid.UUID, plan *Plan, now time.Time) error {
	from := c.status
	if !from.CanTransitionTo(target) {
		return &InvalidTransitionError{CaseID: c.id, From: from, To: target}
	}
	if RequiresReadiness(from, target) {
		if missing := l.Readiness.Missing(plan); len(missing) > 0 {
			return &ReadinessError{
				InvalidTransitionError: InvalidTransitionError{CaseID: c.id, From: from, To: target},
				Missing:                missing,
			}
		}
	}

	c.status = target
	c.updatedBy = &actorID
	if ReleasesBooking(target) {
		c.bookingID = nil
	}
	c.touch(now)
	return nil
}

// ReleasesBooking reports whether entering target gives up the case's
// booking. The link survives prep, theater, recovery and completion.
func ReleasesBooking(target Status) bool {
	return target == StatusReadyForScheduling || target == StatusCancelled
}

// MarkScheduled records the confirmed booking that schedules the case.
func (l *Lifecycle) MarkScheduled(c *Case, bookingID, actorID uuid.UUID, now time.Time) error {
	if err := l.Transition(c, StatusScheduled, actorID, nil, now); err != nil {
		return err
	}
	c.bookingID = &bookingID
	return nil
}

// ReleaseSchedule moves a scheduled case back to READY_FOR_SCHEDULING when
// its booking is cancelled. Cases in any other status are left untouched.
func (l *Lifecycle) ReleaseSchedule(c *Case, bookingID, actorID uuid.UUID, now time.Time) (bool, error) {
	if c.status != StatusScheduled || c.bookingID == nil || *c.bookingID != bookingID {
		return false, nil
	}
	if err := l.Transition(c, StatusReadyForScheduling, actorID, nil, now); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Case) touch(now time.Time) {
	c.version++
	c.updatedAt = now
}
