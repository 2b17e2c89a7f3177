package commands

import (
	"context"
	"log/slog"
	"time"

	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/interval"
	"clinic-scheduler/internal/domain/surgicalcase"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/queries"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

type HoldCommand struct {
	ResourceID uuid.UUID
	CaseID     *uuid.UUID
	HolderID   uuid.UUID
	Start      time.Time
	End        time.Time
	// TTL falls back to the configured hold TTL when zero.
	TTL time.Duration
}

type ConfirmCommand struct {
	BookingID       uuid.UUID
	ExpectedVersion int64
	ConfirmerID     uuid.UUID
}

type CancelCommand struct {
	BookingID       uuid.UUID
	ExpectedVersion int64
	Reason          string
	ActorID         uuid.UUID
}

type RescheduleCommand struct {
	BookingID       uuid.UUID
	ExpectedVersion int64
	Start           time.Time
	End             time.Time
	ActorID         uuid.UUID
}

type BookingCommands interface {
	Hold(ctx context.Context, cmd HoldCommand) (*queries.BookingView, error)
	Confirm(ctx context.Context, cmd ConfirmCommand) (*queries.BookingView, error)
	Cancel(ctx context.Context, cmd CancelCommand) (*queries.BookingView, error)
	Reschedule(ctx context.Context, cmd RescheduleCommand) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow       shared.UnitOfWork
	factory   *booking.Factory
	lifecycle *surgicalcase.Lifecycle
	policy    shared.SchedulingPolicy
	clock     clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	factory *booking.Factory,
	lifecycle *surgicalcase.Lifecycle,
	policy shared.SchedulingPolicy,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:       uow,
		factory:   factory,
		lifecycle: lifecycle,
		policy:    policy,
		clock:     clock,
	}
}

func (c *bookingCommandsImpl) Hold(ctx context.Context, cmd HoldCommand) (*queries.BookingView, error) {
	iv, err := interval.New(cmd.Start, cmd.End)
	if err != nil {
		return nil, err
	}

	var held *booking.Booking
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Resources().GetByID(ctx, cmd.ResourceID)
		if err != nil {
			return err
		}
		if !res.IsBookableAt(c.clock.Now(), iv.Start()) {
			return errs.Validation("start", "lead time requirement not met")
		}

		if cmd.CaseID != nil {
			sc, err := tx.Cases().GetCase(ctx, *cmd.CaseID)
			if err != nil {
				return err
			}
			if !sc.IsSchedulable() {
				return &surgicalcase.InvalidTransitionError{CaseID: sc.ID(), From: sc.Status(), To: surgicalcase.StatusScheduled}
			}
		}

		buffer, err := c.bufferFor(ctx, tx, cmd.ResourceID)
		if err != nil {
			return err
		}
		existing, err := tx.Bookings().GetBookings(ctx, shared.Around(cmd.ResourceID, iv, buffer))
		if err != nil {
			return err
		}

		held, err = c.factory.Hold(booking.HoldSpec{
			ResourceID:    cmd.ResourceID,
			CaseID:        cmd.CaseID,
			HolderID:      cmd.HolderID,
			Interval:      iv,
			TTL:           c.ttl(cmd.TTL),
			BufferMinutes: buffer,
		}, existing)
		if err != nil {
			return err
		}
		return tx.Bookings().Create(ctx, held)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("booking held",
		"booking_id", held.ID(),
		"resource_id", held.ResourceID(),
		"expires_at", held.ExpiresAt())
	return queries.NewBookingView(held, c.clock.Now()), nil
}

func (c *bookingCommandsImpl) Confirm(ctx context.Context, cmd ConfirmCommand) (*queries.BookingView, error) {
	var confirmed *booking.Booking
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().GetByID(ctx, cmd.BookingID)
		if err != nil {
			return err
		}

		buffer, err := c.bufferFor(ctx, tx, b.ResourceID())
		if err != nil {
			return err
		}
		competitors, err := tx.Bookings().GetBookings(ctx, shared.Around(b.ResourceID(), b.Interval(), buffer))
		if err != nil {
			return err
		}

		now := c.clock.Now()
		if err := b.Confirm(now, cmd.ExpectedVersion, cmd.ConfirmerID, competitors, buffer); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b, cmd.ExpectedVersion); err != nil {
			return err
		}

		if b.CaseID() != nil {
			sc, err := tx.Cases().GetCase(ctx, *b.CaseID())
			if err != nil {
				return err
			}
			expected := sc.Version()
			if err := c.lifecycle.MarkScheduled(sc, b.ID(), cmd.ConfirmerID, now); err != nil {
				return err
			}
			if err := tx.Cases().UpdateStatus(ctx, sc, expected); err != nil {
				return err
			}
		}

		confirmed = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("booking confirmed", "booking_id", confirmed.ID(), "version", confirmed.Version())
	return queries.NewBookingView(confirmed, c.clock.Now()), nil
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, cmd CancelCommand) (*queries.BookingView, error) {
	var cancelled *booking.Booking
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().GetByID(ctx, cmd.BookingID)
		if err != nil {
			return err
		}
		wasConfirmed := b.Status() == booking.StatusConfirmed

		now := c.clock.Now()
		changed, err := b.Cancel(now, cmd.ExpectedVersion, cmd.Reason)
		if err != nil {
			return err
		}
		cancelled = b
		if !changed {
			return nil
		}
		if err := tx.Bookings().Update(ctx, b, cmd.ExpectedVersion); err != nil {
			return err
		}

		if wasConfirmed && b.CaseID() != nil {
			return c.releaseCase(ctx, tx, *b.CaseID(), b.ID(), cmd.ActorID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return queries.NewBookingView(cancelled, c.clock.Now()), nil
}

func (c *bookingCommandsImpl) Reschedule(ctx context.Context, cmd RescheduleCommand) (*queries.BookingView, error) {
	next, err := interval.New(cmd.Start, cmd.End)
	if err != nil {
		return nil, err
	}

	var moved *booking.Booking
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().GetByID(ctx, cmd.BookingID)
		if err != nil {
			return err
		}
		res, err := tx.Resources().GetByID(ctx, b.ResourceID())
		if err != nil {
			return err
		}
		now := c.clock.Now()
		if !res.IsBookableAt(now, next.Start()) {
			return errs.Validation("start", "lead time requirement not met")
		}

		buffer, err := c.bufferFor(ctx, tx, b.ResourceID())
		if err != nil {
			return err
		}
		competitors, err := tx.Bookings().GetBookings(ctx, shared.Around(b.ResourceID(), next, buffer))
		if err != nil {
			return err
		}

		if err := b.Reschedule(now, cmd.ExpectedVersion, next, competitors, buffer); err != nil {
			return err
		}
		moved = b
		return tx.Bookings().Update(ctx, b, cmd.ExpectedVersion)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("booking rescheduled", "booking_id", moved.ID(), "interval", moved.Interval().String())
	return queries.NewBookingView(moved, c.clock.Now()), nil
}

func (c *bookingCommandsImpl) releaseCase(ctx context.Context, tx shared.Tx, caseID, bookingID, actorID uuid.UUID, now time.Time) error {
	sc, err := tx.Cases().GetCase(ctx, caseID)
	if err != nil {
		return err
	}
	expected := sc.Version()
	released, err := c.lifecycle.ReleaseSchedule(sc, bookingID, actorID, now)
	if err != nil || !released {
		return err
	}
	return tx.Cases().UpdateStatus(ctx, sc, expected)
}

func (c *bookingCommandsImpl) bufferFor(ctx context.Context, tx shared.Tx, resourceID uuid.UUID) (int, error) {
	tpl, err := tx.Availability().GetTemplate(ctx, resourceID)
	if errs.Is(err, errs.ErrNotFound) {
		return c.policy.Defaults.BufferMinutes, nil
	}
	if err != nil {
		return 0, err
	}
	return c.policy.SlotConfigFor(tpl).BufferMinutes, nil
}

func (c *bookingCommandsImpl) ttl(requested time.Duration) time.Duration {
	if requested > 0 {
		return requested
	}
	return c.policy.HoldTTL
}
