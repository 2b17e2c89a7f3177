package queries

import (
	"context"

	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingQueries interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*BookingView, error)
	GetCase(ctx context.Context, id uuid.UUID) (*CaseView, error)
}

type bookingQueriesImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookingQueries(uow shared.UnitOfWork, clock clock.Clock) BookingQueries {
	return &bookingQueriesImpl{uow: uow, clock: clock}
}

func (q *bookingQueriesImpl) GetBooking(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	var view *BookingView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().GetByID(ctx, id)
		if err != nil {
			return err
		}
		view = NewBookingView(b, q.clock.Now())
		return nil
	})
	return view, err
}

func (q *bookingQueriesImpl) GetCase(ctx context.Context, id uuid.UUID) (*CaseView, error) {
	var view *CaseView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := tx.Cases().GetCase(ctx, id)
		if err != nil {
			return err
		}
		view = NewCaseView(c)
		return nil
	})
	return view, err
}
