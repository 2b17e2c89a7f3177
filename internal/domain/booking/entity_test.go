//go:build unit

package booking_test

import (
	"errors"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/interval"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resourceID = builder.NewBookingBuilder().ResourceID

func at(hour, minute int) time.Time {
	day := builder.BaseTime.Truncate(24 * time.Hour)
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func holdSpec(start, end time.Time) booking.HoldSpec {
	return booking.HoldSpec{
		ResourceID: resourceID,
		HolderID:   uuid.New(),
		Interval:   interval.MustNew(start, end),
		TTL:        5 * time.Minute,
	}
}

func newFactory() (*booking.Factory, *clock.MockClock) {
	clk := clock.NewMockClock(builder.BaseTime)
	return booking.NewFactory(clk, 10*time.Minute), clk
}

func TestHold(t *testing.T) {
	t.Run("creates provisional booking", func(t *testing.T) {
		factory, clk := newFactory()

		actual, err := factory.Hold(holdSpec(at(10, 0), at(10, 30)), nil)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, booking.StatusProvisional, actual.Status())
		assert.Equal(t, int64(1), actual.Version())
		assert.Equal(t, clk.Now().Add(5*time.Minute), actual.ExpiresAt())
		assert.Equal(t, clk.Now(), actual.CreatedAt())
	})

	t.Run("default ttl", func(t *testing.T) {
		factory, clk := newFactory()
		spec := holdSpec(at(10, 0), at(10, 30))
		spec.TTL = 0

		actual, err := factory.Hold(spec, nil)
		require.NoError(t, err)
		assert.Equal(t, clk.Now().Add(10*time.Minute), actual.ExpiresAt())
	})

	t.Run("validation", func(t *testing.T) {
		factory, _ := newFactory()
		cases := []struct {
			name   string
			mutate func(*booking.HoldSpec)
		}{
			{name: "missing resource", mutate: func(s *booking.HoldSpec) { s.ResourceID = uuid.Nil }},
			{name: "missing holder", mutate: func(s *booking.HoldSpec) { s.HolderID = uuid.Nil }},
			{name: "missing interval", mutate: func(s *booking.HoldSpec) { s.Interval = interval.TimeInterval{} }},
			{name: "negative ttl", mutate: func(s *booking.HoldSpec) { s.TTL = -time.Second }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				spec := holdSpec(at(10, 0), at(10, 30))
				tc.mutate(&spec)
				_, err := factory.Hold(spec, nil)
				assert.ErrorIs(t, err, errs.ErrValidation)
			})
		}
	})

	t.Run("overlapping active hold conflicts", func(t *testing.T) {
		factory, _ := newFactory()
		existing := builder.NewBookingBuilder().WithInterval(at(10, 15), at(10, 45)).BuildDomain()

		_, err := factory.Hold(holdSpec(at(10, 0), at(10, 30)), []*booking.Booking{existing})
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.True(t, errs.IsRetryable(err))

		var conflictErr *booking.ConflictError
		require.True(t, errors.As(err, &conflictErr))
		require.Len(t, conflictErr.Conflicts, 1)
		assert.Equal(t, existing.ID(), conflictErr.Conflicts[0].BookingID)
		assert.True(t, conflictErr.Conflicts[0].Interval.Equals(existing.Interval()))
	})

	t.Run("cancelled and expired bookings do not conflict", func(t *testing.T) {
		factory, _ := newFactory()
		cancelled := builder.NewBookingBuilder().
			WithInterval(at(10, 0), at(10, 30)).
			WithStatus(booking.StatusCancelled).
			BuildDomain()
		expired := builder.NewBookingBuilder().
			WithInterval(at(10, 0), at(10, 30)).
			With(func(b *builder.BookingBuilder) { b.ExpiresAt = builder.BaseTime.Add(-time.Second) }).
			BuildDomain()

		_, err := factory.Hold(holdSpec(at(10, 0), at(10, 30)), []*booking.Booking{cancelled, expired})
		assert.NoError(t, err)
	})

	t.Run("buffer", func(t *testing.T) {
		factory, _ := newFactory()
		adjacent := builder.NewBookingBuilder().
			WithInterval(at(10, 30), at(11, 0)).
			WithStatus(booking.StatusConfirmed).
			BuildDomain()

		_, err := factory.Hold(holdSpec(at(10, 0), at(10, 30)), []*booking.Booking{adjacent})
		assert.NoError(t, err)

		spec := holdSpec(at(10, 0), at(10, 30))
		spec.BufferMinutes = 5
		_, err = factory.Hold(spec, []*booking.Booking{adjacent})
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("second hold succeeds once the first expires", func(t *testing.T) {
		factory, clk := newFactory()

		first, err := factory.Hold(holdSpec(at(10, 0), at(10, 30)), nil)
		require.NoError(t, err)

		_, err = factory.Hold(holdSpec(at(10, 10), at(10, 40)), []*booking.Booking{first})
		require.ErrorIs(t, err, errs.ErrConflict)

		clk.Add(5*time.Minute + time.Second)
		assert.Equal(t, booking.StatusExpired, first.EffectiveStatus(clk.Now()))

		second, err := factory.Hold(holdSpec(at(10, 10), at(10, 40)), []*booking.Booking{first})
		require.NoError(t, err)
		assert.Equal(t, booking.StatusProvisional, second.Status())
	})
}

func TestConfirm(t *testing.T) {
	confirmer := uuid.New()

	t.Run("confirms provisional hold", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()

		err := b.Confirm(builder.BaseTime, 1, confirmer, nil, 0)
		require.NoError(t, err)

		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, int64(2), b.Version())
		require.NotNil(t, b.ConfirmedBy())
		assert.Equal(t, confirmer, *b.ConfirmedBy())
	})

	t.Run("expired hold", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()

		err := b.Confirm(b.ExpiresAt().Add(time.Second), 1, confirmer, nil, 0)
		require.ErrorIs(t, err, errs.ErrExpiredHold)
		assert.False(t, errs.IsRetryable(err))
		assert.Equal(t, int64(1), b.Version())
	})

	t.Run("expiry is checked before version", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()

		err := b.Confirm(b.ExpiresAt().Add(time.Second), 7, confirmer, nil, 0)
		assert.ErrorIs(t, err, errs.ErrExpiredHold)
	})

	t.Run("at expiresAt the hold is still valid", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()

		assert.NoError(t, b.Confirm(b.ExpiresAt(), 1, confirmer, nil, 0))
	})

	t.Run("stale version", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()

		err := b.Confirm(builder.BaseTime, 2, confirmer, nil, 0)
		require.ErrorIs(t, err, errs.ErrStaleVersion)
		assert.True(t, errs.IsRetryable(err))

		var stale *errs.StaleVersionError
		require.True(t, errors.As(err, &stale))
		assert.Equal(t, int64(2), stale.Expected)
		assert.Equal(t, int64(1), stale.Actual)
	})

	t.Run("stale version after concurrent cancel", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()

		changed, err := b.Cancel(builder.BaseTime, 1, "patient request")
		require.NoError(t, err)
		require.True(t, changed)

		err = b.Confirm(builder.BaseTime, 1, confirmer, nil, 0)
		assert.ErrorIs(t, err, errs.ErrStaleVersion)
	})

	t.Run("competing confirmed booking", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()
		competitor := builder.NewBookingBuilder().
			WithInterval(b.Interval().Start(), b.Interval().End()).
			WithStatus(booking.StatusConfirmed).
			BuildDomain()

		err := b.Confirm(builder.BaseTime, 1, confirmer, []*booking.Booking{competitor}, 0)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, booking.StatusProvisional, b.Status())
	})

	t.Run("competing provisional hold is ignored", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()
		competitor := builder.NewBookingBuilder().
			WithInterval(b.Interval().Start(), b.Interval().End()).
			BuildDomain()

		assert.NoError(t, b.Confirm(builder.BaseTime, 1, confirmer, []*booking.Booking{competitor}, 0))
	})

	t.Run("self is never a competitor", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()
		self := builder.NewBookingBuilder().
			With(func(x *builder.BookingBuilder) { x.ID = b.ID() }).
			WithStatus(booking.StatusConfirmed).
			BuildDomain()

		assert.NoError(t, b.Confirm(builder.BaseTime, 1, confirmer, []*booking.Booking{self}, 0))
	})

	t.Run("already confirmed", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithStatus(booking.StatusConfirmed).BuildDomain()

		err := b.Confirm(builder.BaseTime, 1, confirmer, nil, 0)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestCancel(t *testing.T) {
	t.Run("cancels provisional and confirmed bookings", func(t *testing.T) {
		for _, status := range []booking.Status{booking.StatusProvisional, booking.StatusConfirmed} {
			b := builder.NewBookingBuilder().WithStatus(status).BuildDomain()

			changed, err := b.Cancel(builder.BaseTime, 1, "theater closed")
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, booking.StatusCancelled, b.Status())
			assert.Equal(t, "theater closed", b.CancelReason())
			assert.Equal(t, int64(2), b.Version())
		}
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithStatus(booking.StatusCancelled).BuildDomain()

		changed, err := b.Cancel(builder.BaseTime, 99, "again")
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, int64(1), b.Version())
		assert.Empty(t, b.CancelReason())
	})

	t.Run("expired hold cannot be cancelled", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()

		_, err := b.Cancel(b.ExpiresAt().Add(time.Minute), 1, "late")
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("stale version", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()

		_, err := b.Cancel(builder.BaseTime, 3, "late")
		assert.ErrorIs(t, err, errs.ErrStaleVersion)
	})
}

func TestReschedule(t *testing.T) {
	confirmed := func() *booking.Booking {
		return builder.NewBookingBuilder().
			WithInterval(at(10, 0), at(10, 30)).
			WithStatus(booking.StatusConfirmed).
			BuildDomain()
	}

	t.Run("moves the interval and bumps the version", func(t *testing.T) {
		b := confirmed()
		next := interval.MustNew(at(10, 15), at(10, 45))

		require.NoError(t, b.Reschedule(builder.BaseTime, 1, next, []*booking.Booking{b}, 0))
		assert.True(t, b.Interval().Equals(next))
		assert.Equal(t, int64(2), b.Version())
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("conflicts with another booking", func(t *testing.T) {
		b := confirmed()
		other := builder.NewBookingBuilder().
			WithInterval(at(11, 0), at(11, 30)).
			WithStatus(booking.StatusConfirmed).
			BuildDomain()

		err := b.Reschedule(builder.BaseTime, 1, interval.MustNew(at(11, 15), at(11, 45)), []*booking.Booking{other}, 0)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.True(t, b.Interval().Equals(interval.MustNew(at(10, 0), at(10, 30))))
		assert.Equal(t, int64(1), b.Version())
	})

	t.Run("only confirmed bookings", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()

		err := b.Reschedule(builder.BaseTime, 1, interval.MustNew(at(12, 0), at(12, 30)), nil, 0)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("stale version", func(t *testing.T) {
		b := confirmed()

		err := b.Reschedule(builder.BaseTime, 5, interval.MustNew(at(12, 0), at(12, 30)), nil, 0)
		assert.ErrorIs(t, err, errs.ErrStaleVersion)
	})
}
