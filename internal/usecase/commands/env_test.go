//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/resource"
	"clinic-scheduler/internal/domain/surgicalcase"
	"clinic-scheduler/internal/infra/memory"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/usecase/commands"
	"clinic-scheduler/internal/usecase/queries"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	holder    = uuid.MustParse("0b8f5c2d-9a1e-4f3b-8c7d-6e5f4a3b2c1d")
	confirmer = uuid.MustParse("5a4b3c2d-1e0f-4a9b-8c7d-6e5f4a3b2c1e")
)

var readyChecklist = surgicalcase.Checklist{
	ProcedurePlan:  true,
	RiskAssessment: true,
	AnesthesiaPlan: true,
	SignedConsents: 1,
	PreOpImages:    1,
}

var start = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

type env struct {
	uow      *memory.UnitOfWork
	clk      *clock.MockClock
	bookings commands.BookingCommands
	cases    commands.CaseCommands
	avail    commands.AvailabilityCommands
	theater  *resource.Resource
}

func newEnv(t *testing.T) *env {
	t.Helper()
	uow := memory.NewUnitOfWork()
	clk := clock.NewMockClock(start)
	policy := shared.SchedulingPolicy{
		MaxSpanDays: 31,
		HoldTTL:     10 * time.Minute,
		Defaults:    availability.SlotConfiguration{DefaultDurationMinutes: 30, StepIntervalMinutes: 15},
	}
	lifecycle := surgicalcase.NewLifecycle(surgicalcase.NewChecklistReadiness())

	e := &env{
		uow:      uow,
		clk:      clk,
		bookings: commands.NewBookingCommands(uow, booking.NewFactory(clk, policy.HoldTTL), lifecycle, policy, clk),
		cases:    commands.NewCaseCommands(uow, lifecycle, clk),
		avail:    commands.NewAvailabilityCommands(uow, nil),
	}

	theater, err := e.avail.CreateResource(context.Background(), commands.CreateResourceCommand{
		Name:     "Theater 1",
		Kind:     resource.KindTheater,
		Timezone: "UTC",
	})
	require.NoError(t, err)
	e.theater = theater
	return e
}

func (e *env) hold(t *testing.T, from, to time.Time, ttl time.Duration) (*queries.BookingView, error) {
	t.Helper()
	return e.bookings.Hold(context.Background(), commands.HoldCommand{
		ResourceID: e.theater.ID(),
		HolderID:   holder,
		Start:      from,
		End:        to,
		TTL:        ttl,
	})
}

// readyCase creates a case and walks it to READY_FOR_SCHEDULING.
func (e *env) readyCase(t *testing.T) *queries.CaseView {
	t.Helper()
	ctx := context.Background()
	c, err := e.cases.CreateCase(ctx, commands.CreateCaseCommand{Title: "Knee arthroscopy", Checklist: readyChecklist})
	require.NoError(t, err)
	for _, target := range []surgicalcase.Status{surgicalcase.StatusPlanning, surgicalcase.StatusReadyForScheduling} {
		c, err = e.cases.TransitionStatus(ctx, commands.TransitionCommand{CaseID: c.ID, Target: target, ActorID: confirmer})
		require.NoError(t, err)
	}
	return c
}

func (e *env) getCase(t *testing.T, id uuid.UUID) *surgicalcase.Case {
	t.Helper()
	var sc *surgicalcase.Case
	err := e.uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		sc, err = tx.Cases().GetCase(ctx, id)
		return err
	})
	require.NoError(t, err)
	return sc
}

func (e *env) getBooking(t *testing.T, id uuid.UUID) *booking.Booking {
	t.Helper()
	var b *booking.Booking
	err := e.uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		b, err = tx.Bookings().GetByID(ctx, id)
		return err
	})
	require.NoError(t, err)
	return b
}
