package commands

import (
	"context"
	"fmt"
	"log/slog"

	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/surgicalcase"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/queries"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateCaseCommand struct {
	Title     string
	Checklist surgicalcase.Checklist
	ActorID   uuid.UUID
}

type TransitionCommand struct {
	CaseID uuid.UUID
	Target surgicalcase.Status
	// ExpectedVersion, when set, must match the stored case.
	ExpectedVersion *int64
	ActorID         uuid.UUID
}

type UpdatePlanCommand struct {
	CaseID uuid.UUID
	Patch  surgicalcase.ChecklistPatch
}

type CaseCommands interface {
	CreateCase(ctx context.Context, cmd CreateCaseCommand) (*queries.CaseView, error)
	TransitionStatus(ctx context.Context, cmd TransitionCommand) (*queries.CaseView, error)
	UpdatePlan(ctx context.Context, cmd UpdatePlanCommand) (*queries.CaseView, error)
}

type caseCommandsImpl struct {
	uow       shared.UnitOfWork
	lifecycle *surgicalcase.Lifecycle
	clock     clock.Clock
}

func NewCaseCommands(uow shared.UnitOfWork, lifecycle *surgicalcase.Lifecycle, clock clock.Clock) CaseCommands {
	return &caseCommandsImpl{uow: uow, lifecycle: lifecycle, clock: clock}
}

// CreateCase stores a case and its plan in one unit of work.
func (c *caseCommandsImpl) CreateCase(ctx context.Context, cmd CreateCaseCommand) (*queries.CaseView, error) {
	sc, plan, err := surgicalcase.NewCaseWithPlan(cmd.Title, cmd.Checklist, c.clock.Now())
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Cases().Create(ctx, sc); err != nil {
			return err
		}
		return tx.Cases().CreatePlan(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	return queries.NewCaseView(sc), nil
}

func (c *caseCommandsImpl) TransitionStatus(ctx context.Context, cmd TransitionCommand) (*queries.CaseView, error) {
	if !cmd.Target.IsValid() {
		return nil, errs.Validation("status", fmt.Sprintf("unknown case status %q", cmd.Target))
	}

	var updated *surgicalcase.Case
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sc, err := tx.Cases().GetCase(ctx, cmd.CaseID)
		if err != nil {
			return err
		}
		if cmd.ExpectedVersion != nil {
			if err := sc.CheckVersion(*cmd.ExpectedVersion); err != nil {
				return err
			}
		}
		expected := sc.Version()
		from := sc.Status()
		linked := sc.BookingID()

		var plan *surgicalcase.Plan
		if surgicalcase.RequiresReadiness(from, cmd.Target) {
			plan, err = tx.Cases().GetPlan(ctx, sc.PlanID())
			if err != nil && !errs.Is(err, errs.ErrNotFound) {
				return err
			}
		}

		now := c.clock.Now()
		if err := c.lifecycle.Transition(sc, cmd.Target, cmd.ActorID, plan, now); err != nil {
			return err
		}
		if err := tx.Cases().UpdateStatus(ctx, sc, expected); err != nil {
			return err
		}

		if linked != nil && surgicalcase.ReleasesBooking(cmd.Target) {
			if err := c.cancelLinkedBooking(ctx, tx, *linked, cmd.Target); err != nil {
				return err
			}
		}
		updated = sc
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("case status changed", "case_id", updated.ID(), "status", updated.Status().String())
	return queries.NewCaseView(updated), nil
}

func (c *caseCommandsImpl) UpdatePlan(ctx context.Context, cmd UpdatePlanCommand) (*queries.CaseView, error) {
	var sc *surgicalcase.Case
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		sc, err = tx.Cases().GetCase(ctx, cmd.CaseID)
		if err != nil {
			return err
		}
		plan, err := tx.Cases().GetPlan(ctx, sc.PlanID())
		if err != nil {
			return err
		}
		if err := plan.Record(cmd.Patch.Apply(plan.Checklist()), c.clock.Now()); err != nil {
			return err
		}
		return tx.Cases().UpdatePlan(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	return queries.NewCaseView(sc), nil
}

// cancelLinkedBooking releases the slot of a case sent back for scheduling or cancelled.
func (c *caseCommandsImpl) cancelLinkedBooking(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, target surgicalcase.Status) error {
	b, err := tx.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.Status() != booking.StatusConfirmed {
		return nil
	}
	expected := b.Version()
	if _, err := b.Cancel(c.clock.Now(), expected, "case moved to "+target.String()); err != nil {
		return err
	}
	return tx.Bookings().Update(ctx, b, expected)
}
