package commands

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/domain/resource"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateResourceCommand struct {
	Name        string
	Kind        resource.Kind
	Timezone    string
	LeadTimeMin int
}

type ReplaceTemplateCommand struct {
	ResourceID uuid.UUID
	Sessions   []availability.Session
	Config     availability.SlotConfiguration
}

type AvailabilityCommands interface {
	CreateResource(ctx context.Context, cmd CreateResourceCommand) (*resource.Resource, error)
	ReplaceTemplate(ctx context.Context, cmd ReplaceTemplateCommand) (*availability.Template, error)
	AddOverride(ctx context.Context, o availability.Override) (*availability.Override, error)
	AddBlock(ctx context.Context, b availability.Block) (*availability.Block, error)
	AddBreak(ctx context.Context, b availability.Break) (*availability.Break, error)
}

type availabilityCommandsImpl struct {
	uow   shared.UnitOfWork
	cache shared.TemplateCache
}

func NewAvailabilityCommands(uow shared.UnitOfWork, cache shared.TemplateCache) AvailabilityCommands {
	if cache == nil {
		cache = shared.NoopTemplateCache{}
	}
	return &availabilityCommandsImpl{uow: uow, cache: cache}
}

func (c *availabilityCommandsImpl) CreateResource(ctx context.Context, cmd CreateResourceCommand) (*resource.Resource, error) {
	res, err := resource.NewResource(uuid.New(), cmd.Name, cmd.Kind, cmd.Timezone, cmd.LeadTimeMin)
	if err != nil {
		return nil, err
	}
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Resources().Create(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ReplaceTemplate swaps the resource's template wholesale and drops the
// cached copy once the write has committed.
func (c *availabilityCommandsImpl) ReplaceTemplate(ctx context.Context, cmd ReplaceTemplateCommand) (*availability.Template, error) {
	tpl, err := availability.NewTemplate(cmd.ResourceID, cmd.Sessions, cmd.Config)
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Resources().GetByID(ctx, cmd.ResourceID); err != nil {
			return err
		}
		return tx.Availability().ReplaceTemplate(ctx, tpl)
	})
	if err != nil {
		return nil, err
	}

	c.cache.Invalidate(ctx, cmd.ResourceID)
	return tpl, nil
}

func (c *availabilityCommandsImpl) AddOverride(ctx context.Context, o availability.Override) (*availability.Override, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	o.ID = uuid.New()
	o.Date = civilDate(o.Date)
	err := c.withResource(ctx, o.ResourceID, func(ctx context.Context, tx shared.Tx) error {
		return tx.Availability().AddOverride(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *availabilityCommandsImpl) AddBlock(ctx context.Context, b availability.Block) (*availability.Block, error) {
	b.StartDate, b.EndDate = civilDate(b.StartDate), civilDate(b.EndDate)
	if b.EndDate.Before(b.StartDate) {
		return nil, errs.Validation("end_date", "must not be before start_date")
	}
	if b.Window != nil {
		if err := b.Window.Validate(); err != nil {
			return nil, err
		}
	}
	b.ID = uuid.New()
	err := c.withResource(ctx, b.ResourceID, func(ctx context.Context, tx shared.Tx) error {
		return tx.Availability().AddBlock(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *availabilityCommandsImpl) AddBreak(ctx context.Context, b availability.Break) (*availability.Break, error) {
	if b.Weekday != nil && b.Date != nil {
		return nil, errs.Validation("break", "set either weekday or date, not both")
	}
	if b.Window != nil {
		if err := b.Window.Validate(); err != nil {
			return nil, err
		}
	}
	if b.Date != nil {
		d := civilDate(*b.Date)
		b.Date = &d
	}
	b.ID = uuid.New()
	err := c.withResource(ctx, b.ResourceID, func(ctx context.Context, tx shared.Tx) error {
		return tx.Availability().AddBreak(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *availabilityCommandsImpl) withResource(ctx context.Context, resourceID uuid.UUID, fn func(ctx context.Context, tx shared.Tx) error) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Resources().GetByID(ctx, resourceID); err != nil {
			return err
		}
		return fn(ctx, tx)
	})
}

// civilDate keeps only the calendar date, as midnight UTC.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
