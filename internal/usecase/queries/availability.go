package queries

import (
	"context"
	"fmt"
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/conflict"
	"clinic-scheduler/internal/domain/interval"
	"clinic-scheduler/internal/domain/resource"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

// SlotsQuery asks for slots on the calendar dates [From, To). Dates are
// read as civil dates in the resource's own time zone. A zero To means
// the single day From.
type SlotsQuery struct {
	ResourceID         uuid.UUID
	From               time.Time
	To                 time.Time
	DurationMinutes    int
	IncludeUnavailable bool
}

type ConflictQuery struct {
	ResourceID uuid.UUID
	Start      time.Time
	End        time.Time
	// BufferMinutes overrides the resource's configured buffer when set.
	BufferMinutes    *int
	ExcludeBookingID uuid.UUID
}

type UtilizationQuery struct {
	ResourceID uuid.UUID
	From       time.Time
	To         time.Time
}

type AvailabilityQueries interface {
	GenerateSlots(ctx context.Context, q SlotsQuery) ([]SlotView, error)
	FindConflicts(ctx context.Context, q ConflictQuery) (*ConflictReport, error)
	ResourceUtilization(ctx context.Context, q UtilizationQuery) (*UtilizationView, error)
}

type availabilityQueriesImpl struct {
	uow      shared.UnitOfWork
	cache    shared.TemplateCache
	engine   *availability.Engine
	detector *conflict.Detector
	policy   shared.SchedulingPolicy
	clock    clock.Clock
}

func NewAvailabilityQueries(
	uow shared.UnitOfWork,
	cache shared.TemplateCache,
	engine *availability.Engine,
	detector *conflict.Detector,
	policy shared.SchedulingPolicy,
	clock clock.Clock,
) AvailabilityQueries {
	if cache == nil {
		cache = shared.NoopTemplateCache{}
	}
	return &availabilityQueriesImpl{
		uow:      uow,
		cache:    cache,
		engine:   engine,
		detector: detector,
		policy:   policy,
		clock:    clock,
	}
}

func (q *availabilityQueriesImpl) GenerateSlots(ctx context.Context, query SlotsQuery) ([]SlotView, error) {
	var slots []availability.Slot

	lease := q.leaseTemplate(ctx, query.ResourceID)
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Resources().GetByID(ctx, query.ResourceID)
		if err != nil {
			return err
		}

		from, to := civilRange(res, query.From, query.To)
		if err := q.engine.ValidateSpan(from, to); err != nil {
			return err
		}

		tpl, err := q.template(ctx, tx, lease)
		if err != nil {
			return err
		}

		rng := shared.NewRangeQuery(query.ResourceID, from, to)
		overrides, err := tx.Availability().GetOverrides(ctx, rng)
		if err != nil {
			return err
		}
		if tpl == nil && !hasAdditions(overrides) {
			return errs.NotFound("availability template", query.ResourceID)
		}
		blocks, err := tx.Availability().GetBlocks(ctx, rng)
		if err != nil {
			return err
		}
		breaks, err := tx.Availability().GetBreaks(ctx, rng)
		if err != nil {
			return err
		}

		cfg := q.policy.SlotConfigFor(tpl)
		buffer := time.Duration(cfg.BufferMinutes) * time.Minute
		bookings, err := tx.Bookings().GetBookings(ctx, shared.NewRangeQuery(query.ResourceID, from.Add(-buffer), to.Add(buffer)))
		if err != nil {
			return err
		}

		slots, err = q.engine.GenerateRange(availability.RangeInput{
			ResourceID:         query.ResourceID,
			From:               from,
			To:                 to,
			Template:           tpl,
			Overrides:          overrides,
			Blocks:             blocks,
			Breaks:             breaks,
			ExistingBookings:   existingBookings(bookings, q.clock.Now()),
			Config:             &cfg,
			DurationMinutes:    query.DurationMinutes,
			IncludeUnavailable: query.IncludeUnavailable,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	views := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, SlotView{Start: s.Interval.Start(), End: s.Interval.End(), Available: s.Available})
	}
	return views, nil
}

func (q *availabilityQueriesImpl) FindConflicts(ctx context.Context, query ConflictQuery) (*ConflictReport, error) {
	proposed, err := interval.New(query.Start, query.End)
	if err != nil {
		return nil, err
	}
	if query.BufferMinutes != nil && *query.BufferMinutes < 0 {
		return nil, errs.Validation("buffer_minutes", "cannot be negative")
	}

	report := &ConflictReport{Conflicts: []ConflictView{}}
	var lease templateLease
	if query.BufferMinutes == nil {
		lease = q.leaseTemplate(ctx, query.ResourceID)
	}
	err = q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Resources().GetByID(ctx, query.ResourceID); err != nil {
			return err
		}

		buffer := 0
		if query.BufferMinutes != nil {
			buffer = *query.BufferMinutes
		} else {
			tpl, err := q.template(ctx, tx, lease)
			if err != nil {
				return err
			}
			buffer = q.policy.SlotConfigFor(tpl).BufferMinutes
		}

		bookings, err := tx.Bookings().GetBookings(ctx, shared.Around(query.ResourceID, proposed, buffer))
		if err != nil {
			return err
		}
		for _, c := range booking.FindConflicts(proposed, bookings, q.clock.Now(), buffer, query.ExcludeBookingID) {
			report.Conflicts = append(report.Conflicts, NewConflictView(c))
		}
		report.HasConflict = len(report.Conflicts) > 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (q *availabilityQueriesImpl) ResourceUtilization(ctx context.Context, query UtilizationQuery) (*UtilizationView, error) {
	rng, err := interval.New(query.From, query.To)
	if err != nil {
		return nil, err
	}
	if maxSpan := time.Duration(q.engine.MaxSpanDays()) * 24 * time.Hour; rng.Duration() > maxSpan {
		return nil, errs.Validation("range", fmt.Sprintf("span exceeds %d days", q.engine.MaxSpanDays()))
	}

	var busy conflict.BusyTime
	err = q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Resources().GetByID(ctx, query.ResourceID); err != nil {
			return err
		}
		bookings, err := tx.Bookings().GetBookings(ctx, shared.NewRangeQuery(query.ResourceID, rng.Start(), rng.End()))
		if err != nil {
			return err
		}

		now := q.clock.Now()
		booked := make([]interval.TimeInterval, 0, len(bookings))
		for _, b := range bookings {
			if b.IsActiveAt(now) {
				booked = append(booked, b.Interval())
			}
		}
		busy = q.detector.CalculateBusyTime(rng, booked)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UtilizationView{
		ResourceID:            query.ResourceID,
		From:                  rng.Start(),
		To:                    rng.End(),
		BusyMinutes:           busy.BusyMinutes,
		FreeMinutes:           busy.FreeMinutes,
		TotalMinutes:          busy.TotalMinutes,
		UtilizationPercentage: busy.UtilizationPercentage,
	}, nil
}

// templateLease is a cache lookup taken before the read transaction opens,
// so a miss carries a fence no older than the transaction's snapshot.
type templateLease struct {
	resourceID uuid.UUID
	cached     *availability.Template
	fence      int64
	hit        bool
}

func (q *availabilityQueriesImpl) leaseTemplate(ctx context.Context, resourceID uuid.UUID) templateLease {
	tpl, fence, ok := q.cache.Get(ctx, resourceID)
	return templateLease{resourceID: resourceID, cached: tpl, fence: fence, hit: ok}
}

// template resolves a lease, loading and filling the cache on a miss.
// A resource without a template yields nil.
func (q *availabilityQueriesImpl) template(ctx context.Context, tx shared.Tx, lease templateLease) (*availability.Template, error) {
	if lease.hit {
		return lease.cached, nil
	}
	tpl, err := tx.Availability().GetTemplate(ctx, lease.resourceID)
	if errs.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	q.cache.Fill(ctx, tpl, lease.fence)
	return tpl, nil
}

func civilRange(res *resource.Resource, from, to time.Time) (time.Time, time.Time) {
	loc := res.Location()
	y, m, d := from.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if to.IsZero() {
		return start, start.AddDate(0, 0, 1)
	}
	y, m, d = to.Date()
	return start, time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func hasAdditions(overrides []availability.Override) bool {
	for _, o := range overrides {
		if o.Kind == availability.OverrideAdd {
			return true
		}
	}
	return false
}

func existingBookings(bookings []*booking.Booking, now time.Time) []availability.ExistingBooking {
	out := make([]availability.ExistingBooking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, availability.ExistingBooking{Interval: b.Interval(), Active: b.IsActiveAt(now)})
	}
	return out
}
