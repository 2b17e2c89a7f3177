package shared

import (
	"context"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/resource"
	"clinic-scheduler/internal/domain/surgicalcase"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: one atomic unit for a conflict check and the writes that depend on it
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: consistent snapshot for multi-repository reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes repositories bound to one unit of work.
type Tx interface {
	Availability() AvailabilityRepository
	Bookings() BookingRepository
	Cases() CaseRepository
	Resources() ResourceRepository
}

type AvailabilityRepository interface {
	// GetTemplate returns errs.ErrNotFound when the resource has no template.
	GetTemplate(ctx context.Context, resourceID uuid.UUID) (*availability.Template, error)
	GetOverrides(ctx context.Context, q RangeQuery) ([]availability.Override, error)
	GetBlocks(ctx context.Context, q RangeQuery) ([]availability.Block, error)
	GetBreaks(ctx context.Context, q RangeQuery) ([]availability.Break, error)
	ReplaceTemplate(ctx context.Context, tpl *availability.Template) error
	AddOverride(ctx context.Context, o availability.Override) error
	AddBlock(ctx context.Context, b availability.Block) error
	AddBreak(ctx context.Context, b availability.Break) error
}

type BookingRepository interface {
	// GetBookings returns provisional and confirmed bookings overlapping the
	// range. Expiry is applied by the caller.
	GetBookings(ctx context.Context, q RangeQuery) ([]*booking.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	Create(ctx context.Context, b *booking.Booking) error
	// Update stores b only if the stored version still equals expectedVersion.
	Update(ctx context.Context, b *booking.Booking, expectedVersion int64) error
}

type CaseRepository interface {
	GetCase(ctx context.Context, id uuid.UUID) (*surgicalcase.Case, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*surgicalcase.Plan, error)
	Create(ctx context.Context, c *surgicalcase.Case) error
	CreatePlan(ctx context.Context, p *surgicalcase.Plan) error
	UpdatePlan(ctx context.Context, p *surgicalcase.Plan) error
	// UpdateStatus stores c only if the stored version still equals expectedVersion.
	UpdateStatus(ctx context.Context, c *surgicalcase.Case, expectedVersion int64) error
}

type ResourceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	Create(ctx context.Context, r *resource.Resource) error
}

// TemplateCache fronts AvailabilityRepository.GetTemplate on the read path.
// Implementations swallow their own failures; a miss is always safe.
//
// Get reports the resource's current fence alongside a miss. The fence must
// be read before the caller's transaction starts and handed back to Fill,
// which stores the template only if no Invalidate happened in between.
type TemplateCache interface {
	Get(ctx context.Context, resourceID uuid.UUID) (tpl *availability.Template, fence int64, ok bool)
	Fill(ctx context.Context, tpl *availability.Template, fence int64)
	Invalidate(ctx context.Context, resourceID uuid.UUID)
}

type NoopTemplateCache struct{}

func (NoopTemplateCache) Get(context.Context, uuid.UUID) (*availability.Template, int64, bool) {
	return nil, 0, false
}
func (NoopTemplateCache) Fill(context.Context, *availability.Template, int64) {}
func (NoopTemplateCache) Invalidate(context.Context, uuid.UUID)              {}
