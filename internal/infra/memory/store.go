package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/resource"
	"clinic-scheduler/internal/domain/surgicalcase"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var errReadOnly = errs.New("write attempted in a read-only unit of work")

type planRecord struct {
	caseID    uuid.UUID
	checklist surgicalcase.Checklist
	updatedAt time.Time
}

type state struct {
	resources map[uuid.UUID]*resource.Resource
	templates map[uuid.UUID]*availability.Template
	overrides map[uuid.UUID][]availability.Override
	blocks    map[uuid.UUID][]availability.Block
	breaks    map[uuid.UUID][]availability.Break
	bookings  map[uuid.UUID]booking.Snapshot
	cases     map[uuid.UUID]surgicalcase.CaseSnapshot
	plans     map[uuid.UUID]planRecord
}

func newState() *state {
	return &state{
		resources: map[uuid.UUID]*resource.Resource{},
		templates: map[uuid.UUID]*availability.Template{},
		overrides: map[uuid.UUID][]availability.Override{},
		blocks:    map[uuid.UUID][]availability.Block{},
		breaks:    map[uuid.UUID][]availability.Break{},
		bookings:  map[uuid.UUID]booking.Snapshot{},
		cases:     map[uuid.UUID]surgicalcase.CaseSnapshot{},
		plans:     map[uuid.UUID]planRecord{},
	}
}

// clone copies every map. Stored values are immutable snapshots, so the
// copy is isolated from the original.
func (s *state) clone() *state {
	return &state{
		resources: maps.Clone(s.resources),
		templates: maps.Clone(s.templates),
		overrides: maps.Clone(s.overrides),
		blocks:    maps.Clone(s.blocks),
		breaks:    maps.Clone(s.breaks),
		bookings:  maps.Clone(s.bookings),
		cases:     maps.Clone(s.cases),
		plans:     maps.Clone(s.plans),
	}
}

// UnitOfWork is an in-process store. Within serialises writers behind one
// lock and commits by swapping in the mutated copy, so a failed fn leaves
// no trace.
type UnitOfWork struct {
	mu    sync.RWMutex
	state *state
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{state: newState()}
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	working := u.state.clone()
	if err := fn(ctx, &memTx{s: working}); err != nil {
		return err
	}
	u.state = working
	return nil
}

func (u *UnitOfWork) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.mu.RLock()
	defer u.mu.RUnlock()

	return fn(ctx, &memTx{s: u.state, readOnly: true})
}

type memTx struct {
	s        *state
	readOnly bool
}

func (t *memTx) Availability() shared.AvailabilityRepository { return &availabilityRepo{t} }
func (t *memTx) Bookings() shared.BookingRepository          { return &bookingRepo{t} }
func (t *memTx) Cases() shared.CaseRepository                { return &caseRepo{t} }
func (t *memTx) Resources() shared.ResourceRepository        { return &resourceRepo{t} }

func (t *memTx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

type resourceRepo struct{ tx *memTx }

func (r *resourceRepo) GetByID(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	res, ok := r.tx.s.resources[id]
	if !ok {
		return nil, errs.NotFound("resource", id)
	}
	return res, nil
}

func (r *resourceRepo) Create(_ context.Context, res *resource.Resource) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, exists := r.tx.s.resources[res.ID()]; exists {
		return errs.Validation("id", "resource already exists")
	}
	r.tx.s.resources[res.ID()] = res
	return nil
}

type availabilityRepo struct{ tx *memTx }

func (r *availabilityRepo) GetTemplate(_ context.Context, resourceID uuid.UUID) (*availability.Template, error) {
	tpl, ok := r.tx.s.templates[resourceID]
	if !ok {
		return nil, errs.NotFound("availability template", resourceID)
	}
	return tpl, nil
}

func (r *availabilityRepo) ReplaceTemplate(_ context.Context, tpl *availability.Template) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.tx.s.templates[tpl.ResourceID()] = tpl
	return nil
}

func (r *availabilityRepo) GetOverrides(_ context.Context, q shared.RangeQuery) ([]availability.Override, error) {
	var out []availability.Override
	for _, o := range r.tx.s.overrides[q.ResourceID] {
		if dateInRange(o.Date, o.Date, q) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *availabilityRepo) GetBlocks(_ context.Context, q shared.RangeQuery) ([]availability.Block, error) {
	var out []availability.Block
	for _, b := range r.tx.s.blocks[q.ResourceID] {
		if dateInRange(b.StartDate, b.EndDate, q) {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetBreaks returns recurring breaks plus dated breaks inside the range.
func (r *availabilityRepo) GetBreaks(_ context.Context, q shared.RangeQuery) ([]availability.Break, error) {
	var out []availability.Break
	for _, b := range r.tx.s.breaks[q.ResourceID] {
		if b.Date == nil || dateInRange(*b.Date, *b.Date, q) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *availabilityRepo) AddOverride(_ context.Context, o availability.Override) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.tx.s.overrides[o.ResourceID] = appendCopy(r.tx.s.overrides[o.ResourceID], o)
	return nil
}

func (r *availabilityRepo) AddBlock(_ context.Context, b availability.Block) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.tx.s.blocks[b.ResourceID] = appendCopy(r.tx.s.blocks[b.ResourceID], b)
	return nil
}

func (r *availabilityRepo) AddBreak(_ context.Context, b availability.Break) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.tx.s.breaks[b.ResourceID] = appendCopy(r.tx.s.breaks[b.ResourceID], b)
	return nil
}

type bookingRepo struct{ tx *memTx }

func (r *bookingRepo) GetBookings(_ context.Context, q shared.RangeQuery) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, snap := range r.tx.s.bookings {
		if snap.ResourceID != q.ResourceID || !snap.Status.IsActive() {
			continue
		}
		if snap.Interval.Start().Before(q.To) && q.From.Before(snap.Interval.End()) {
			out = append(out, booking.Reconstruct(snap))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := out[i].Interval().Start(), out[j].Interval().Start()
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return out[i].ID().String() < out[j].ID().String()
	})
	return out, nil
}

func (r *bookingRepo) GetByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	snap, ok := r.tx.s.bookings[id]
	if !ok {
		return nil, errs.NotFound("booking", id)
	}
	return booking.Reconstruct(snap), nil
}

func (r *bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, exists := r.tx.s.bookings[b.ID()]; exists {
		return errs.Validation("id", "booking already exists")
	}
	r.tx.s.bookings[b.ID()] = b.Snapshot()
	return nil
}

func (r *bookingRepo) Update(_ context.Context, b *booking.Booking, expectedVersion int64) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	stored, ok := r.tx.s.bookings[b.ID()]
	if !ok {
		return errs.NotFound("booking", b.ID())
	}
	if stored.Version != expectedVersion {
		return &errs.StaleVersionError{Entity: "booking", ID: b.ID(), Expected: expectedVersion, Actual: stored.Version}
	}
	r.tx.s.bookings[b.ID()] = b.Snapshot()
	return nil
}

type caseRepo struct{ tx *memTx }

func (r *caseRepo) GetCase(_ context.Context, id uuid.UUID) (*surgicalcase.Case, error) {
	snap, ok := r.tx.s.cases[id]
	if !ok {
		return nil, errs.NotFound("case", id)
	}
	return surgicalcase.ReconstructCase(snap), nil
}

func (r *caseRepo) GetPlan(_ context.Context, id uuid.UUID) (*surgicalcase.Plan, error) {
	rec, ok := r.tx.s.plans[id]
	if !ok {
		return nil, errs.NotFound("plan", id)
	}
	return surgicalcase.ReconstructPlan(id, rec.caseID, rec.checklist, rec.updatedAt), nil
}

func (r *caseRepo) Create(_ context.Context, c *surgicalcase.Case) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, exists := r.tx.s.cases[c.ID()]; exists {
		return errs.Validation("id", "case already exists")
	}
	r.tx.s.cases[c.ID()] = c.Snapshot()
	return nil
}

func (r *caseRepo) CreatePlan(_ context.Context, p *surgicalcase.Plan) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, ok := r.tx.s.cases[p.CaseID()]; !ok {
		return errs.NotFound("case", p.CaseID())
	}
	r.tx.s.plans[p.ID()] = planRecord{caseID: p.CaseID(), checklist: p.Checklist(), updatedAt: p.UpdatedAt()}
	return nil
}

func (r *caseRepo) UpdatePlan(_ context.Context, p *surgicalcase.Plan) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, ok := r.tx.s.plans[p.ID()]; !ok {
		return errs.NotFound("plan", p.ID())
	}
	r.tx.s.plans[p.ID()] = planRecord{caseID: p.CaseID(), checklist: p.Checklist(), updatedAt: p.UpdatedAt()}
	return nil
}

func (r *caseRepo) UpdateStatus(_ context.Context, c *surgicalcase.Case, expectedVersion int64) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	stored, ok := r.tx.s.cases[c.ID()]
	if !ok {
		return errs.NotFound("case", c.ID())
	}
	if stored.Version != expectedVersion {
		return &errs.StaleVersionError{Entity: "case", ID: c.ID(), Expected: expectedVersion, Actual: stored.Version}
	}
	r.tx.s.cases[c.ID()] = c.Snapshot()
	return nil
}

// dateInRange reports whether the calendar dates [first, last] touch the
// query range. Dates are compared as civil dates.
func dateInRange(first, last time.Time, q shared.RangeQuery) bool {
	lastQueried := q.To.Add(-time.Nanosecond)
	return civil(first) <= civil(lastQueried) && civil(q.From) <= civil(last)
}

func civil(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// appendCopy never writes into a backing array shared with another state.
func appendCopy[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}
