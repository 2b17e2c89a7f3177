//go:build unit

package queries_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/conflict"
	"clinic-scheduler/internal/domain/resource"
	"clinic-scheduler/internal/domain/surgicalcase"
	"clinic-scheduler/internal/infra/memory"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/pkg/ptr"
	"clinic-scheduler/internal/usecase/commands"
	"clinic-scheduler/internal/usecase/queries"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return monday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// countingCache mimics the fenced Redis cache: Invalidate advances the
// fence and Fill drops writes carrying an older one.
type countingCache struct {
	mu     sync.Mutex
	tpls   map[uuid.UUID]*availability.Template
	fences map[uuid.UUID]int64
	hits   int
	misses int
	fills  int
	// beforeFill runs between the database read and the cache write.
	beforeFill func()
}

func newCountingCache() *countingCache {
	return &countingCache{tpls: map[uuid.UUID]*availability.Template{}, fences: map[uuid.UUID]int64{}}
}

func (c *countingCache) Get(_ context.Context, id uuid.UUID) (*availability.Template, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tpl, ok := c.tpls[id]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return tpl, c.fences[id], ok
}

func (c *countingCache) Fill(_ context.Context, tpl *availability.Template, fence int64) {
	c.mu.Lock()
	hook := c.beforeFill
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fences[tpl.ResourceID()] != fence {
		return
	}
	c.tpls[tpl.ResourceID()] = tpl
	c.fills++
}

func (c *countingCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fences[id]++
	delete(c.tpls, id)
}

type fixture struct {
	clk      *clock.MockClock
	cache    *countingCache
	queries  queries.AvailabilityQueries
	bookings commands.BookingCommands
	avail    commands.AvailabilityCommands
	theater  *resource.Resource
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	uow := memory.NewUnitOfWork()
	clk := clock.NewMockClock(at(7, 0))
	cache := newCountingCache()
	policy := shared.SchedulingPolicy{
		MaxSpanDays: 31,
		HoldTTL:     10 * time.Minute,
		Defaults:    availability.SlotConfiguration{DefaultDurationMinutes: 30, StepIntervalMinutes: 15},
	}
	lifecycle := surgicalcase.NewLifecycle(surgicalcase.NewChecklistReadiness())

	f := &fixture{
		clk:      clk,
		cache:    cache,
		queries:  queries.NewAvailabilityQueries(uow, cache, availability.NewEngine(policy.MaxSpanDays), conflict.NewDetector(), policy, clk),
		bookings: commands.NewBookingCommands(uow, booking.NewFactory(clk, policy.HoldTTL), lifecycle, policy, clk),
		avail:    commands.NewAvailabilityCommands(uow, cache),
	}

	ctx := context.Background()
	theater, err := f.avail.CreateResource(ctx, commands.CreateResourceCommand{Name: "Theater 2", Kind: resource.KindTheater, Timezone: "UTC"})
	require.NoError(t, err)
	f.theater = theater

	nine, _ := availability.NewTimeOfDay(9, 0)
	ten, _ := availability.NewTimeOfDay(10, 0)
	_, err = f.avail.ReplaceTemplate(ctx, commands.ReplaceTemplateCommand{
		ResourceID: theater.ID(),
		Sessions:   []availability.Session{{Weekday: time.Monday, Window: availability.DayWindow{Start: nine, End: ten}}},
		Config:     availability.SlotConfiguration{DefaultDurationMinutes: 30, StepIntervalMinutes: 15},
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) hold(t *testing.T, from, to time.Time, ttl time.Duration) *queries.BookingView {
	t.Helper()
	b, err := f.bookings.Hold(context.Background(), commands.HoldCommand{
		ResourceID: f.theater.ID(),
		HolderID:   uuid.New(),
		Start:      from,
		End:        to,
		TTL:        ttl,
	})
	require.NoError(t, err)
	return b
}

func starts(slots []queries.SlotView) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.Format("15:04"))
	}
	return out
}

func TestGenerateSlots(t *testing.T) {
	t.Run("template day", func(t *testing.T) {
		f := newFixture(t)

		slots, err := f.queries.GenerateSlots(context.Background(), queries.SlotsQuery{ResourceID: f.theater.ID(), From: monday})
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:15", "09:30"}, starts(slots))
	})

	t.Run("held slots disappear until the hold lapses", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.hold(t, at(9, 0), at(9, 30), 5*time.Minute)

		slots, err := f.queries.GenerateSlots(ctx, queries.SlotsQuery{ResourceID: f.theater.ID(), From: monday})
		require.NoError(t, err)
		assert.Equal(t, []string{"09:30"}, starts(slots))

		f.clk.Add(6 * time.Minute)

		slots, err = f.queries.GenerateSlots(ctx, queries.SlotsQuery{ResourceID: f.theater.ID(), From: monday})
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:15", "09:30"}, starts(slots))
	})

	t.Run("include unavailable", func(t *testing.T) {
		f := newFixture(t)
		f.hold(t, at(9, 0), at(9, 30), 0)

		slots, err := f.queries.GenerateSlots(context.Background(), queries.SlotsQuery{
			ResourceID:         f.theater.ID(),
			From:               monday,
			IncludeUnavailable: true,
		})
		require.NoError(t, err)
		require.Len(t, slots, 3)
		assert.False(t, slots[0].Available)
		assert.False(t, slots[1].Available)
		assert.True(t, slots[2].Available)
	})

	t.Run("remove override closes the day", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.avail.AddOverride(context.Background(), availability.Override{
			ResourceID: f.theater.ID(),
			Date:       monday,
			Kind:       availability.OverrideRemove,
			Reason:     "maintenance",
		})
		require.NoError(t, err)

		slots, err := f.queries.GenerateSlots(context.Background(), queries.SlotsQuery{ResourceID: f.theater.ID(), From: monday})
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("span limit", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.queries.GenerateSlots(context.Background(), queries.SlotsQuery{
			ResourceID: f.theater.ID(),
			From:       monday,
			To:         monday.AddDate(0, 0, 32),
		})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.queries.GenerateSlots(context.Background(), queries.SlotsQuery{ResourceID: uuid.New(), From: monday})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("template reads go through the cache", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		q := queries.SlotsQuery{ResourceID: f.theater.ID(), From: monday}

		_, err := f.queries.GenerateSlots(ctx, q)
		require.NoError(t, err)
		_, err = f.queries.GenerateSlots(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, 1, f.cache.misses)
		assert.Equal(t, 1, f.cache.hits)

		eleven, _ := availability.NewTimeOfDay(11, 0)
		noon, _ := availability.NewTimeOfDay(12, 0)
		_, err = f.avail.ReplaceTemplate(ctx, commands.ReplaceTemplateCommand{
			ResourceID: f.theater.ID(),
			Sessions:   []availability.Session{{Weekday: time.Monday, Window: availability.DayWindow{Start: eleven, End: noon}}},
			Config:     availability.SlotConfiguration{DefaultDurationMinutes: 60, StepIntervalMinutes: 60},
		})
		require.NoError(t, err)

		slots, err := f.queries.GenerateSlots(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"11:00"}, starts(slots))
	})

	t.Run("template read before an invalidation is not cached", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		q := queries.SlotsQuery{ResourceID: f.theater.ID(), From: monday}

		f.cache.beforeFill = func() { f.cache.Invalidate(ctx, f.theater.ID()) }
		slots, err := f.queries.GenerateSlots(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:15", "09:30"}, starts(slots))
		assert.Equal(t, 0, f.cache.fills)

		f.cache.beforeFill = nil
		_, err = f.queries.GenerateSlots(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, 2, f.cache.misses)
		assert.Equal(t, 1, f.cache.fills)

		_, err = f.queries.GenerateSlots(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, 1, f.cache.hits)
	})
}

func TestFindConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	held := f.hold(t, at(10, 0), at(10, 30), 0)

	tests := []struct {
		name    string
		query   queries.ConflictQuery
		want    bool
		wantErr error
	}{
		{
			name:  "overlap",
			query: queries.ConflictQuery{ResourceID: f.theater.ID(), Start: at(10, 15), End: at(10, 45)},
			want:  true,
		},
		{
			name:  "adjacent",
			query: queries.ConflictQuery{ResourceID: f.theater.ID(), Start: at(10, 30), End: at(11, 0)},
			want:  false,
		},
		{
			name:  "buffer widens the check",
			query: queries.ConflictQuery{ResourceID: f.theater.ID(), Start: at(10, 30), End: at(11, 0), BufferMinutes: ptr.To(5)},
			want:  true,
		},
		{
			name:  "excluded booking",
			query: queries.ConflictQuery{ResourceID: f.theater.ID(), Start: at(10, 0), End: at(10, 30), ExcludeBookingID: held.ID},
			want:  false,
		},
		{
			name:    "negative buffer",
			query:   queries.ConflictQuery{ResourceID: f.theater.ID(), Start: at(10, 0), End: at(10, 30), BufferMinutes: ptr.To(-1)},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "malformed interval",
			query:   queries.ConflictQuery{ResourceID: f.theater.ID(), Start: at(11, 0), End: at(10, 0)},
			wantErr: errs.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := f.queries.FindConflicts(ctx, tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.HasConflict)
			if tt.want {
				require.Len(t, report.Conflicts, 1)
				assert.Equal(t, held.ID, report.Conflicts[0].BookingID)
			} else {
				assert.Empty(t, report.Conflicts)
			}
		})
	}
}

func TestResourceUtilization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.hold(t, at(9, 0), at(10, 0), 0)
	f.hold(t, at(11, 0), at(11, 30), time.Minute)

	view, err := f.queries.ResourceUtilization(ctx, queries.UtilizationQuery{ResourceID: f.theater.ID(), From: at(8, 0), To: at(12, 0)})
	require.NoError(t, err)
	assert.Equal(t, 90, view.BusyMinutes)
	assert.Equal(t, 240, view.TotalMinutes)
	assert.InDelta(t, 37.5, view.UtilizationPercentage, 0.001)

	f.clk.Add(2 * time.Minute)

	view, err = f.queries.ResourceUtilization(ctx, queries.UtilizationQuery{ResourceID: f.theater.ID(), From: at(8, 0), To: at(12, 0)})
	require.NoError(t, err)
	assert.Equal(t, 60, view.BusyMinutes)
	assert.Equal(t, 180, view.FreeMinutes)
	assert.InDelta(t, 25.0, view.UtilizationPercentage, 0.001)

	_, err = f.queries.ResourceUtilization(ctx, queries.UtilizationQuery{ResourceID: f.theater.ID(), From: at(8, 0), To: at(8, 0).AddDate(0, 1, 1)})
	assert.ErrorIs(t, err, errs.ErrValidation)
}
