//go:build unit

package availability_test

import (
	"math/rand"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/domain/interval"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

var resourceID = uuid.MustParse("4f6a2c1e-8d3b-4a7e-9c55-1b2d3e4f5a6b")

var intervalEqual = cmp.Comparer(func(a, b interval.TimeInterval) bool { return a.Equals(b) })

func tod(t *testing.T, s string) availability.TimeOfDay {
	t.Helper()
	v, err := availability.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func window(t *testing.T, from, to string) availability.DayWindow {
	t.Helper()
	w, err := availability.NewDayWindow(tod(t, from), tod(t, to))
	require.NoError(t, err)
	return w
}

func onDay(date time.Time, hour, minute int) time.Time {
	return date.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func span(date time.Time, h1, m1, h2, m2 int) interval.TimeInterval {
	return interval.MustNew(onDay(date, h1, m1), onDay(date, h2, m2))
}

func template(t *testing.T, cfg availability.SlotConfiguration, sessions ...availability.Session) *availability.Template {
	t.Helper()
	tpl, err := availability.NewTemplate(resourceID, sessions, cfg)
	require.NoError(t, err)
	return tpl
}

func starts(slots []availability.Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Interval.Start().Format("15:04"))
	}
	return out
}

func TestGenerateSlots_BreakAndBufferedBooking(t *testing.T) {
	cfg := availability.SlotConfiguration{DefaultDurationMinutes: 10, BufferMinutes: 5, StepIntervalMinutes: 5}
	tpl := template(t, cfg, availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "09:30")})
	lunch := window(t, "09:15", "09:20")

	slots, err := availability.NewEngine(31).GenerateSlots(availability.GenerateInput{
		ResourceID: resourceID,
		Date:       monday,
		Template:   tpl,
		Breaks:     []availability.Break{{ResourceID: resourceID, Window: &lunch}},
		ExistingBookings: []availability.ExistingBooking{
			{Interval: span(monday, 9, 0, 9, 10), Active: true},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for _, s := range slots {
		assert.True(t, s.Available)
		assert.False(t, s.Interval.Start().Before(onDay(monday, 9, 15)), "slot %s starts too early", s.Interval)
	}
	assert.Equal(t, []string{"09:20"}, starts(slots))
}

func TestGenerateSlots_Resolution(t *testing.T) {
	cfg := availability.SlotConfiguration{DefaultDurationMinutes: 30, StepIntervalMinutes: 30}

	cases := []struct {
		name     string
		input    func(t *testing.T) availability.GenerateInput
		expected []string
	}{
		{
			name: "template session",
			input: func(t *testing.T) availability.GenerateInput {
				return availability.GenerateInput{
					Date:     monday,
					Template: template(t, cfg, availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "11:00")}),
				}
			},
			expected: []string{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name: "no session on weekday",
			input: func(t *testing.T) availability.GenerateInput {
				return availability.GenerateInput{
					Date:     monday,
					Template: template(t, cfg, availability.Session{Weekday: time.Tuesday, Window: window(t, "09:00", "11:00")}),
				}
			},
			expected: []string{},
		},
		{
			name: "no template",
			input: func(t *testing.T) availability.GenerateInput {
				return availability.GenerateInput{Date: monday}
			},
			expected: []string{},
		},
		{
			name: "add override replaces template sessions",
			input: func(t *testing.T) availability.GenerateInput {
				return availability.GenerateInput{
					Date:     monday,
					Template: template(t, cfg, availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "11:00")}),
					Overrides: []availability.Override{
						{Date: monday, Kind: availability.OverrideAdd, Windows: []availability.DayWindow{window(t, "14:00", "15:00")}},
					},
				}
			},
			expected: []string{"14:00", "14:30"},
		},
		{
			name: "remove override without windows closes the day",
			input: func(t *testing.T) availability.GenerateInput {
				return availability.GenerateInput{
					Date:      monday,
					Template:  template(t, cfg, availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "11:00")}),
					Overrides: []availability.Override{{Date: monday, Kind: availability.OverrideRemove}},
				}
			},
			expected: []string{},
		},
		{
			name: "remove override cuts a window",
			input: func(t *testing.T) availability.GenerateInput {
				return availability.GenerateInput{
					Date:     monday,
					Template: template(t, cfg, availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "11:00")}),
					Overrides: []availability.Override{
						{Date: monday, Kind: availability.OverrideRemove, Windows: []availability.DayWindow{window(t, "09:30", "10:00")}},
					},
				}
			},
			expected: []string{"09:00", "10:00", "10:30"},
		},
		{
			name: "override for another date is ignored",
			input: func(t *testing.T) availability.GenerateInput {
				return availability.GenerateInput{
					Date:      monday,
					Template:  template(t, cfg, availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "10:00")}),
					Overrides: []availability.Override{{Date: monday.AddDate(0, 0, 1), Kind: availability.OverrideRemove}},
				}
			},
			expected: []string{"09:00", "09:30"},
		},
		{
			name: "full day block",
			input: func(t *testing.T) availability.GenerateInput {
				return availability.GenerateInput{
					Date:     monday,
					Template: template(t, cfg, availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "11:00")}),
					Blocks: []availability.Block{
						{StartDate: monday.AddDate(0, 0, -1), EndDate: monday.AddDate(0, 0, 2), Reason: "leave"},
					},
				}
			},
			expected: []string{},
		},
		{
			name: "partial block drops overflowing slot",
			input: func(t *testing.T) availability.GenerateInput {
				w := window(t, "10:15", "10:45")
				return availability.GenerateInput{
					Date:     monday,
					Template: template(t, cfg, availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "11:00")}),
					Blocks:   []availability.Block{{StartDate: monday, EndDate: monday, Window: &w}},
				}
			},
			expected: []string{"09:00", "09:30"},
		},
		{
			name: "weekday break only on matching weekday",
			input: func(t *testing.T) availability.GenerateInput {
				tue := time.Tuesday
				w := window(t, "09:00", "10:00")
				return availability.GenerateInput{
					Date:     monday,
					Template: template(t, cfg, availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "10:00")}),
					Breaks:   []availability.Break{{Weekday: &tue, Window: &w}},
				}
			},
			expected: []string{"09:00", "09:30"},
		},
		{
			name: "inactive bookings are ignored",
			input: func(t *testing.T) availability.GenerateInput {
				return availability.GenerateInput{
					Date:     monday,
					Template: template(t, cfg, availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "10:00")}),
					ExistingBookings: []availability.ExistingBooking{
						{Interval: span(monday, 9, 0, 9, 30), Active: false},
					},
				}
			},
			expected: []string{"09:00", "09:30"},
		},
		{
			name: "duration override",
			input: func(t *testing.T) availability.GenerateInput {
				return availability.GenerateInput{
					Date:            monday,
					Template:        template(t, cfg, availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "10:00")}),
					DurationMinutes: 60,
				}
			},
			expected: []string{"09:00"},
		},
	}

	engine := availability.NewEngine(31)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slots, err := engine.GenerateSlots(tc.input(t))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, starts(slots))
		})
	}
}

func TestGenerateSlots_IncludeUnavailable(t *testing.T) {
	cfg := availability.SlotConfiguration{DefaultDurationMinutes: 30, StepIntervalMinutes: 30}
	tpl := template(t, cfg, availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "10:30")})

	slots, err := availability.NewEngine(31).GenerateSlots(availability.GenerateInput{
		Date:     monday,
		Template: tpl,
		ExistingBookings: []availability.ExistingBooking{
			{Interval: span(monday, 9, 30, 10, 0), Active: true},
		},
		IncludeUnavailable: true,
	})
	require.NoError(t, err)

	expected := []availability.Slot{
		{Interval: span(monday, 9, 0, 9, 30), Available: true},
		{Interval: span(monday, 9, 30, 10, 0), Available: false},
		{Interval: span(monday, 10, 0, 10, 30), Available: true},
	}
	if diff := cmp.Diff(expected, slots, intervalEqual); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateSlots_InvalidConfig(t *testing.T) {
	_, err := availability.NewEngine(31).GenerateSlots(availability.GenerateInput{
		Date:   monday,
		Config: &availability.SlotConfiguration{DefaultDurationMinutes: 30},
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestGenerateSlots_DeterministicAndConflictFree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	engine := availability.NewEngine(31)

	for i := 0; i < 200; i++ {
		cfg := availability.SlotConfiguration{
			DefaultDurationMinutes: 10 + rng.Intn(50),
			BufferMinutes:          rng.Intn(15),
			StepIntervalMinutes:    5 + rng.Intn(25),
		}
		tpl := template(t, cfg,
			availability.Session{Weekday: time.Monday, Window: window(t, "08:00", "12:00")},
			availability.Session{Weekday: time.Monday, Window: window(t, "13:00", "18:00")},
		)

		var bookings []availability.ExistingBooking
		for j := 0; j < rng.Intn(6); j++ {
			start := onDay(monday, 7, 0).Add(time.Duration(rng.Intn(12*60)) * time.Minute)
			bookings = append(bookings, availability.ExistingBooking{
				Interval: interval.MustNew(start, start.Add(time.Duration(5+rng.Intn(90))*time.Minute)),
				Active:   rng.Intn(4) > 0,
			})
		}

		in := availability.GenerateInput{Date: monday, Template: tpl, ExistingBookings: bookings}
		first, err := engine.GenerateSlots(in)
		require.NoError(t, err)
		second, err := engine.GenerateSlots(in)
		require.NoError(t, err)

		if diff := cmp.Diff(first, second, intervalEqual); diff != "" {
			t.Fatalf("non-deterministic output (-first +second):\n%s", diff)
		}

		for k, s := range first {
			if k > 0 {
				assert.False(t, s.Interval.Start().Before(first[k-1].Interval.Start()), "slots not ordered")
			}
			for _, b := range bookings {
				if b.Active {
					assert.False(t, s.Interval.Overlaps(b.Interval, cfg.BufferMinutes),
						"slot %s overlaps booking %s with buffer %d", s.Interval, b.Interval, cfg.BufferMinutes)
				}
			}
		}
	}
}

func TestGenerateRange(t *testing.T) {
	cfg := availability.SlotConfiguration{DefaultDurationMinutes: 60, StepIntervalMinutes: 60}
	tpl := template(t, cfg,
		availability.Session{Weekday: time.Monday, Window: window(t, "09:00", "11:00")},
		availability.Session{Weekday: time.Wednesday, Window: window(t, "14:00", "15:00")},
	)

	t.Run("spans multiple days", func(t *testing.T) {
		slots, err := availability.NewEngine(31).GenerateRange(availability.RangeInput{
			From:     monday,
			To:       monday.AddDate(0, 0, 7),
			Template: tpl,
		})
		require.NoError(t, err)

		expected := []availability.Slot{
			{Interval: span(monday, 9, 0, 10, 0), Available: true},
			{Interval: span(monday, 10, 0, 11, 0), Available: true},
			{Interval: span(monday.AddDate(0, 0, 2), 14, 0, 15, 0), Available: true},
		}
		if diff := cmp.Diff(expected, slots, intervalEqual); diff != "" {
			t.Errorf("slots mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("span over the maximum", func(t *testing.T) {
		_, err := availability.NewEngine(3).GenerateRange(availability.RangeInput{
			From:     monday,
			To:       monday.AddDate(0, 0, 4),
			Template: tpl,
		})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("span at the maximum", func(t *testing.T) {
		_, err := availability.NewEngine(3).GenerateRange(availability.RangeInput{
			From:     monday,
			To:       monday.AddDate(0, 0, 3),
			Template: tpl,
		})
		assert.NoError(t, err)
	})

	t.Run("empty range", func(t *testing.T) {
		_, err := availability.NewEngine(31).GenerateRange(availability.RangeInput{From: monday, To: monday})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}
