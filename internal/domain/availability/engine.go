package availability

import (
	"fmt"
	"sort"
	"time"

	"clinic-scheduler/internal/domain/interval"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

const DefaultMaxSpanDays = 31

type GenerateInput struct {
	ResourceID       uuid.UUID
	Date             time.Time
	Template         *Template
	Overrides        []Override
	Blocks           []Block
	Breaks           []Break
	ExistingBookings []ExistingBooking
	// Config replaces the template's slot configuration when set.
	Config *SlotConfiguration
	// DurationMinutes replaces the configured default duration when positive.
	DurationMinutes    int
	IncludeUnavailable bool
}

type RangeInput struct {
	ResourceID uuid.UUID
	// From and To are calendar dates; the range is [From, To).
	From               time.Time
	To                 time.Time
	Template           *Template
	Overrides          []Override
	Blocks             []Block
	Breaks             []Break
	ExistingBookings   []ExistingBooking
	Config             *SlotConfiguration
	DurationMinutes    int
	IncludeUnavailable bool
}

// Engine derives candidate slots from layered availability. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	maxSpanDays int
}

func NewEngine(maxSpanDays int) *Engine {
	if maxSpanDays <= 0 {
		maxSpanDays = DefaultMaxSpanDays
	}
	return &Engine{maxSpanDays: maxSpanDays}
}

func (e *Engine) MaxSpanDays() int {
	return e.maxSpanDays
}

func (e *Engine) GenerateSlots(in GenerateInput) ([]Slot, error) {
	cfg, ok, err := resolveConfig(in.Template, in.Config, in.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Slot{}, nil
	}

	date := StartOfDay(in.Date)
	base := baseWindows(date, in.Template, in.Overrides)
	if len(base) == 0 {
		return []Slot{}, nil
	}

	remaining := interval.SubtractAll(base, exclusions(date, in.Breaks, in.Blocks)...)

	var booked []interval.TimeInterval
	for _, b := range in.ExistingBookings {
		if b.Active {
			booked = append(booked, b.Interval.Expand(cfg.BufferMinutes))
		}
	}
	remaining = interval.Merge(interval.SubtractAll(remaining, booked...))

	slots := walk(remaining, cfg, true)
	if in.IncludeUnavailable {
		slots = append(slots, unavailable(base, remaining, cfg)...)
		sortSlots(slots)
	}
	return slots, nil
}

// ValidateSpan checks that [from, to) covers between one and MaxSpanDays
// calendar days.
func (e *Engine) ValidateSpan(from, to time.Time) error {
	from, to = StartOfDay(from), StartOfDay(to)
	if !to.After(from) {
		return errs.Validation("to", "must be after from")
	}
	days := 0
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		days++
		if days > e.maxSpanDays {
			return errs.Validation("range", fmt.Sprintf("span exceeds %d days", e.maxSpanDays))
		}
	}
	return nil
}

func (e *Engine) GenerateRange(in RangeInput) ([]Slot, error) {
	if err := e.ValidateSpan(in.From, in.To); err != nil {
		return nil, err
	}
	from := StartOfDay(in.From)
	to := StartOfDay(in.To)

	out := []Slot{}
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		daySlots, err := e.GenerateSlots(GenerateInput{
			ResourceID:         in.ResourceID,
			Date:               d,
			Template:           in.Template,
			Overrides:          in.Overrides,
			Blocks:             in.Blocks,
			Breaks:             in.Breaks,
			ExistingBookings:   in.ExistingBookings,
			Config:             in.Config,
			DurationMinutes:    in.DurationMinutes,
			IncludeUnavailable: in.IncludeUnavailable,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, daySlots...)
	}
	return out, nil
}

func resolveConfig(tpl *Template, override *SlotConfiguration, duration int) (SlotConfiguration, bool, error) {
	var cfg SlotConfiguration
	switch {
	case override != nil:
		cfg = *override
	case tpl != nil:
		cfg = tpl.Config()
	default:
		return SlotConfiguration{}, false, nil
	}
	if duration > 0 {
		cfg.DefaultDurationMinutes = duration
	}
	if err := cfg.Validate(); err != nil {
		return SlotConfiguration{}, false, err
	}
	return cfg, true, nil
}

// baseWindows resolves the day's availability. Any override on the date
// supersedes the template: add windows replace the template sessions and
// remove windows are cut from whatever remains.
func baseWindows(date time.Time, tpl *Template, overrides []Override) []interval.TimeInterval {
	var adds, removes []DayWindow
	hasOverride, closed := false, false
	for _, o := range overrides {
		if !o.AppliesTo(date) {
			continue
		}
		hasOverride = true
		switch o.Kind {
		case OverrideAdd:
			adds = append(adds, o.Windows...)
		case OverrideRemove:
			if len(o.Windows) == 0 {
				closed = true
			}
			removes = append(removes, o.Windows...)
		}
	}
	if closed {
		return nil
	}

	var windows []DayWindow
	switch {
	case len(adds) > 0:
		windows = adds
	case tpl != nil:
		windows = tpl.WindowsFor(date.Weekday())
	}
	base := anchor(date, windows)
	if hasOverride {
		base = interval.SubtractAll(base, anchor(date, removes)...)
	}
	return interval.Merge(base)
}

// exclusions collects breaks first, then blocks, in input order.
func exclusions(date time.Time, breaks []Break, blocks []Block) []interval.TimeInterval {
	fullDay, _ := FullDay().On(date)
	var cuts []interval.TimeInterval
	for _, br := range breaks {
		if !br.AppliesTo(date) {
			continue
		}
		if br.Window == nil {
			cuts = append(cuts, fullDay)
			continue
		}
		cuts = append(cuts, anchor(date, []DayWindow{*br.Window})...)
	}
	for _, bl := range blocks {
		if !bl.AppliesTo(date) {
			continue
		}
		if bl.IsFullDay() {
			cuts = append(cuts, fullDay)
			continue
		}
		cuts = append(cuts, anchor(date, []DayWindow{*bl.Window})...)
	}
	return cuts
}

func anchor(date time.Time, windows []DayWindow) []interval.TimeInterval {
	out := make([]interval.TimeInterval, 0, len(windows))
	for _, w := range windows {
		iv, err := w.On(date)
		if err != nil {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// walk steps through each window from its start, emitting candidates of
// the configured duration that fit entirely inside the window.
func walk(windows []interval.TimeInterval, cfg SlotConfiguration, available bool) []Slot {
	duration := time.Duration(cfg.DefaultDurationMinutes) * time.Minute
	step := time.Duration(cfg.StepIntervalMinutes) * time.Minute

	slots := []Slot{}
	for _, w := range windows {
		for start := w.Start(); !start.Add(duration).After(w.End()); start = start.Add(step) {
			slots = append(slots, Slot{
				Interval:  interval.MustNew(start, start.Add(duration)),
				Available: available,
			})
		}
	}
	return slots
}

func unavailable(base, remaining []interval.TimeInterval, cfg SlotConfiguration) []Slot {
	var out []Slot
	for _, candidate := range walk(base, cfg, false) {
		free := false
		for _, r := range remaining {
			if r.Contains(candidate.Interval) {
				free = true
				break
			}
		}
		if !free {
			out = append(out, candidate)
		}
	}
	return out
}

func sortSlots(slots []Slot) {
	sort.SliceStable(slots, func(a, b int) bool {
		sa, sb := slots[a].Interval.Start(), slots[b].Interval.Start()
		if !sa.Equal(sb) {
			return sa.Before(sb)
		}
		return slots[a].Available && !slots[b].Available
	})
}
