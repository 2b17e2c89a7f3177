package availability

import (
	"fmt"
	"time"

	"clinic-scheduler/internal/domain/interval"
	"clinic-scheduler/internal/pkg/errs"
)

const minutesPerDay = 24 * 60

// TimeOfDay is minutes since local midnight; 1440 denotes end of day.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || minute < 0 || minute > 59 || hour*60+minute > minutesPerDay {
		return 0, errs.Validation("time_of_day", fmt.Sprintf("%02d:%02d is out of range", hour, minute))
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay accepts "HH:MM"; "24:00" is end of day.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil || len(s) != 5 {
		return 0, errs.Validation("time_of_day", fmt.Sprintf("%q is not HH:MM", s))
	}
	return NewTimeOfDay(h, m)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// On anchors t to the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, int(t), 0, 0, date.Location())
}

// DayWindow is a time-of-day range within a single calendar day.
type DayWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

func NewDayWindow(start, end TimeOfDay) (DayWindow, error) {
	w := DayWindow{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return DayWindow{}, err
	}
	return w, nil
}

func FullDay() DayWindow {
	return DayWindow{Start: 0, End: minutesPerDay}
}

func (w DayWindow) Validate() error {
	if w.Start < 0 || w.End > minutesPerDay {
		return errs.Validation("window", "must lie within a single day")
	}
	if w.End <= w.Start {
		return errs.Validation("window", "end must be after start")
	}
	return nil
}

// On anchors the window to date. It can fail on days where a zone
// transition collapses the window.
func (w DayWindow) On(date time.Time) (interval.TimeInterval, error) {
	return interval.New(w.Start.On(date), w.End.On(date))
}

func (w DayWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}

type SlotConfiguration struct {
	DefaultDurationMinutes int
	BufferMinutes          int
	StepIntervalMinutes    int
}

func (c SlotConfiguration) Validate() error {
	if c.DefaultDurationMinutes <= 0 {
		return errs.Validation("default_duration_minutes", "must be positive")
	}
	if c.StepIntervalMinutes <= 0 {
		return errs.Validation("step_interval_minutes", "must be positive")
	}
	if c.BufferMinutes < 0 {
		return errs.Validation("buffer_minutes", "cannot be negative")
	}
	return nil
}

// Slot is a candidate bookable interval.
type Slot struct {
	Interval  interval.TimeInterval
	Available bool
}

// ExistingBooking is what the engine needs to know about a booking.
type ExistingBooking struct {
	Interval interval.TimeInterval
	Active   bool
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
