package interval

import (
	"fmt"
	"sort"
	"time"

	"clinic-scheduler/internal/pkg/errs"
)

// TimeInterval is a half-open window [start, end).
type TimeInterval struct {
	start time.Time
	end   time.Time
}

func New(start, end time.Time) (TimeInterval, error) {
	if !end.After(start) {
		return TimeInterval{}, errs.Validation("interval", "end must be after start")
	}
	return TimeInterval{start: start, end: end}, nil
}

func FromDuration(start time.Time, d time.Duration) (TimeInterval, error) {
	return New(start, start.Add(d))
}

// MustNew panics on an invalid interval. Only for literals in tests and fixtures.
func MustNew(start, end time.Time) TimeInterval {
	iv, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

func (i TimeInterval) Start() time.Time { return i.start }
func (i TimeInterval) End() time.Time   { return i.end }

func (i TimeInterval) IsZero() bool {
	return i.start.IsZero() && i.end.IsZero()
}

func (i TimeInterval) Duration() time.Duration {
	return i.end.Sub(i.start)
}

func (i TimeInterval) DurationMinutes() int {
	return int(i.Duration() / time.Minute)
}

// Overlaps is symmetric. A negative buffer counts as zero.
func (i TimeInterval) Overlaps(other TimeInterval, bufferMinutes int) bool {
	buf := bufferOf(bufferMinutes)
	return i.start.Before(other.end.Add(buf)) && other.start.Before(i.end.Add(buf))
}

func (i TimeInterval) Equals(other TimeInterval) bool {
	return i.start.Equal(other.start) && i.end.Equal(other.end)
}

func (i TimeInterval) Contains(other TimeInterval) bool {
	return !other.start.Before(i.start) && !other.end.After(i.end)
}

func (i TimeInterval) Intersect(other TimeInterval) (TimeInterval, bool) {
	start := maxTime(i.start, other.start)
	end := minTime(i.end, other.end)
	if !end.After(start) {
		return TimeInterval{}, false
	}
	return TimeInterval{start: start, end: end}, true
}

// Expand widens the interval by bufferMinutes on both sides.
func (i TimeInterval) Expand(bufferMinutes int) TimeInterval {
	buf := bufferOf(bufferMinutes)
	return TimeInterval{start: i.start.Add(-buf), end: i.end.Add(buf)}
}

// Subtract returns what remains of i after removing cut, in order.
func (i TimeInterval) Subtract(cut TimeInterval) []TimeInterval {
	overlap, ok := i.Intersect(cut)
	if !ok {
		return []TimeInterval{i}
	}
	var out []TimeInterval
	if overlap.start.After(i.start) {
		out = append(out, TimeInterval{start: i.start, end: overlap.start})
	}
	if overlap.end.Before(i.end) {
		out = append(out, TimeInterval{start: overlap.end, end: i.end})
	}
	return out
}

func (i TimeInterval) String() string {
	return fmt.Sprintf("[%s,%s)", i.start.Format(time.RFC3339), i.end.Format(time.RFC3339))
}

// Merge returns the sorted union of intervals; touching windows are joined.
func Merge(intervals []TimeInterval) []TimeInterval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]TimeInterval, len(intervals))
	copy(sorted, intervals)
	SortByStart(sorted)

	merged := []TimeInterval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.start.After(last.end) {
			last.end = maxTime(last.end, iv.end)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// SubtractAll removes every cut from every window, preserving window order.
func SubtractAll(windows []TimeInterval, cuts ...TimeInterval) []TimeInterval {
	remaining := windows
	for _, cut := range cuts {
		next := make([]TimeInterval, 0, len(remaining))
		for _, w := range remaining {
			next = append(next, w.Subtract(cut)...)
		}
		remaining = next
	}
	return remaining
}

func SortByStart(intervals []TimeInterval) {
	sort.SliceStable(intervals, func(a, b int) bool {
		if intervals[a].start.Equal(intervals[b].start) {
			return intervals[a].end.Before(intervals[b].end)
		}
		return intervals[a].start.Before(intervals[b].start)
	})
}

func bufferOf(minutes int) time.Duration {
	if minutes < 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
