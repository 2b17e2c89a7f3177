package conflict

import (
	"math"

	"clinic-scheduler/internal/domain/interval"
)

type Result struct {
	HasConflict bool
	Conflicting []interval.TimeInterval
}

type BusyTime struct {
	BusyMinutes           int
	FreeMinutes           int
	TotalMinutes          int
	UtilizationPercentage float64
}

// Detector is stateless; the zero value is ready to use.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

// FindConflicts returns every existing interval overlapping proposed, in input order.
func (d *Detector) FindConflicts(proposed interval.TimeInterval, existing []interval.TimeInterval, bufferMinutes int) Result {
	var conflicting []interval.TimeInterval
	for _, i := range d.ConflictIndexes(proposed, existing, bufferMinutes) {
		conflicting = append(conflicting, existing[i])
	}
	return Result{
		HasConflict: len(conflicting) > 0,
		Conflicting: conflicting,
	}
}

// ConflictIndexes is FindConflicts returning positions into existing, for
// callers that need to map conflicts back to their own records.
func (d *Detector) ConflictIndexes(proposed interval.TimeInterval, existing []interval.TimeInterval, bufferMinutes int) []int {
	var idx []int
	for i, e := range existing {
		if proposed.Overlaps(e, bufferMinutes) {
			idx = append(idx, i)
		}
	}
	return idx
}

// CalculateBusyTime counts the union of booked intervals clipped to rng.
func (d *Detector) CalculateBusyTime(rng interval.TimeInterval, booked []interval.TimeInterval) BusyTime {
	total := rng.DurationMinutes()

	clipped := make([]interval.TimeInterval, 0, len(booked))
	for _, b := range booked {
		if part, ok := rng.Intersect(b); ok {
			clipped = append(clipped, part)
		}
	}

	var busy int
	for _, m := range interval.Merge(clipped) {
		busy += m.DurationMinutes()
	}
	busy = min(busy, total)

	var utilization float64
	if total > 0 {
		utilization = float64(busy) / float64(total) * 100
	}
	utilization = math.Max(0, math.Min(100, utilization))

	return BusyTime{
		BusyMinutes:           busy,
		FreeMinutes:           total - busy,
		TotalMinutes:          total,
		UtilizationPercentage: utilization,
	}
}
