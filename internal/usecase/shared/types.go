package shared

import (
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/domain/interval"

	"github.com/google/uuid"
)

// RangeQuery selects rows of one resource that touch [From, To).
type RangeQuery struct {
	ResourceID uuid.UUID
	From       time.Time
	To         time.Time
}

func NewRangeQuery(resourceID uuid.UUID, from, to time.Time) RangeQuery {
	return RangeQuery{ResourceID: resourceID, From: from, To: to}
}

// Around widens iv by bufferMinutes on both sides.
func Around(resourceID uuid.UUID, iv interval.TimeInterval, bufferMinutes int) RangeQuery {
	wide := iv.Expand(bufferMinutes)
	return RangeQuery{ResourceID: resourceID, From: wide.Start(), To: wide.End()}
}

// SchedulingPolicy carries the configured scheduling defaults.
type SchedulingPolicy struct {
	MaxSpanDays int
	HoldTTL     time.Duration
	// Defaults applies when a resource has no template.
	Defaults availability.SlotConfiguration
}

// SlotConfigFor picks the template's configuration, falling back to defaults.
func (p SchedulingPolicy) SlotConfigFor(tpl *availability.Template) availability.SlotConfiguration {
	if tpl != nil {
		return tpl.Config()
	}
	return p.Defaults
}
