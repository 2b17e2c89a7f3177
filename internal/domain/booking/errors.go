package booking

import (
	"fmt"
	"strings"

	"clinic-scheduler/internal/domain/interval"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

type Conflict struct {
	BookingID uuid.UUID
	Interval  interval.TimeInterval
	Status    Status
}

// ConflictError lists the bookings that overlap a proposed interval.
type ConflictError struct {
	ResourceID uuid.UUID
	Proposed   interval.TimeInterval
	Conflicts  []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, c.Interval.String())
	}
	return fmt.Sprintf("resource %s: %s overlaps %s", e.ResourceID, e.Proposed, strings.Join(parts, ", "))
}

func (e *ConflictError) Is(target error) bool { return target == errs.ErrConflict }

func invalidState(op string, status Status) error {
	return errs.Validation("status", fmt.Sprintf("cannot %s a %s booking", op, status))
}
