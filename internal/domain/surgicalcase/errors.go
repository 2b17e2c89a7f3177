package surgicalcase

import (
	"fmt"
	"strings"

	"clinic-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

type InvalidTransitionError struct {
	CaseID uuid.UUID
	From   Status
	To     Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("case %s: transition %s -> %s is not allowed", e.CaseID, e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == errs.ErrInvalidTransition }

// ReadinessError is an InvalidTransitionError that names what is missing.
type ReadinessError struct {
	InvalidTransitionError
	Missing []string
}

func (e *ReadinessError) Error() string {
	return fmt.Sprintf("case %s: not ready for scheduling, missing: %s", e.CaseID, strings.Join(e.Missing, ", "))
}

func (e *ReadinessError) Is(target error) bool {
	return target == errs.ErrReadiness || target == errs.ErrInvalidTransition
}
