package surgicalcase

type Status string

const (
	StatusDraft              Status = "DRAFT"
	StatusPlanning           Status = "PLANNING"
	StatusReadyForScheduling Status = "READY_FOR_SCHEDULING"
	StatusScheduled          Status = "SCHEDULED"
	StatusInPrep             Status = "IN_PREP"
	StatusInTheater          Status = "IN_THEATER"
	StatusRecovery           Status = "RECOVERY"
	StatusCompleted          Status = "COMPLETED"
	StatusCancelled          Status = "CANCELLED"
)

var AllStatuses = []Status{
	StatusDraft,
	StatusPlanning,
	StatusReadyForScheduling,
	StatusScheduled,
	StatusInPrep,
	StatusInTheater,
	StatusRecovery,
	StatusCompleted,
	StatusCancelled,
}

var allowed = map[Status][]Status{
	StatusDraft:              {StatusPlanning, StatusCancelled},
	StatusPlanning:           {StatusReadyForScheduling, StatusDraft, StatusCancelled},
	StatusReadyForScheduling: {StatusScheduled, StatusPlanning, StatusCancelled},
	StatusScheduled:          {StatusInPrep, StatusReadyForScheduling, StatusCancelled},
	StatusInPrep:             {StatusInTheater},
	StatusInTheater:          {StatusRecovery},
	StatusRecovery:           {StatusCompleted},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowed[s] {
		if next == target {
			return true
		}
	}
	return false
}

// AllowedTargets lists the statuses reachable from s in one step.
func (s Status) AllowedTargets() []Status {
	out := make([]Status, len(allowed[s]))
	copy(out, allowed[s])
	return out
}

// RequiresReadiness reports whether the edge is gated by the planning check.
func RequiresReadiness(from, to Status) bool {
	return from == StatusPlanning && to == StatusReadyForScheduling
}
