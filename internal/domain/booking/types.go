package booking

type Status string

const (
	StatusNone        Status = "none"
	StatusProvisional Status = "provisional"
	StatusConfirmed   Status = "confirmed"
	StatusExpired     Status = "expired"
	StatusCancelled   Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusProvisional, StatusConfirmed, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether a booking in this status occupies its interval.
func (s Status) IsActive() bool {
	return s == StatusProvisional || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusExpired || s == StatusCancelled
}
