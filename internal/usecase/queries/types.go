package queries

import (
	"time"

	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/surgicalcase"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type SlotView struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

type BookingView struct {
	ID           uuid.UUID  `json:"id"`
	ResourceID   uuid.UUID  `json:"resource_id"`
	CaseID       *uuid.UUID `json:"case_id,omitempty"`
	HolderID     uuid.UUID  `json:"holder_id"`
	Start        time.Time  `json:"start"`
	End          time.Time  `json:"end"`
	Status       string     `json:"status"`
	Version      int64      `json:"version"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	ConfirmedBy  *uuid.UUID `json:"confirmed_by,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type ConflictView struct {
	BookingID uuid.UUID `json:"booking_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
}

type ConflictReport struct {
	HasConflict bool           `json:"has_conflict"`
	Conflicts   []ConflictView `json:"conflicts"`
}

type UtilizationView struct {
	ResourceID            uuid.UUID `json:"resource_id"`
	From                  time.Time `json:"from"`
	To                    time.Time `json:"to"`
	BusyMinutes           int       `json:"busy_minutes"`
	FreeMinutes           int       `json:"free_minutes"`
	TotalMinutes          int       `json:"total_minutes"`
	UtilizationPercentage float64   `json:"utilization_percentage"`
}

type CaseView struct {
	ID        uuid.UUID  `json:"id"`
	PlanID    uuid.UUID  `json:"plan_id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	Version   int64      `json:"version"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewBookingView reports the status as of now, so lapsed holds read as expired.
func NewBookingView(b *booking.Booking, now time.Time) *BookingView {
	status := b.EffectiveStatus(now)
	v := &BookingView{
		ID:           b.ID(),
		ResourceID:   b.ResourceID(),
		CaseID:       b.CaseID(),
		HolderID:     b.HolderID(),
		Start:        b.Interval().Start(),
		End:          b.Interval().End(),
		Status:       status.String(),
		Version:      b.Version(),
		ConfirmedBy:  b.ConfirmedBy(),
		CancelReason: b.CancelReason(),
		CreatedAt:    b.CreatedAt(),
		UpdatedAt:    b.UpdatedAt(),
	}
	if status == booking.StatusProvisional || status == booking.StatusExpired {
		expiresAt := b.ExpiresAt()
		v.ExpiresAt = &expiresAt
	}
	return v
}

func NewCaseView(c *surgicalcase.Case) *CaseView {
	return &CaseView{
		ID:        c.ID(),
		PlanID:    c.PlanID(),
		Title:     c.Title(),
		Status:    c.Status().String(),
		Version:   c.Version(),
		BookingID: c.BookingID(),
		UpdatedBy: c.UpdatedBy(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func NewConflictView(c booking.Conflict) ConflictView {
	return ConflictView{
		BookingID: c.BookingID,
		Start:     c.Interval.Start(),
		End:       c.Interval.End(),
		Status:    c.Status.String(),
	}
}
