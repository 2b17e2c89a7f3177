//go:build unit || e2e

package builder

import (
	"time"

	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/interval"
	reqdto "clinic-scheduler/internal/handler/dto/request"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
)

var BaseTime = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type BookingBuilder struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	CaseID     *uuid.UUID
	HolderID   uuid.UUID
	Start      time.Time
	End        time.Time
	Status     booking.Status
	Version    int64
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

func NewBookingBuilder() *BookingBuilder {
	start := BaseTime.Add(2 * time.Hour)
	return &BookingBuilder{
		ID:         uuid.New(),
		ResourceID: uuid.MustParse("7d1c3f0a-2b4e-4c6d-8e9f-0a1b2c3d4e5f"),
		HolderID:   uuid.New(),
		Start:      start,
		End:        start.Add(30 * time.Minute),
		Status:     booking.StatusProvisional,
		Version:    1,
		ExpiresAt:  BaseTime.Add(10 * time.Minute),
		CreatedAt:  BaseTime,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithInterval(start, end time.Time) *BookingBuilder {
	b.Start, b.End = start, end
	return b
}

func (b *BookingBuilder) WithStatus(status booking.Status) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) Interval() interval.TimeInterval {
	return interval.MustNew(b.Start, b.End)
}

func (b *BookingBuilder) BuildDomain() *booking.Booking {
	return booking.Reconstruct(booking.Snapshot{
		ID:         b.ID,
		ResourceID: b.ResourceID,
		CaseID:     b.CaseID,
		HolderID:   b.HolderID,
		Interval:   b.Interval(),
		Status:     b.Status,
		Version:    b.Version,
		ExpiresAt:  b.ExpiresAt,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.CreatedAt,
	})
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return queries.NewBookingView(b.BuildDomain(), BaseTime)
}

func (b *BookingBuilder) BuildHoldRequestDTO() reqdto.HoldRequest {
	return reqdto.HoldRequest{
		ResourceID: b.ResourceID,
		CaseID:     b.CaseID,
		Start:      b.Start,
		End:        b.End,
	}
}
