package request

import (
	"time"

	"clinic-scheduler/internal/usecase/commands"

	"github.com/google/uuid"
)

type HoldRequest struct {
	ResourceID uuid.UUID  `json:"resource_id" binding:"required"`
	CaseID     *uuid.UUID `json:"case_id"`
	Start      time.Time  `json:"start" binding:"required"`
	End        time.Time  `json:"end" binding:"required"`
	// Zero falls back to the configured hold TTL.
	TTLSeconds int `json:"ttl_seconds" binding:"omitempty,min=1,max=86400"`
}

type ConfirmRequest struct {
	ExpectedVersion int64 `json:"expected_version" binding:"required,min=1"`
}

type CancelRequest struct {
	ExpectedVersion int64  `json:"expected_version" binding:"required,min=1"`
	Reason          string `json:"reason" binding:"max=500"`
}

type RescheduleRequest struct {
	ExpectedVersion int64     `json:"expected_version" binding:"required,min=1"`
	Start           time.Time `json:"start" binding:"required"`
	End             time.Time `json:"end" binding:"required"`
}

func (r *HoldRequest) ToCommand(holderID uuid.UUID) commands.HoldCommand {
	return commands.HoldCommand{
		ResourceID: r.ResourceID,
		CaseID:     r.CaseID,
		HolderID:   holderID,
		Start:      r.Start,
		End:        r.End,
		TTL:        time.Duration(r.TTLSeconds) * time.Second,
	}
}

func (r *ConfirmRequest) ToCommand(bookingID, confirmerID uuid.UUID) commands.ConfirmCommand {
	return commands.ConfirmCommand{
		BookingID:       bookingID,
		ExpectedVersion: r.ExpectedVersion,
		ConfirmerID:     confirmerID,
	}
}

func (r *CancelRequest) ToCommand(bookingID, actorID uuid.UUID) commands.CancelCommand {
	return commands.CancelCommand{
		BookingID:       bookingID,
		ExpectedVersion: r.ExpectedVersion,
		Reason:          r.Reason,
		ActorID:         actorID,
	}
}

func (r *RescheduleRequest) ToCommand(bookingID, actorID uuid.UUID) commands.RescheduleCommand {
	return commands.RescheduleCommand{
		BookingID:       bookingID,
		ExpectedVersion: r.ExpectedVersion,
		Start:           r.Start,
		End:             r.End,
		ActorID:         actorID,
	}
}
