package response

import (
	"time"

	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
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
	CreatedAt    int64      `json:"created_at" copier:"-"`
	UpdatedAt    int64      `json:"updated_at" copier:"-"`
}

type CaseResponse struct {
	ID        uuid.UUID  `json:"id"`
	PlanID    uuid.UUID  `json:"plan_id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	Version   int64      `json:"version"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
	CreatedAt int64      `json:"created_at" copier:"-"`
	UpdatedAt int64      `json:"updated_at" copier:"-"`
}

func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	var res BookingResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, errs.Wrap(err, "copy booking view")
	}
	res.CreatedAt = v.CreatedAt.Unix()
	res.UpdatedAt = v.UpdatedAt.Unix()
	return &res, nil
}

func FromCaseView(v *queries.CaseView) (*CaseResponse, error) {
	var res CaseResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, errs.Wrap(err, "copy case view")
	}
	res.CreatedAt = v.CreatedAt.Unix()
	res.UpdatedAt = v.UpdatedAt.Unix()
	return &res, nil
}
