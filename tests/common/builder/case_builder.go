//go:build unit || e2e

package builder

import (
	"clinic-scheduler/internal/domain/surgicalcase"
	reqdto "clinic-scheduler/internal/handler/dto/request"
	"clinic-scheduler/internal/pkg/ptr"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
)

type CaseBuilder struct {
	ID        uuid.UUID
	PlanID    uuid.UUID
	Title     string
	Status    surgicalcase.Status
	Version   int64
	BookingID *uuid.UUID
	Checklist surgicalcase.Checklist
}

func NewCaseBuilder() *CaseBuilder {
	return &CaseBuilder{
		ID:      uuid.New(),
		PlanID:  uuid.New(),
		Title:   "Laparoscopic cholecystectomy",
		Status:  surgicalcase.StatusDraft,
		Version: 1,
		Checklist: surgicalcase.Checklist{
			ProcedurePlan:  true,
			RiskAssessment: true,
			AnesthesiaPlan: true,
			SignedConsents: 1,
			PreOpImages:    1,
		},
	}
}

func (b *CaseBuilder) WithStatus(status surgicalcase.Status) *CaseBuilder {
	b.Status = status
	return b
}

func (b *CaseBuilder) BuildView() *queries.CaseView {
	return &queries.CaseView{
		ID:        b.ID,
		PlanID:    b.PlanID,
		Title:     b.Title,
		Status:    b.Status.String(),
		Version:   b.Version,
		BookingID: b.BookingID,
		CreatedAt: BaseTime,
		UpdatedAt: BaseTime,
	}
}

func (b *CaseBuilder) BuildCreateRequestDTO() reqdto.CreateCaseRequest {
	return reqdto.CreateCaseRequest{
		Title: b.Title,
		Checklist: reqdto.ChecklistRequest{
			ProcedurePlan:  ptr.To(b.Checklist.ProcedurePlan),
			RiskAssessment: ptr.To(b.Checklist.RiskAssessment),
			AnesthesiaPlan: ptr.To(b.Checklist.AnesthesiaPlan),
			SignedConsents: ptr.To(b.Checklist.SignedConsents),
			PreOpImages:    ptr.To(b.Checklist.PreOpImages),
		},
	}
}
