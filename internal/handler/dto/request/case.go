package request

import (
	"clinic-scheduler/internal/domain/surgicalcase"
	"clinic-scheduler/internal/usecase/commands"

	"github.com/google/uuid"
)

// ChecklistRequest leaves unset fields untouched on update and false/zero on create.
type ChecklistRequest struct {
	ProcedurePlan  *bool `json:"procedure_plan"`
	RiskAssessment *bool `json:"risk_assessment"`
	AnesthesiaPlan *bool `json:"anesthesia_plan"`
	SignedConsents *int  `json:"signed_consents" binding:"omitempty,min=0"`
	PreOpImages    *int  `json:"pre_op_images" binding:"omitempty,min=0"`
}

type CreateCaseRequest struct {
	Title     string           `json:"title" binding:"required,max=200"`
	Checklist ChecklistRequest `json:"checklist"`
}

type TransitionRequest struct {
	Target          string `json:"target" binding:"required,case_status"`
	ExpectedVersion *int64 `json:"expected_version" binding:"omitempty,min=1"`
}

func (r ChecklistRequest) ToPatch() surgicalcase.ChecklistPatch {
	return surgicalcase.ChecklistPatch{
		ProcedurePlan:  r.ProcedurePlan,
		RiskAssessment: r.RiskAssessment,
		AnesthesiaPlan: r.AnesthesiaPlan,
		SignedConsents: r.SignedConsents,
		PreOpImages:    r.PreOpImages,
	}
}

func (r *CreateCaseRequest) ToCommand(actorID uuid.UUID) commands.CreateCaseCommand {
	return commands.CreateCaseCommand{
		Title:     r.Title,
		Checklist: r.Checklist.ToPatch().Apply(surgicalcase.Checklist{}),
		ActorID:   actorID,
	}
}

func (r *TransitionRequest) ToCommand(caseID, actorID uuid.UUID) commands.TransitionCommand {
	return commands.TransitionCommand{
		CaseID:          caseID,
		Target:          surgicalcase.Status(r.Target),
		ExpectedVersion: r.ExpectedVersion,
		ActorID:         actorID,
	}
}

func (r *ChecklistRequest) ToCommand(caseID uuid.UUID) commands.UpdatePlanCommand {
	return commands.UpdatePlanCommand{CaseID: caseID, Patch: r.ToPatch()}
}
