package surgicalcase

import "clinic-scheduler/internal/pkg/ptr"

const (
	ItemProcedurePlan  = "Procedure Plan"
	ItemRiskAssessment = "Risk Assessment"
	ItemAnesthesiaPlan = "Anesthesia Plan"
	ItemSignedConsent  = "Signed Consent"
	ItemPreOpImage     = "Pre-operative Image"
)

// Checklist records the planning artefacts gathered for a case.
type Checklist struct {
	ProcedurePlan  bool
	RiskAssessment bool
	AnesthesiaPlan bool
	SignedConsents int
	PreOpImages    int
}

// ChecklistPatch changes only the fields that are set.
type ChecklistPatch struct {
	ProcedurePlan  *bool
	RiskAssessment *bool
	AnesthesiaPlan *bool
	SignedConsents *int
	PreOpImages    *int
}

func (p ChecklistPatch) Apply(c Checklist) Checklist {
	return Checklist{
		ProcedurePlan:  ptr.Or(p.ProcedurePlan, c.ProcedurePlan),
		RiskAssessment: ptr.Or(p.RiskAssessment, c.RiskAssessment),
		AnesthesiaPlan: ptr.Or(p.AnesthesiaPlan, c.AnesthesiaPlan),
		SignedConsents: ptr.Or(p.SignedConsents, c.SignedConsents),
		PreOpImages:    ptr.Or(p.PreOpImages, c.PreOpImages),
	}
}

type ReadinessChecker interface {
	// Missing returns the unmet items in a stable order; nil plan means
	// nothing has been recorded.
	Missing(plan *Plan) []string
}

type ChecklistReadiness struct{}

func NewChecklistReadiness() *ChecklistReadiness {
	return &ChecklistReadiness{}
}

func (ChecklistReadiness) Missing(plan *Plan) []string {
	var c Checklist
	if plan != nil {
		c = plan.Checklist()
	}

	var missing []string
	if !c.ProcedurePlan {
		missing = append(missing, ItemProcedurePlan)
	}
	if !c.RiskAssessment {
		missing = append(missing, ItemRiskAssessment)
	}
	if !c.AnesthesiaPlan {
		missing = append(missing, ItemAnesthesiaPlan)
	}
	if c.SignedConsents < 1 {
		missing = append(missing, ItemSignedConsent)
	}
	if c.PreOpImages < 1 {
		missing = append(missing, ItemPreOpImage)
	}
	return missing
}
