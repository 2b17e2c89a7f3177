package surgicalcase

import (
	"strings"
	"time"

	"clinic-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

const maxTitleLength = 200

// Case and Plan reference each other by id only.
type Case struct {
	id        uuid.UUID
	planID    uuid.UUID
	title     string
	status    Status
	version   int64
	bookingID *uuid.UUID
	updatedBy *uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

type Plan struct {
	id        uuid.UUID
	caseID    uuid.UUID
	checklist Checklist
	updatedAt time.Time
}

// NewCaseWithPlan creates a draft case and its plan, linked both ways.
func NewCaseWithPlan(title string, checklist Checklist, now time.Time) (*Case, *Plan, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil, errs.Validation("title", "is required")
	}
	if len(title) > maxTitleLength {
		return nil, nil, errs.Validation("title", "is too long")
	}
	if checklist.SignedConsents < 0 || checklist.PreOpImages < 0 {
		return nil, nil, errs.Validation("checklist", "counts cannot be negative")
	}

	caseID, planID := uuid.New(), uuid.New()
	c := &Case{
		id:        caseID,
		planID:    planID,
		title:     title,
		status:    StatusDraft,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}
	p := &Plan{
		id:        planID,
		caseID:    caseID,
		checklist: checklist,
		updatedAt: now,
	}
	return c, p, nil
}

type CaseSnapshot struct {
	ID        uuid.UUID
	PlanID    uuid.UUID
	Title     string
	Status    Status
	Version   int64
	BookingID *uuid.UUID
	UpdatedBy *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ReconstructCase(s CaseSnapshot) *Case {
	return &Case{
		id:        s.ID,
		planID:    s.PlanID,
		title:     s.Title,
		status:    s.Status,
		version:   s.Version,
		bookingID: s.BookingID,
		updatedBy: s.UpdatedBy,
		createdAt: s.CreatedAt,
		updatedAt: s.UpdatedAt,
	}
}

func (c *Case) Snapshot() CaseSnapshot {
	return CaseSnapshot{
		ID:        c.id,
		PlanID:    c.planID,
		Title:     c.title,
		Status:    c.status,
		Version:   c.version,
		BookingID: c.bookingID,
		UpdatedBy: c.updatedBy,
		CreatedAt: c.createdAt,
		UpdatedAt: c.updatedAt,
	}
}

func ReconstructPlan(id, caseID uuid.UUID, checklist Checklist, updatedAt time.Time) *Plan {
	return &Plan{id: id, caseID: caseID, checklist: checklist, updatedAt: updatedAt}
}

func (c *Case) ID() uuid.UUID         { return c.id }
func (c *Case) PlanID() uuid.UUID     { return c.planID }
func (c *Case) Title() string         { return c.title }
func (c *Case) Status() Status        { return c.status }
func (c *Case) Version() int64        { return c.version }
func (c *Case) BookingID() *uuid.UUID { return c.bookingID }
func (c *Case) UpdatedBy() *uuid.UUID { return c.updatedBy }
func (c *Case) CreatedAt() time.Time  { return c.createdAt }
func (c *Case) UpdatedAt() time.Time  { return c.updatedAt }

func (c *Case) IsSchedulable() bool {
	return c.status == StatusReadyForScheduling
}

func (p *Plan) ID() uuid.UUID        { return p.id }
func (p *Plan) CaseID() uuid.UUID    { return p.caseID }
func (p *Plan) Checklist() Checklist { return p.checklist }
func (p *Plan) UpdatedAt() time.Time { return p.updatedAt }

// Record replaces the plan's checklist.
func (p *Plan) Record(checklist Checklist, now time.Time) error {
	if checklist.SignedConsents < 0 || checklist.PreOpImages < 0 {
		return errs.Validation("checklist", "counts cannot be negative")
	}
	p.checklist = checklist
	p.updatedAt = now
	return nil
}

func (c *Case) CheckVersion(expected int64) error {
	if expected != c.version {
		return &errs.StaleVersionError{Entity: "case", ID: c.id, Expected: expected, Actual: c.version}
	}
	return nil
}
