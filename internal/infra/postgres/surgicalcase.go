package postgres

import (
	"context"

	"clinic-scheduler/internal/domain/surgicalcase"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getCase = `
SELECT id, plan_id, title, status, version, booking_id, updated_by, created_at, updated_at
FROM surgical_cases
WHERE id = $1`

const getCaseVersion = `SELECT version FROM surgical_cases WHERE id = $1`

const createCase = `
INSERT INTO surgical_cases (id, plan_id, title, status, version, booking_id, updated_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const updateCaseStatus = `
UPDATE surgical_cases
SET status = $2, version = $3, booking_id = $4, updated_by = $5, updated_at = $6
WHERE id = $1 AND version = $7`

const getPlan = `
SELECT case_id, procedure_plan, risk_assessment, anesthesia_plan, signed_consents, pre_op_images, updated_at
FROM case_plans
WHERE id = $1`

const createPlan = `
INSERT INTO case_plans (id, case_id, procedure_plan, risk_assessment, anesthesia_plan, signed_consents, pre_op_images, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const updatePlan = `
UPDATE case_plans
SET procedure_plan = $2, risk_assessment = $3, anesthesia_plan = $4,
    signed_consents = $5, pre_op_images = $6, updated_at = $7
WHERE id = $1`

type CaseRepository struct {
	db DBTX
}

func NewCaseRepository(db DBTX) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) GetCase(ctx context.Context, id uuid.UUID) (*surgicalcase.Case, error) {
	var (
		s                    surgicalcase.CaseSnapshot
		status               string
		bookingID, updatedBy pgtype.UUID
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getCase, id).Scan(
		&s.ID, &s.PlanID, &s.Title, &status, &s.Version, &bookingID, &updatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.NotFound("case", id)
		}
		return nil, wrap("failed to find case by ID", err)
	}
	s.Status = surgicalcase.Status(status)
	s.BookingID = pgconv.UUIDPtrFromPgtype(bookingID)
	s.UpdatedBy = pgconv.UUIDPtrFromPgtype(updatedBy)
	s.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	s.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return surgicalcase.ReconstructCase(s), nil
}

func (r *CaseRepository) Create(ctx context.Context, c *surgicalcase.Case) error {
	s := c.Snapshot()
	_, err := r.db.Exec(ctx, createCase,
		s.ID, s.PlanID, s.Title, s.Status.String(), s.Version,
		pgconv.UUIDPtrToPgtype(s.BookingID),
		pgconv.UUIDPtrToPgtype(s.UpdatedBy),
		pgconv.TimeToPgtype(s.CreatedAt),
		pgconv.TimeToPgtype(s.UpdatedAt),
	)
	if err != nil {
		return wrap("failed to create case", err)
	}
	return nil
}

func (r *CaseRepository) UpdateStatus(ctx context.Context, c *surgicalcase.Case, expectedVersion int64) error {
	s := c.Snapshot()
	tag, err := r.db.Exec(ctx, updateCaseStatus,
		s.ID, s.Status.String(), s.Version,
		pgconv.UUIDPtrToPgtype(s.BookingID),
		pgconv.UUIDPtrToPgtype(s.UpdatedBy),
		pgconv.TimeToPgtype(s.UpdatedAt),
		expectedVersion,
	)
	if err != nil {
		return wrap("failed to update case status", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var actual int64
	if err := r.db.QueryRow(ctx, getCaseVersion, s.ID).Scan(&actual); err != nil {
		if pgconv.IsNoRows(err) {
			return errs.NotFound("case", s.ID)
		}
		return wrap("failed to read case version", err)
	}
	return &errs.StaleVersionError{Entity: "case", ID: s.ID, Expected: expectedVersion, Actual: actual}
}

func (r *CaseRepository) GetPlan(ctx context.Context, id uuid.UUID) (*surgicalcase.Plan, error) {
	var (
		caseID    uuid.UUID
		c         surgicalcase.Checklist
		consents  int32
		images    int32
		updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getPlan, id).Scan(
		&caseID, &c.ProcedurePlan, &c.RiskAssessment, &c.AnesthesiaPlan, &consents, &images, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.NotFound("plan", id)
		}
		return nil, wrap("failed to find plan by ID", err)
	}
	c.SignedConsents = int(consents)
	c.PreOpImages = int(images)
	return surgicalcase.ReconstructPlan(id, caseID, c, pgconv.TimeFromPgtype(updatedAt)), nil
}

func (r *CaseRepository) CreatePlan(ctx context.Context, p *surgicalcase.Plan) error {
	c := p.Checklist()
	_, err := r.db.Exec(ctx, createPlan,
		p.ID(), p.CaseID(),
		c.ProcedurePlan, c.RiskAssessment, c.AnesthesiaPlan, c.SignedConsents, c.PreOpImages,
		pgconv.TimeToPgtype(p.UpdatedAt()),
	)
	if err != nil {
		return wrap("failed to create plan", err)
	}
	return nil
}

func (r *CaseRepository) UpdatePlan(ctx context.Context, p *surgicalcase.Plan) error {
	c := p.Checklist()
	tag, err := r.db.Exec(ctx, updatePlan,
		p.ID(),
		c.ProcedurePlan, c.RiskAssessment, c.AnesthesiaPlan, c.SignedConsents, c.PreOpImages,
		pgconv.TimeToPgtype(p.UpdatedAt()),
	)
	if err != nil {
		return wrap("failed to update plan", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("plan", p.ID())
	}
	return nil
}
