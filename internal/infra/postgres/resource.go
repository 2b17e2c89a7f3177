package postgres

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/resource"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getResourceByID = `
SELECT id, name, kind, timezone, lead_time_min, created_at, updated_at
FROM resources
WHERE id = $1`

const createResource = `
INSERT INTO resources (id, name, kind, timezone, lead_time_min, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`

type ResourceRepository struct {
	db DBTX
}

func NewResourceRepository(db DBTX) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	var (
		name, kind, tz       string
		leadTimeMin          int32
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getResourceByID, id).Scan(&id, &name, &kind, &tz, &leadTimeMin, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.NotFound("resource", id)
		}
		return nil, wrap("failed to find resource by ID", err)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errs.Wrapf(err, "resource %s has unknown time zone %q", id, tz)
	}
	return resource.ReconstructResource(
		id, name, resource.Kind(kind), loc, int(leadTimeMin),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func (r *ResourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	_, err := r.db.Exec(ctx, createResource,
		res.ID(),
		res.Name(),
		string(res.Kind()),
		res.Location().String(),
		int32(res.LeadTimeMin()), // #nosec G115 -- validated range
	)
	if err != nil {
		return wrap("failed to create resource", err)
	}
	return nil
}
