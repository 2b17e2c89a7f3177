package resource

import (
	"fmt"
	"strings"
	"time"

	"clinic-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	MaxResourceNameLength = 255
)

type Kind string

const (
	KindDoctor  Kind = "doctor"
	KindTheater Kind = "theater"
)

func (k Kind) IsValid() bool {
	return k == KindDoctor || k == KindTheater
}

// Resource is a bookable clinical entity. Its location decides which
// calendar day a template session falls on.
type Resource struct {
	id          uuid.UUID
	name        string
	kind        Kind
	location    *time.Location
	leadTimeMin int
	createdAt   time.Time
	updatedAt   time.Time
}

func NewResource(id uuid.UUID, name string, kind Kind, timezone string, leadTimeMin int) (*Resource, error) {
	if err := validateResourceName(name); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, errs.Validation("kind", fmt.Sprintf("unknown resource kind %q", kind))
	}
	if err := validateLeadTime(leadTimeMin); err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, errs.Validation("timezone", err.Error())
	}

	return &Resource{
		id:          id,
		name:        strings.TrimSpace(name),
		kind:        kind,
		location:    loc,
		leadTimeMin: leadTimeMin,
	}, nil
}

func ReconstructResource(id uuid.UUID, name string, kind Kind, location *time.Location, leadTimeMin int, createdAt, updatedAt time.Time) *Resource {
	if location == nil {
		location = time.UTC
	}
	return &Resource{
		id:          id,
		name:        name,
		kind:        kind,
		location:    location,
		leadTimeMin: leadTimeMin,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// IsBookableAt reports whether start honours the resource's lead time.
func (r *Resource) IsBookableAt(now, start time.Time) bool {
	required := now.Add(time.Duration(r.leadTimeMin) * time.Minute)
	return !start.Before(required)
}

func validateResourceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.Validation("name", "cannot be empty")
	}
	if len(name) > MaxResourceNameLength {
		return errs.Validation("name", fmt.Sprintf("is too long (max %d characters)", MaxResourceNameLength))
	}
	return nil
}

func validateLeadTime(leadTimeMin int) error {
	if leadTimeMin < 0 {
		return errs.Validation("lead_time_min", "cannot be negative")
	}
	return nil
}

func (r *Resource) ID() uuid.UUID            { return r.id }
func (r *Resource) Name() string             { return r.name }
func (r *Resource) Kind() Kind               { return r.kind }
func (r *Resource) Location() *time.Location { return r.location }
func (r *Resource) LeadTimeMin() int         { return r.leadTimeMin }
func (r *Resource) CreatedAt() time.Time     { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time     { return r.updatedAt }
