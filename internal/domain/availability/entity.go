package availability

import (
	"sort"
	"time"

	"clinic-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

type Session struct {
	Weekday time.Weekday
	Window  DayWindow
}

// Template is the recurring weekly availability of one resource. It is
// replaced wholesale on update.
type Template struct {
	resourceID uuid.UUID
	sessions   []Session
	config     SlotConfiguration
	updatedAt  time.Time
}

func NewTemplate(resourceID uuid.UUID, sessions []Session, config SlotConfiguration) (*Template, error) {
	if resourceID == uuid.Nil {
		return nil, errs.Validation("resource_id", "is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	for _, s := range sessions {
		if s.Weekday < time.Sunday || s.Weekday > time.Saturday {
			return nil, errs.Validation("weekday", "out of range")
		}
		if err := s.Window.Validate(); err != nil {
			return nil, err
		}
	}

	sorted := make([]Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Weekday != sorted[j].Weekday {
			return sorted[i].Weekday < sorted[j].Weekday
		}
		return sorted[i].Window.Start < sorted[j].Window.Start
	})

	return &Template{
		resourceID: resourceID,
		sessions:   sorted,
		config:     config,
	}, nil
}

func ReconstructTemplate(resourceID uuid.UUID, sessions []Session, config SlotConfiguration, updatedAt time.Time) *Template {
	return &Template{
		resourceID: resourceID,
		sessions:   sessions,
		config:     config,
		updatedAt:  updatedAt,
	}
}

func (t *Template) ResourceID() uuid.UUID     { return t.resourceID }
func (t *Template) Sessions() []Session       { return t.sessions }
func (t *Template) Config() SlotConfiguration { return t.config }
func (t *Template) UpdatedAt() time.Time      { return t.updatedAt }

func (t *Template) WindowsFor(weekday time.Weekday) []DayWindow {
	var out []DayWindow
	for _, s := range t.sessions {
		if s.Weekday == weekday {
			out = append(out, s.Window)
		}
	}
	return out
}

type OverrideKind string

const (
	OverrideAdd    OverrideKind = "add"
	OverrideRemove OverrideKind = "remove"
)

func (k OverrideKind) IsValid() bool {
	return k == OverrideAdd || k == OverrideRemove
}

// Override adds or removes availability on one calendar date. A remove
// override without windows closes the whole day.
type Override struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	Date       time.Time
	Kind       OverrideKind
	Windows    []DayWindow
	Reason     string
}

func (o Override) Validate() error {
	if !o.Kind.IsValid() {
		return errs.Validation("kind", "must be add or remove")
	}
	if o.Kind == OverrideAdd && len(o.Windows) == 0 {
		return errs.Validation("windows", "an add override needs at least one window")
	}
	for _, w := range o.Windows {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (o Override) AppliesTo(date time.Time) bool {
	return sameDate(o.Date, date)
}

// Block is explicit unavailability over an inclusive date range. A nil
// window blocks the whole day.
type Block struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Window     *DayWindow
	Reason     string
}

func (b Block) AppliesTo(date time.Time) bool {
	d := civil(date)
	return civil(b.StartDate) <= d && d <= civil(b.EndDate)
}

func (b Block) IsFullDay() bool {
	return b.Window == nil
}

// Break is a recurring (weekday) or date-scoped exclusion. With neither
// weekday nor date it recurs daily; a nil window covers the full day.
type Break struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	Weekday    *time.Weekday
	Date       *time.Time
	Window     *DayWindow
	Label      string
}

func (b Break) AppliesTo(date time.Time) bool {
	if b.Date != nil {
		return sameDate(*b.Date, date)
	}
	if b.Weekday != nil {
		return *b.Weekday == date.Weekday()
	}
	return true
}

func civil(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
