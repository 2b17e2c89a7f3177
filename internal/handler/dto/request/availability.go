package request

import (
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/domain/resource"
	"clinic-scheduler/internal/handler/validation"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/pkg/ptr"
	"clinic-scheduler/internal/usecase/commands"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type CreateResourceRequest struct {
	Name            string  `json:"name" binding:"required,max=100"`
	Kind            string  `json:"kind" binding:"required,oneof=doctor theater"`
	Timezone        *string `json:"timezone"`
	LeadTimeMinutes int     `json:"lead_time_minutes" binding:"min=0"`
}

type WindowRequest struct {
	Start string `json:"start" binding:"required,timeofday"`
	End   string `json:"end" binding:"required,timeofday"`
}

type SessionRequest struct {
	Weekday string `json:"weekday" binding:"required,weekday"`
	WindowRequest
}

type ReplaceTemplateRequest struct {
	Sessions               []SessionRequest `json:"sessions" binding:"dive"`
	DefaultDurationMinutes int              `json:"default_duration_minutes" binding:"required,min=1"`
	BufferMinutes          int              `json:"buffer_minutes" binding:"min=0"`
	StepIntervalMinutes    int              `json:"step_interval_minutes" binding:"required,min=1"`
}

type OverrideRequest struct {
	Date    string          `json:"date" binding:"required,datetime=2006-01-02"`
	Kind    string          `json:"kind" binding:"required,oneof=add remove"`
	Windows []WindowRequest `json:"windows" binding:"dive"`
	Reason  string          `json:"reason" binding:"max=500"`
}

type BlockRequest struct {
	StartDate string         `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string         `json:"end_date" binding:"required,datetime=2006-01-02"`
	Window    *WindowRequest `json:"window"`
	Reason    string         `json:"reason" binding:"max=500"`
}

type BreakRequest struct {
	Weekday *string        `json:"weekday" binding:"omitempty,weekday"`
	Date    *string        `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Window  *WindowRequest `json:"window"`
	Label   string         `json:"label" binding:"max=200"`
}

type SlotsQueryRequest struct {
	From               string `form:"from" binding:"required,datetime=2006-01-02"`
	To                 string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	DurationMinutes    int    `form:"duration" binding:"omitempty,min=1"`
	IncludeUnavailable bool   `form:"include_unavailable"`
}

type ConflictRequest struct {
	ResourceID       uuid.UUID  `json:"resource_id" binding:"required"`
	Start            time.Time  `json:"start" binding:"required"`
	End              time.Time  `json:"end" binding:"required"`
	BufferMinutes    *int       `json:"buffer_minutes"`
	ExcludeBookingID *uuid.UUID `json:"exclude_booking_id"`
}

type UtilizationQueryRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

func (r *CreateResourceRequest) ToCommand(defaultTimezone string) commands.CreateResourceCommand {
	return commands.CreateResourceCommand{
		Name:        r.Name,
		Kind:        resource.Kind(r.Kind),
		Timezone:    ptr.Or(r.Timezone, defaultTimezone),
		LeadTimeMin: r.LeadTimeMinutes,
	}
}

func (r WindowRequest) ToDomain() (availability.DayWindow, error) {
	start, err := availability.ParseTimeOfDay(r.Start)
	if err != nil {
		return availability.DayWindow{}, err
	}
	end, err := availability.ParseTimeOfDay(r.End)
	if err != nil {
		return availability.DayWindow{}, err
	}
	return availability.NewDayWindow(start, end)
}

func (r *ReplaceTemplateRequest) ToCommand(resourceID uuid.UUID) (commands.ReplaceTemplateCommand, error) {
	sessions := make([]availability.Session, 0, len(r.Sessions))
	for _, s := range r.Sessions {
		day, ok := validation.ParseWeekday(s.Weekday)
		if !ok {
			return commands.ReplaceTemplateCommand{}, errs.Validation("weekday", s.Weekday+" is not a weekday")
		}
		w, err := s.ToDomain()
		if err != nil {
			return commands.ReplaceTemplateCommand{}, err
		}
		sessions = append(sessions, availability.Session{Weekday: day, Window: w})
	}
	return commands.ReplaceTemplateCommand{
		ResourceID: resourceID,
		Sessions:   sessions,
		Config: availability.SlotConfiguration{
			DefaultDurationMinutes: r.DefaultDurationMinutes,
			BufferMinutes:          r.BufferMinutes,
			StepIntervalMinutes:    r.StepIntervalMinutes,
		},
	}, nil
}

func (r *OverrideRequest) ToDomain(resourceID uuid.UUID) (availability.Override, error) {
	date, err := parseDate("date", r.Date)
	if err != nil {
		return availability.Override{}, err
	}
	windows, err := toWindows(r.Windows)
	if err != nil {
		return availability.Override{}, err
	}
	return availability.Override{
		ResourceID: resourceID,
		Date:       date,
		Kind:       availability.OverrideKind(r.Kind),
		Windows:    windows,
		Reason:     r.Reason,
	}, nil
}

func (r *BlockRequest) ToDomain(resourceID uuid.UUID) (availability.Block, error) {
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return availability.Block{}, err
	}
	end, err := parseDate("end_date", r.EndDate)
	if err != nil {
		return availability.Block{}, err
	}
	window, err := toWindowPtr(r.Window)
	if err != nil {
		return availability.Block{}, err
	}
	return availability.Block{
		ResourceID: resourceID,
		StartDate:  start,
		EndDate:    end,
		Window:     window,
		Reason:     r.Reason,
	}, nil
}

func (r *BreakRequest) ToDomain(resourceID uuid.UUID) (availability.Break, error) {
	b := availability.Break{ResourceID: resourceID, Label: r.Label}
	if r.Weekday != nil {
		day, ok := validation.ParseWeekday(*r.Weekday)
		if !ok {
			return availability.Break{}, errs.Validation("weekday", *r.Weekday+" is not a weekday")
		}
		b.Weekday = &day
	}
	if r.Date != nil {
		date, err := parseDate("date", *r.Date)
		if err != nil {
			return availability.Break{}, err
		}
		b.Date = &date
	}
	window, err := toWindowPtr(r.Window)
	if err != nil {
		return availability.Break{}, err
	}
	b.Window = window
	return b, nil
}

func (r *SlotsQueryRequest) ToQuery(resourceID uuid.UUID) (queries.SlotsQuery, error) {
	from, err := parseDate("from", r.From)
	if err != nil {
		return queries.SlotsQuery{}, err
	}
	var to time.Time
	if r.To != "" {
		if to, err = parseDate("to", r.To); err != nil {
			return queries.SlotsQuery{}, err
		}
	}
	return queries.SlotsQuery{
		ResourceID:         resourceID,
		From:               from,
		To:                 to,
		DurationMinutes:    r.DurationMinutes,
		IncludeUnavailable: r.IncludeUnavailable,
	}, nil
}

func (r *ConflictRequest) ToQuery() queries.ConflictQuery {
	q := queries.ConflictQuery{
		ResourceID:    r.ResourceID,
		Start:         r.Start,
		End:           r.End,
		BufferMinutes: r.BufferMinutes,
	}
	if r.ExcludeBookingID != nil {
		q.ExcludeBookingID = *r.ExcludeBookingID
	}
	return q
}

func (r *UtilizationQueryRequest) ToQuery(resourceID uuid.UUID) queries.UtilizationQuery {
	return queries.UtilizationQuery{ResourceID: resourceID, From: r.From, To: r.To}
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errs.Validation(field, s+" is not YYYY-MM-DD")
	}
	return t, nil
}

func toWindows(in []WindowRequest) ([]availability.DayWindow, error) {
	out := make([]availability.DayWindow, 0, len(in))
	for _, w := range in {
		dw, err := w.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, dw)
	}
	return out, nil
}

func toWindowPtr(in *WindowRequest) (*availability.DayWindow, error) {
	if in == nil {
		return nil, nil
	}
	w, err := in.ToDomain()
	if err != nil {
		return nil, err
	}
	return &w, nil
}
