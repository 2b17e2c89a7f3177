package response

import (
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/domain/resource"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

const dateLayout = "2006-01-02"

type ResourceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Kind            string    `json:"kind"`
	Timezone        string    `json:"timezone"`
	LeadTimeMinutes int       `json:"lead_time_minutes"`
}

type WindowResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type SessionResponse struct {
	Weekday string `json:"weekday"`
	WindowResponse
}

type TemplateResponse struct {
	ResourceID             uuid.UUID         `json:"resource_id"`
	Sessions               []SessionResponse `json:"sessions"`
	DefaultDurationMinutes int               `json:"default_duration_minutes"`
	BufferMinutes          int               `json:"buffer_minutes"`
	StepIntervalMinutes    int               `json:"step_interval_minutes"`
}

type OverrideResponse struct {
	ID      uuid.UUID        `json:"id"`
	Date    string           `json:"date"`
	Kind    string           `json:"kind"`
	Windows []WindowResponse `json:"windows"`
	Reason  string           `json:"reason,omitempty"`
}

type BlockResponse struct {
	ID        uuid.UUID       `json:"id"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Window    *WindowResponse `json:"window,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

type BreakResponse struct {
	ID      uuid.UUID       `json:"id"`
	Weekday *string         `json:"weekday,omitempty"`
	Date    *string         `json:"date,omitempty"`
	Window  *WindowResponse `json:"window,omitempty"`
	Label   string          `json:"label,omitempty"`
}

type SlotResponse struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

type ConflictResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
}

type ConflictReportResponse struct {
	HasConflict bool               `json:"has_conflict"`
	Conflicts   []ConflictResponse `json:"conflicts"`
}

type UtilizationResponse struct {
	ResourceID            uuid.UUID `json:"resource_id"`
	From                  time.Time `json:"from"`
	To                    time.Time `json:"to"`
	BusyMinutes           int       `json:"busy_minutes"`
	FreeMinutes           int       `json:"free_minutes"`
	TotalMinutes          int       `json:"total_minutes"`
	UtilizationPercentage float64   `json:"utilization_percentage"`
}

func FromResource(r *resource.Resource) *ResourceResponse {
	return &ResourceResponse{
		ID:              r.ID(),
		Name:            r.Name(),
		Kind:            string(r.Kind()),
		Timezone:        r.Location().String(),
		LeadTimeMinutes: r.LeadTimeMin(),
	}
}

func FromTemplate(t *availability.Template) *TemplateResponse {
	cfg := t.Config()
	sessions := make([]SessionResponse, 0, len(t.Sessions()))
	for _, s := range t.Sessions() {
		sessions = append(sessions, SessionResponse{
			Weekday:        s.Weekday.String(),
			WindowResponse: fromWindow(s.Window),
		})
	}
	return &TemplateResponse{
		ResourceID:             t.ResourceID(),
		Sessions:               sessions,
		DefaultDurationMinutes: cfg.DefaultDurationMinutes,
		BufferMinutes:          cfg.BufferMinutes,
		StepIntervalMinutes:    cfg.StepIntervalMinutes,
	}
}

func FromOverride(o *availability.Override) *OverrideResponse {
	windows := make([]WindowResponse, 0, len(o.Windows))
	for _, w := range o.Windows {
		windows = append(windows, fromWindow(w))
	}
	return &OverrideResponse{
		ID:      o.ID,
		Date:    o.Date.Format(dateLayout),
		Kind:    string(o.Kind),
		Windows: windows,
		Reason:  o.Reason,
	}
}

func FromBlock(b *availability.Block) *BlockResponse {
	return &BlockResponse{
		ID:        b.ID,
		StartDate: b.StartDate.Format(dateLayout),
		EndDate:   b.EndDate.Format(dateLayout),
		Window:    fromWindowPtr(b.Window),
		Reason:    b.Reason,
	}
}

func FromBreak(b *availability.Break) *BreakResponse {
	res := &BreakResponse{ID: b.ID, Window: fromWindowPtr(b.Window), Label: b.Label}
	if b.Weekday != nil {
		day := b.Weekday.String()
		res.Weekday = &day
	}
	if b.Date != nil {
		date := b.Date.Format(dateLayout)
		res.Date = &date
	}
	return res
}

func FromSlots(slots []queries.SlotView) ([]SlotResponse, error) {
	res := make([]SlotResponse, 0, len(slots))
	if err := copier.Copy(&res, &slots); err != nil {
		return nil, errs.Wrap(err, "copy slots")
	}
	return res, nil
}

func FromConflictReport(r *queries.ConflictReport) (*ConflictReportResponse, error) {
	res := &ConflictReportResponse{HasConflict: r.HasConflict, Conflicts: make([]ConflictResponse, 0, len(r.Conflicts))}
	if err := copier.Copy(&res.Conflicts, &r.Conflicts); err != nil {
		return nil, errs.Wrap(err, "copy conflicts")
	}
	return res, nil
}

func FromUtilization(v *queries.UtilizationView) (*UtilizationResponse, error) {
	var res UtilizationResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, errs.Wrap(err, "copy utilization")
	}
	return &res, nil
}

func fromWindow(w availability.DayWindow) WindowResponse {
	return WindowResponse{Start: w.Start.String(), End: w.End.String()}
}

func fromWindowPtr(w *availability.DayWindow) *WindowResponse {
	if w == nil {
		return nil
	}
	res := fromWindow(*w)
	return &res
}
