package postgres

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/pkg/pgconv"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const getTemplate = `
SELECT default_duration_minutes, buffer_minutes, step_interval_minutes, updated_at
FROM availability_templates
WHERE resource_id = $1`

const getTemplateSessions = `
SELECT weekday, start_minute, end_minute
FROM template_sessions
WHERE resource_id = $1
ORDER BY weekday, start_minute`

const upsertTemplate = `
INSERT INTO availability_templates (resource_id, default_duration_minutes, buffer_minutes, step_interval_minutes, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (resource_id) DO UPDATE
SET default_duration_minutes = EXCLUDED.default_duration_minutes,
    buffer_minutes = EXCLUDED.buffer_minutes,
    step_interval_minutes = EXCLUDED.step_interval_minutes,
    updated_at = EXCLUDED.updated_at`

const deleteTemplateSessions = `DELETE FROM template_sessions WHERE resource_id = $1`

const getOverrides = `
SELECT id, override_date, kind, windows, reason
FROM availability_overrides
WHERE resource_id = $1 AND override_date BETWEEN $2 AND $3
ORDER BY override_date, id`

const createOverride = `
INSERT INTO availability_overrides (id, resource_id, override_date, kind, windows, reason)
VALUES ($1, $2, $3, $4, $5, $6)`

const getBlocks = `
SELECT id, start_date, end_date, start_minute, end_minute, reason
FROM availability_blocks
WHERE resource_id = $1 AND start_date <= $3 AND end_date >= $2
ORDER BY start_date, id`

const createBlock = `
INSERT INTO availability_blocks (id, resource_id, start_date, end_date, start_minute, end_minute, reason)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const getBreaks = `
SELECT id, weekday, break_date, start_minute, end_minute, label
FROM availability_breaks
WHERE resource_id = $1 AND (break_date IS NULL OR break_date BETWEEN $2 AND $3)
ORDER BY id`

const createBreak = `
INSERT INTO availability_breaks (id, resource_id, weekday, break_date, start_minute, end_minute, label)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// windowRow is the jsonb shape of an override window.
type windowRow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type AvailabilityRepository struct {
	db DBTX
}

func NewAvailabilityRepository(db DBTX) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) GetTemplate(ctx context.Context, resourceID uuid.UUID) (*availability.Template, error) {
	var (
		duration, buffer, step int32
		updatedAt              pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getTemplate, resourceID).Scan(&duration, &buffer, &step, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.NotFound("availability template", resourceID)
		}
		return nil, wrap("failed to get availability template", err)
	}

	rows, err := r.db.Query(ctx, getTemplateSessions, resourceID)
	if err != nil {
		return nil, wrap("failed to get template sessions", err)
	}
	sessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (availability.Session, error) {
		var weekday, start, end int32
		if err := row.Scan(&weekday, &start, &end); err != nil {
			return availability.Session{}, err
		}
		return availability.Session{
			Weekday: time.Weekday(weekday),
			Window:  availability.DayWindow{Start: availability.TimeOfDay(start), End: availability.TimeOfDay(end)},
		}, nil
	})
	if err != nil {
		return nil, wrap("failed to scan template sessions", err)
	}

	cfg := availability.SlotConfiguration{
		DefaultDurationMinutes: int(duration),
		BufferMinutes:          int(buffer),
		StepIntervalMinutes:    int(step),
	}
	return availability.ReconstructTemplate(resourceID, sessions, cfg, pgconv.TimeFromPgtype(updatedAt)), nil
}

// ReplaceTemplate rewrites the template row and all of its sessions.
func (r *AvailabilityRepository) ReplaceTemplate(ctx context.Context, tpl *availability.Template) error {
	cfg := tpl.Config()
	if _, err := r.db.Exec(ctx, upsertTemplate, tpl.ResourceID(), cfg.DefaultDurationMinutes, cfg.BufferMinutes, cfg.StepIntervalMinutes); err != nil {
		return wrap("failed to upsert availability template", err)
	}
	if _, err := r.db.Exec(ctx, deleteTemplateSessions, tpl.ResourceID()); err != nil {
		return wrap("failed to clear template sessions", err)
	}

	sessions := tpl.Sessions()
	if len(sessions) == 0 {
		return nil
	}
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"template_sessions"},
		[]string{"resource_id", "weekday", "start_minute", "end_minute"},
		pgx.CopyFromSlice(len(sessions), func(i int) ([]any, error) {
			s := sessions[i]
			return []any{tpl.ResourceID(), int32(s.Weekday), int32(s.Window.Start), int32(s.Window.End)}, nil
		}),
	)
	if err != nil {
		return wrap("failed to insert template sessions", err)
	}
	return nil
}

func (r *AvailabilityRepository) GetOverrides(ctx context.Context, q shared.RangeQuery) ([]availability.Override, error) {
	first, last := dateBounds(q)
	rows, err := r.db.Query(ctx, getOverrides, q.ResourceID, first, last)
	if err != nil {
		return nil, wrap("failed to get availability overrides", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (availability.Override, error) {
		var (
			o       availability.Override
			date    pgtype.Date
			kind    string
			windows []windowRow
		)
		if err := row.Scan(&o.ID, &date, &kind, &windows, &o.Reason); err != nil {
			return o, err
		}
		o.ResourceID = q.ResourceID
		o.Date = pgconv.DateFromPgtype(date)
		o.Kind = availability.OverrideKind(kind)
		for _, w := range windows {
			o.Windows = append(o.Windows, availability.DayWindow{Start: availability.TimeOfDay(w.Start), End: availability.TimeOfDay(w.End)})
		}
		return o, nil
	})
	if err != nil {
		return nil, wrap("failed to scan availability overrides", err)
	}
	return out, nil
}

func (r *AvailabilityRepository) AddOverride(ctx context.Context, o availability.Override) error {
	windows := make([]windowRow, 0, len(o.Windows))
	for _, w := range o.Windows {
		windows = append(windows, windowRow{Start: int(w.Start), End: int(w.End)})
	}
	_, err := r.db.Exec(ctx, createOverride, o.ID, o.ResourceID, pgconv.DateToPgtype(o.Date), string(o.Kind), windows, o.Reason)
	if err != nil {
		return wrap("failed to create availability override", err)
	}
	return nil
}

func (r *AvailabilityRepository) GetBlocks(ctx context.Context, q shared.RangeQuery) ([]availability.Block, error) {
	first, last := dateBounds(q)
	rows, err := r.db.Query(ctx, getBlocks, q.ResourceID, first, last)
	if err != nil {
		return nil, wrap("failed to get availability blocks", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (availability.Block, error) {
		var (
			b                  availability.Block
			startDate, endDate pgtype.Date
			start, end         pgtype.Int4
		)
		if err := row.Scan(&b.ID, &startDate, &endDate, &start, &end, &b.Reason); err != nil {
			return b, err
		}
		b.ResourceID = q.ResourceID
		b.StartDate = pgconv.DateFromPgtype(startDate)
		b.EndDate = pgconv.DateFromPgtype(endDate)
		b.Window = windowFromPgtype(start, end)
		return b, nil
	})
	if err != nil {
		return nil, wrap("failed to scan availability blocks", err)
	}
	return out, nil
}

func (r *AvailabilityRepository) AddBlock(ctx context.Context, b availability.Block) error {
	start, end := windowToPgtype(b.Window)
	_, err := r.db.Exec(ctx, createBlock,
		b.ID, b.ResourceID,
		pgconv.DateToPgtype(b.StartDate), pgconv.DateToPgtype(b.EndDate),
		start, end, b.Reason,
	)
	if err != nil {
		return wrap("failed to create availability block", err)
	}
	return nil
}

// GetBreaks returns recurring breaks plus dated breaks inside the range.
func (r *AvailabilityRepository) GetBreaks(ctx context.Context, q shared.RangeQuery) ([]availability.Break, error) {
	first, last := dateBounds(q)
	rows, err := r.db.Query(ctx, getBreaks, q.ResourceID, first, last)
	if err != nil {
		return nil, wrap("failed to get availability breaks", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (availability.Break, error) {
		var (
			b          availability.Break
			weekday    pgtype.Int2
			date       pgtype.Date
			start, end pgtype.Int4
		)
		if err := row.Scan(&b.ID, &weekday, &date, &start, &end, &b.Label); err != nil {
			return b, err
		}
		b.ResourceID = q.ResourceID
		if weekday.Valid {
			wd := time.Weekday(weekday.Int16)
			b.Weekday = &wd
		}
		b.Date = pgconv.DatePtrFromPgtype(date)
		b.Window = windowFromPgtype(start, end)
		return b, nil
	})
	if err != nil {
		return nil, wrap("failed to scan availability breaks", err)
	}
	return out, nil
}

func (r *AvailabilityRepository) AddBreak(ctx context.Context, b availability.Break) error {
	weekday := pgtype.Int2{}
	if b.Weekday != nil {
		weekday = pgtype.Int2{Int16: int16(*b.Weekday), Valid: true}
	}
	start, end := windowToPgtype(b.Window)
	_, err := r.db.Exec(ctx, createBreak,
		b.ID, b.ResourceID, weekday, pgconv.DatePtrToPgtype(b.Date), start, end, b.Label,
	)
	if err != nil {
		return wrap("failed to create availability break", err)
	}
	return nil
}

// dateBounds turns the half-open instant range into inclusive calendar dates.
func dateBounds(q shared.RangeQuery) (pgtype.Date, pgtype.Date) {
	return pgconv.DateToPgtype(q.From), pgconv.DateToPgtype(q.To.Add(-time.Nanosecond))
}

func windowToPgtype(w *availability.DayWindow) (pgtype.Int4, pgtype.Int4) {
	if w == nil {
		return pgtype.Int4{}, pgtype.Int4{}
	}
	start, end := int(w.Start), int(w.End)
	return pgconv.Int4PtrToPgtype(&start), pgconv.Int4PtrToPgtype(&end)
}

func windowFromPgtype(start, end pgtype.Int4) *availability.DayWindow {
	s, e := pgconv.IntPtrFromPgtype(start), pgconv.IntPtrFromPgtype(end)
	if s == nil || e == nil {
		return nil
	}
	return &availability.DayWindow{Start: availability.TimeOfDay(*s), End: availability.TimeOfDay(*e)}
}
