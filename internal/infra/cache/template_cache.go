package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const templateKeyPrefix = "availability:template:"

// TemplateCache keeps working-day templates in Redis. Every failure is
// logged and reported as a miss so the caller falls back to the database.
type TemplateCache struct {
	rdb    goredis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewTemplateCache(rdb goredis.Cmdable, ttl time.Duration, logger *slog.Logger) *TemplateCache {
	return &TemplateCache{rdb: rdb, ttl: ttl, logger: logger}
}

// NewClient connects and pings Redis.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// noFence makes Fill a no-op when the fence could not be read.
const noFence int64 = -1

// fillScript writes the entry only while the fence still matches the one the
// reader saw, so a fill racing an invalidation is dropped.
var fillScript = goredis.NewScript(`
local fence = tonumber(redis.call('GET', KEYS[2]) or '0')
if fence ~= tonumber(ARGV[1]) then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

func (c *TemplateCache) Get(ctx context.Context, resourceID uuid.UUID) (*availability.Template, int64, bool) {
	vals, err := c.rdb.MGet(ctx, templateKey(resourceID), fenceKey(resourceID)).Result()
	if err != nil {
		c.logger.Warn("template cache read failed", "resource_id", resourceID, "error", err.Error())
		return nil, noFence, false
	}

	fence, err := parseFence(vals[1])
	if err != nil {
		c.logger.Warn("template cache fence is corrupt", "resource_id", resourceID, "error", err.Error())
		fence = noFence
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, fence, false
	}

	tpl, err := decodeTemplate([]byte(raw))
	if err != nil {
		c.logger.Warn("template cache entry is corrupt", "resource_id", resourceID, "error", err.Error())
		c.Invalidate(ctx, resourceID)
		return nil, noFence, false
	}
	return tpl, fence, true
}

// Fill stores tpl unless the resource was invalidated after fence was read.
func (c *TemplateCache) Fill(ctx context.Context, tpl *availability.Template, fence int64) {
	if fence < 0 {
		return
	}
	raw, err := encodeTemplate(tpl)
	if err != nil {
		c.logger.Warn("template cache encode failed", "resource_id", tpl.ResourceID(), "error", err.Error())
		return
	}
	keys := []string{templateKey(tpl.ResourceID()), fenceKey(tpl.ResourceID())}
	stored, err := fillScript.Run(ctx, c.rdb, keys, fence, raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.logger.Warn("template cache write failed", "resource_id", tpl.ResourceID(), "error", err.Error())
		return
	}
	if stored == 0 {
		c.logger.Debug("template cache fill skipped after invalidation", "resource_id", tpl.ResourceID(), "fence", fence)
	}
}

// Invalidate advances the fence and drops the entry in one transaction.
func (c *TemplateCache) Invalidate(ctx context.Context, resourceID uuid.UUID) {
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, fenceKey(resourceID))
		pipe.Del(ctx, templateKey(resourceID))
		return nil
	})
	if err != nil {
		c.logger.Warn("template cache invalidation failed", "resource_id", resourceID, "error", err.Error())
	}
}

func templateKey(resourceID uuid.UUID) string {
	return templateKeyPrefix + resourceID.String()
}

func fenceKey(resourceID uuid.UUID) string {
	return templateKey(resourceID) + ":fence"
}

func parseFence(v any) (int64, error) {
	switch f := v.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseInt(f, 10, 64)
	default:
		return 0, errs.Newf("unexpected fence type %T", v)
	}
}

type cachedSession struct {
	Weekday time.Weekday `json:"weekday"`
	Start   int          `json:"start"`
	End     int          `json:"end"`
}

type cachedTemplate struct {
	ResourceID uuid.UUID       `json:"resource_id"`
	Sessions   []cachedSession `json:"sessions"`
	Duration   int             `json:"default_duration_minutes"`
	Buffer     int             `json:"buffer_minutes"`
	Step       int             `json:"step_interval_minutes"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func encodeTemplate(tpl *availability.Template) ([]byte, error) {
	cfg := tpl.Config()
	dto := cachedTemplate{
		ResourceID: tpl.ResourceID(),
		Sessions:   make([]cachedSession, 0, len(tpl.Sessions())),
		Duration:   cfg.DefaultDurationMinutes,
		Buffer:     cfg.BufferMinutes,
		Step:       cfg.StepIntervalMinutes,
		UpdatedAt:  tpl.UpdatedAt(),
	}
	for _, s := range tpl.Sessions() {
		dto.Sessions = append(dto.Sessions, cachedSession{Weekday: s.Weekday, Start: int(s.Window.Start), End: int(s.Window.End)})
	}
	return json.Marshal(dto)
}

func decodeTemplate(raw []byte) (*availability.Template, error) {
	var dto cachedTemplate
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, err
	}
	sessions := make([]availability.Session, 0, len(dto.Sessions))
	for _, s := range dto.Sessions {
		sessions = append(sessions, availability.Session{
			Weekday: s.Weekday,
			Window:  availability.DayWindow{Start: availability.TimeOfDay(s.Start), End: availability.TimeOfDay(s.End)},
		})
	}
	cfg := availability.SlotConfiguration{
		DefaultDurationMinutes: dto.Duration,
		BufferMinutes:          dto.Buffer,
		StepIntervalMinutes:    dto.Step,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return availability.ReconstructTemplate(dto.ResourceID, sessions, cfg, dto.UpdatedAt), nil
}
