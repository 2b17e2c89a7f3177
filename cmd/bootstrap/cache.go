package bootstrap

import (
	"context"
	"log/slog"

	"clinic-scheduler/internal/infra/cache"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/usecase/shared"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewTemplateCache,
	),
)

// NewTemplateCache falls back to a no-op cache when REDIS_ADDR is unset.
func NewTemplateCache(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.TemplateCache, error) {
	if cfg.Redis.Addr == "" {
		return shared.NoopTemplateCache{}, nil
	}

	rdb, err := cache.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})

	logger.Info("template cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TemplateTTL)
	return cache.NewTemplateCache(rdb, cfg.Redis.TemplateTTL, logger.With("component", "template_cache")), nil
}
