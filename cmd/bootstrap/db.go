package bootstrap

import (
	"context"
	"log/slog"

	"clinic-scheduler/internal/infra/db"
	"clinic-scheduler/internal/infra/memory"
	"clinic-scheduler/internal/infra/uow"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

var StorageModule = fx.Module("storage",
	fx.Provide(
		NewUnitOfWork,
	),
)

// NewDB returns a nil pool for the in-memory driver.
func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.Storage.IsMemory() {
		return nil, nil
	}

	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}

func NewUnitOfWork(cfg config.Config, pool *pgxpool.Pool, logger *slog.Logger) shared.UnitOfWork {
	if cfg.Storage.IsMemory() || pool == nil {
		logger.Info("using in-memory storage")
		return memory.NewUnitOfWork()
	}
	return uow.NewPostgresUoW(pool)
}
