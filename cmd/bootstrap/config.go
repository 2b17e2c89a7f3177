package bootstrap

import (
	"clinic-scheduler/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	SectionModule,
)

// SectionModule exposes config sections to constructors that only need a part.
var SectionModule = fx.Module("config/sections",
	fx.Provide(
		func(cfg config.Config) config.SchedulingConfig { return cfg.Scheduling },
		func(cfg config.Config) config.LogConfig { return cfg.Log },
	),
)
