package bootstrap

import (
	"clinic-scheduler/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	StorageModule,
	CacheModule,
	components.DomainModule,
	components.UseCaseModule,
	components.HandlerModule,
)
