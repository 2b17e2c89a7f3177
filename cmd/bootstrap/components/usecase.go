package components

import (
	"clinic-scheduler/internal/usecase/commands"
	"clinic-scheduler/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAvailabilityCommands,
		commands.NewBookingCommands,
		commands.NewCaseCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewBookingQueries,
	),
)
