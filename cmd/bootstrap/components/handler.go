package components

import (
	"clinic-scheduler/internal/handler"
	"clinic-scheduler/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewBookingHandler,
		api.NewCaseHandler,
		func(b *api.BookingHandler, c *api.CaseHandler, a *api.AvailabilityHandler) handler.Handlers {
			return handler.Handlers{Booking: b, Case: c, Availability: a}
		},
	),
	fx.Invoke(handler.NewRouter),
)
