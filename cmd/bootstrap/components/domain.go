package components

import (
	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/conflict"
	"clinic-scheduler/internal/domain/surgicalcase"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/usecase/shared"

	"go.uber.org/fx"
)

var DomainModule = fx.Module("domain",
	fx.Provide(
		clock.NewRealClock,
		conflict.NewDetector,
		fx.Annotate(
			surgicalcase.NewChecklistReadiness,
			fx.As(new(surgicalcase.ReadinessChecker)),
		),
		surgicalcase.NewLifecycle,
		NewEngine,
		NewBookingFactory,
		NewSchedulingPolicy,
	),
)

func NewEngine(cfg config.SchedulingConfig) *availability.Engine {
	return availability.NewEngine(cfg.MaxSlotSpanDays)
}

func NewBookingFactory(clk clock.Clock, cfg config.SchedulingConfig) *booking.Factory {
	return booking.NewFactory(clk, cfg.HoldTTL)
}

func NewSchedulingPolicy(cfg config.SchedulingConfig) shared.SchedulingPolicy {
	return shared.SchedulingPolicy{
		MaxSpanDays: cfg.MaxSlotSpanDays,
		HoldTTL:     cfg.HoldTTL,
		Defaults: availability.SlotConfiguration{
			DefaultDurationMinutes: cfg.DefaultSlotMinutes,
			BufferMinutes:          cfg.DefaultBufferMinutes,
			StepIntervalMinutes:    cfg.DefaultStepMinutes,
		},
	}
}
