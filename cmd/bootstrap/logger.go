package bootstrap

import (
	"log/slog"
	"strings"

	"clinic-scheduler/internal/handler/middleware"
	"clinic-scheduler/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		middleware.NewLogger,
		NewSlogLogger,
		NewZapLogger,
	),
)

// FxEventLogger routes fx lifecycle events through zap.
var FxEventLogger = fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log}
})

func NewSlogLogger(l *middleware.Logger) *slog.Logger {
	return l.GetSlogLogger()
}

func NewZapLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if gin.Mode() == gin.ReleaseMode {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)

	return zcfg.Build()
}
