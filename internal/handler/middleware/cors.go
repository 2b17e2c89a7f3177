package middleware

import (
	"log/slog"
	"slices"

	"clinic-scheduler/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:  cfg.AllowMethods,
		AllowHeaders:  cfg.AllowHeaders,
		ExposeHeaders: cfg.ExposeHeaders,
		MaxAge:        cfg.MaxAge,
	}
	// gin-contrib/cors rejects "*" combined with credentials.
	if slices.Contains(cfg.AllowOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
		corsCfg.AllowCredentials = cfg.AllowCredentials
	}
	if !slices.Contains(corsCfg.AllowHeaders, ActorHeader) {
		corsCfg.AllowHeaders = append(slices.Clone(corsCfg.AllowHeaders), ActorHeader)
	}
	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins)
	return cors.New(corsCfg)
}
