package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"clinic-scheduler/cmd/bootstrap"
	"clinic-scheduler/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			app := fx.New(
				bootstrap.Module,
				bootstrap.FxEventLogger,
				fx.Provide(
					func() *gin.Engine {
						return gin.New()
					},
					newHTTPServer,
				),
				fx.Invoke(
					startServer,
				),
			)

			if err := app.Start(context.Background()); err != nil {
				slog.Error("failed to start application", "error", err)
				return err
			}

			<-app.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := app.Stop(stopCtx); err != nil {
				slog.Error("failed to stop application cleanly", "error", err)
			}

			slog.Info("application stopped")
			return nil
		},
	}
}

func newHTTPServer(engine *gin.Engine, cfg config.Config) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func startServer(lc fx.Lifecycle, srv *http.Server, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			gin.EnableJsonDecoderDisallowUnknownFields()
			logger.Info("starting server", "address", srv.Addr, "mode", gin.Mode())
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped unexpectedly", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
}
