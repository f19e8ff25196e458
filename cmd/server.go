package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Nitinadonis1/Weather---app/internal/config"
	"github.com/Nitinadonis1/Weather---app/internal/server"
	"github.com/Nitinadonis1/Weather---app/internal/service"
)

const shutdownTimeout = 30 * time.Second

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the weather dashboard server",
		Long:  `Start the HTTP server that answers weather, forecast, chart and dashboard requests with caching and observability.`,
		RunE:  runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting weather dashboard server",
		zap.String("config_path", configPath),
		zap.Bool("demo_mode", cfg.Weather.DemoMode()),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	svc, err := service.New(cfg.Weather, log.Logger, tele)
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg, svc, log.Logger, tele)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(cmd.Context())
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
