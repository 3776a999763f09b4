package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	server "taskapp/internal/adapter/http"
	"taskapp/pkg/config"
	"taskapp/pkg/logger"
	"taskapp/pkg/telemetry"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the metrics server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()

			if err != nil {
				return err
			}

			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	log, err := logger.New(cfg.ServiceName, cfg.LokiURL, cfg.IsProduction())

	if err != nil {
		return err
	}

	defer log.Sync()

	tel, err := telemetry.InitTelemetry(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})

	if err != nil {
		return err
	}

	srv, err := server.NewServer(ctx, cfg, log, tel.Metrics)

	if err != nil {
		_ = tel.Shutdown(ctx)
		return err
	}

	go func() {
		if err := tel.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Zap().Error("Metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		log.Zap().Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("database", cfg.DBDriver),
			zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
			zap.Bool("https_enforced", cfg.EnforceHTTPS),
		)

		if err := srv.ListenAndServe(); err != nil {
			log.Zap().Fatal("Server failed to start", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Zap().Info("Shutting down gracefully...")
				return srv.Shutdown(ctx)
			},
			"telemetry": func(ctx context.Context) error {
				return tel.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Zap().Info("Server stopped", zap.Int("exit_code", exitCode))

	if exitCode != 0 {
		return fmt.Errorf("shutdown finished with exit code %d", exitCode)
	}

	return nil
}
