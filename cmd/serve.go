package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/delcain/drawsync/pkg/api"
	"github.com/delcain/drawsync/pkg/engine"
	"github.com/delcain/drawsync/pkg/observability"
	"github.com/delcain/drawsync/pkg/scheduler"
)

//nolint:gochecknoglobals // Cobra commands are typically global
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync daemon with the query API",
	Long: `Starts the periodic sync scheduler, the read-only query API, and the
Prometheus metrics server, shutting all of them down gracefully on
SIGINT/SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	config, err := LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := newLogger(config.Logging)
	if err != nil {
		return err
	}

	eng, err := engine.New(log, &config.Engine)
	if err != nil {
		return fmt.Errorf("failed to load draw store: %w", err)
	}

	sched, err := scheduler.NewService(log, &config.Scheduler, eng)
	if err != nil {
		return err
	}

	apiService := api.NewService(&config.API, eng, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	observability.StartMetricsServer(config.MetricsAddr)

	var healthServer *http.Server
	if config.HealthCheckAddr != "" {
		healthServer = startHealthCheck(config.HealthCheckAddr)
	}

	if err := apiService.Start(ctx); err != nil {
		return err
	}

	if err := sched.Start(ctx); err != nil {
		return err
	}

	log.Info("drawsync daemon started")

	<-ctx.Done()

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		log.WithError(err).Error("Failed to stop scheduler")
	}

	if err := apiService.Stop(); err != nil {
		log.WithError(err).Error("Failed to stop API server")
	}

	if healthServer != nil {
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Failed to stop health check server")
		}
	}

	if err := observability.StopMetricsServer(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to stop metrics server")
	}

	return nil
}

func startHealthCheck(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("Health check server failed")
		}
	}()

	return server
}
