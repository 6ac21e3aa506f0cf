package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"walletprobe.com/internal/application/usecase"
	"walletprobe.com/internal/infrastructure/loadrunner"
	"walletprobe.com/internal/infrastructure/logger"
	"walletprobe.com/internal/infrastructure/metrics"
	"walletprobe.com/internal/infrastructure/recorder"
	"walletprobe.com/internal/infrastructure/walletapi"
)

var runCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "run",
	Short: "Run the ramping load probe.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, appLogger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = appLogger.Sync() }()

		profile := cfg.Profile()
		appLogger.LogInfo(context.TODO(), "Configuration loaded",
			"base_url", cfg.Target.BaseURL,
			"wallet_id", cfg.Target.Wallet.String(),
			"duration", profile.Duration().String(),
			"max_vus", profile.MaxTarget(),
			"think_time", cfg.Load.ThinkTime.String())

		// Stop on termination signals; in-flight requests are cancelled
		ctx, stop := signal.NotifyContext(context.Background(),
			os.Interrupt, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM)
		defer stop()

		metrics.Init()
		var metricsServer *http.Server
		if cfg.Metrics.Addr != "" {
			metricsServer = startMetricsServer(cfg.Metrics.Addr, appLogger)
		}

		client, err := walletapi.NewClient(cfg.Target.BaseURL, appLogger,
			walletapi.WithMaxIdleConns(profile.MaxTarget()))
		if err != nil {
			appLogger.LogError(ctx, "Failed to create wallet client", err)
			return err
		}

		checks := recorder.NewInMemoryCheckRecorder(appLogger)

		probeCfg := usecase.DefaultProbeConfig(cfg.Target.Wallet)
		probeCfg.ThinkTime = cfg.Load.ThinkTime
		probe := usecase.NewProbeIterationUseCase(client, checks, appLogger, probeCfg)

		runner, err := loadrunner.NewRunner(profile, appLogger,
			loadrunner.WithGracefulStop(cfg.Load.GracefulStop))
		if err != nil {
			appLogger.LogError(ctx, "Invalid load profile", err)
			return err
		}

		runErr := runner.Run(ctx, func(ctx context.Context, _ int) {
			probe.Execute(ctx)
		})
		if errors.Is(runErr, context.Canceled) {
			appLogger.LogInfo(context.TODO(), "Received termination signal. Run stopped early.")
		}

		summary := checks.Summary()
		printSummary(cmd.OutOrStdout(), summary)
		checks.LogSummary(context.TODO())

		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				appLogger.LogError(context.TODO(), "Metrics server forced to shutdown", err)
			}
		}

		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			return runErr
		}
		return nil
	},
}

// startMetricsServer serves /metrics until it is shut down
func startMetricsServer(addr string, appLogger logger.Logger) *http.Server {
	r := chi.NewRouter()
	r.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.LogInfo(context.TODO(), "Starting metrics server", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.LogError(context.TODO(), "Metrics server error", err)
		}
	}()

	return server
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(runCmd)
}
