package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"walletprobe.com/internal/application/usecase"
	"walletprobe.com/internal/domain/entity"
	"walletprobe.com/internal/infrastructure/recorder"
	"walletprobe.com/internal/infrastructure/walletapi"
)

var onceCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "once",
	Short: "Run a single probe iteration and report its checks.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, appLogger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = appLogger.Sync() }()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		client, err := walletapi.NewClient(cfg.Target.BaseURL, appLogger)
		if err != nil {
			return err
		}

		checks := recorder.NewInMemoryCheckRecorder(appLogger)

		probeCfg := usecase.DefaultProbeConfig(cfg.Target.Wallet)
		probeCfg.ThinkTime = 0
		probe := usecase.NewProbeIterationUseCase(client, checks, appLogger, probeCfg)

		report := probe.Execute(ctx)

		out := cmd.OutOrStdout()
		for _, c := range report.Checks {
			mark := "✓"
			if !c.Passed {
				mark = "✗"
			}
			_, _ = fmt.Fprintf(out, "%s %s\n", mark, c.Name)
		}
		_, _ = fmt.Fprintf(out, "iteration took %s\n", report.Duration)

		if failed := report.Failed(); len(failed) > 0 {
			return fmt.Errorf("%w: %d of %d", entity.ErrChecksFailed, len(failed), len(report.Checks))
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(onceCmd)
}
