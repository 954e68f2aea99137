package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/deploy"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/gasreport"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/metrics"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/mocks"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/pkg/ulid"
)

func newDeployCmd(a *app) *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run deploy tasks",
		Long: `Run the deploy tasks selected by tag against a network.

Examples:
  harness deploy
  harness deploy --network localhost --tags mocks
  harness deploy --network sepolia`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runDeploy(ctx, tags)
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", []string{"all"}, "comma-separated task tags to run")
	return cmd
}

// registry returns the deploy tasks of this project.
func (a *app) registry() (*deploy.Registry, error) {
	params, err := mocks.ParamsFromConfig(a.cfg.Mocks)
	if err != nil {
		return nil, err
	}

	reg := deploy.NewRegistry()
	if err := reg.Register(mocks.Task(params)); err != nil {
		return nil, err
	}
	return reg, nil
}

func (a *app) runDeploy(ctx context.Context, tags []string) error {
	reg, err := a.registry()
	if err != nil {
		return err
	}

	s, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	runID := ulid.NewRunID()
	m := metrics.New()
	report := gasreport.New(a.cfg.GasReporter)

	env, err := a.deployEnv(ctx, s, runID, m, report)
	if err != nil {
		return err
	}

	a.logger.Info("starting deploy",
		slog.String("run_id", runID),
		slog.String("network", s.network.Name),
		slog.Int64("chain_id", s.network.ChainID),
		slog.Any("tags", tags),
	)

	start := time.Now()
	runner := deploy.NewRunner(reg, deploy.RunnerConfig{Logger: a.logger, Metrics: m})
	runErr := runner.Run(ctx, env, tags...)

	if err := report.WriteFile(); err != nil {
		a.logger.Warn("failed to write gas report", slog.String("error", err.Error()))
	}
	if err := m.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.logger.Warn("failed to write metrics", slog.String("error", err.Error()))
	}

	if runErr != nil {
		return runErr
	}

	a.logger.Info("deploy finished",
		slog.String("run_id", runID),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}
