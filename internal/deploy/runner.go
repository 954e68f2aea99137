package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/metrics"
)

// RunnerConfig contains configuration for the task runner.
type RunnerConfig struct {
	// Logger for structured logging
	Logger *slog.Logger

	// Metrics records task outcomes. Optional.
	Metrics *metrics.Metrics
}

// Runner executes resolved tasks in order.
type Runner struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewRunner creates a runner over registry.
func NewRunner(registry *Registry, cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		registry: registry,
		logger:   logger,
		metrics:  cfg.Metrics,
	}
}

// Run executes the tasks selected by tags one at a time. The first failure
// stops the run.
func (r *Runner) Run(ctx context.Context, env *Env, tags ...string) error {
	tasks, err := r.registry.Resolve(tags...)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		r.logger.Warn("no tasks matched", slog.Any("tags", tags))
		return nil
	}

	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.logger.Debug("running task",
			slog.String("task", t.Name),
			slog.String("network", env.Network.Name),
		)

		start := time.Now()
		err := t.Run(ctx, env)
		elapsed := time.Since(start)
		r.metrics.RecordTask(t.Name, err, elapsed.Seconds())

		if err != nil {
			r.logger.Error("task failed",
				slog.String("task", t.Name),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("task %s: %w", t.Name, err)
		}

		r.logger.Debug("task finished",
			slog.String("task", t.Name),
			slog.Duration("elapsed", elapsed),
		)
	}
	return nil
}
