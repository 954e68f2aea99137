package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/accounts"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/artifacts"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/chain"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/config"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/database"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/deploy"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/deployments"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/gasreport"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/metrics"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/repository"
)

// session holds the resources opened for one command on one network.
type session struct {
	network deploy.Network
	keyring *accounts.Keyring
	repo    repository.DeploymentRepository

	closers []func()
}

// Close releases the session's resources in reverse order.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openSession resolves the selected network, its accounts and the record store.
// It does not connect to the chain.
func (a *app) openSession(ctx context.Context) (*session, error) {
	name, nc, err := a.selectedNetwork()
	if err != nil {
		return nil, err
	}

	keyring, err := accounts.NewKeyring(big.NewInt(nc.ChainID), accounts.KeysForNetwork(name, nc))
	if err != nil {
		return nil, fmt.Errorf("load accounts for %s: %w", name, err)
	}

	s := &session{
		network: deploy.NewNetwork(name, nc),
		keyring: keyring,
	}

	repo, closeRepo, err := openRepository(ctx, a.cfg, name)
	if err != nil {
		return nil, err
	}
	s.repo = repo
	s.closers = append(s.closers, closeRepo)

	return s, nil
}

// resolver returns the named account resolver for the session's network.
func (a *app) resolver(s *session) *accounts.Resolver {
	return accounts.NewResolver(s.network.Name, a.cfg.NamedAccounts, s.keyring)
}

// readOnlyEnv builds an environment that can look up deployments but not deploy.
func (a *app) readOnlyEnv(s *session) *deploy.Env {
	return &deploy.Env{
		Network:  s.network,
		Accounts: a.resolver(s),
		Deployments: deployments.NewManager(deployments.Config{
			Network: s.network,
			Repo:    s.repo,
			Logger:  a.logger,
		}),
		Log: a.taskLog,
	}
}

// deployEnv connects to the chain and builds a full deploy environment.
func (a *app) deployEnv(ctx context.Context, s *session, runID string, m *metrics.Metrics, report *gasreport.Reporter) (*deploy.Env, error) {
	backend, err := chain.Dial(ctx, s.network.Name, s.network.Config, s.keyring.Addresses())
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, backend.Close)

	locker, err := a.openLocker(ctx, s)
	if err != nil {
		return nil, err
	}

	manager := deployments.NewManager(deployments.Config{
		Network:   s.network,
		RunID:     runID,
		Backend:   backend,
		Signer:    s.keyring,
		Artifacts: artifacts.NewLoader(a.cfg.Deployments.ArtifactsDir),
		Repo:      s.repo,
		Locker:    locker,
		Metrics:   m,
		GasReport: report,
		Log:       a.taskLog,
		Logger:    a.logger.With(slog.String("run_id", runID)),
	})

	return &deploy.Env{
		Network:     s.network,
		Accounts:    a.resolver(s),
		Deployments: manager,
		Log:         a.taskLog,
	}, nil
}

// openLocker returns the Redis deployment lock when Redis is configured.
func (a *app) openLocker(ctx context.Context, s *session) (deployments.Locker, error) {
	if !a.cfg.Redis.Enabled() {
		return deployments.NopLocker{}, nil
	}
	client, err := database.NewRedis(ctx, a.cfg.Redis)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() { client.Close() })
	a.logger.Debug("using redis deployment lock", slog.String("addr", a.cfg.Redis.Addr()))
	return database.NewRedisLocker(client, a.cfg.Deployments.LockTTL, a.logger), nil
}

// taskLog prints task output through the logger.
func (a *app) taskLog(format string, args ...any) {
	a.logger.Info(fmt.Sprintf(format, args...))
}

// openRepository opens the deployment record store for network.
// The in-process hardhat chain is rebuilt on every run, so its records are
// kept in memory and never reach the configured store.
func openRepository(ctx context.Context, cfg *config.Config, network string) (repository.DeploymentRepository, func(), error) {
	if network == config.HardhatNetwork {
		return repository.NewMemoryDeploymentRepository(), func() {}, nil
	}

	switch cfg.Deployments.Store {
	case "postgres":
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(cfg.Database); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repository.NewPostgresDeploymentRepository(db.Pool()), db.Close, nil
	default:
		return repository.NewFileDeploymentRepository(cfg.Deployments.Dir), func() {}, nil
	}
}
