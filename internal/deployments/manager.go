// Package deployments deploys contracts and keeps a record of each deployment.
package deployments

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/artifacts"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/chain"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/deploy"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/gasreport"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/metrics"
	apierrors "github.com/Dos-leg/harhhat-fund-me-fcc/internal/pkg/errors"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/repository"
)

// fallbackGasLimit is used when gas estimation fails.
const fallbackGasLimit = 10_000_000

// Signer signs transactions on behalf of an account.
type Signer interface {
	SignTransaction(ctx context.Context, from common.Address, tx *types.Transaction) (*types.Transaction, error)
}

// ArtifactSource loads compiled contracts by name.
type ArtifactSource interface {
	Load(name string) (*artifacts.ContractArtifact, error)
}

// Locker serialises deployments of the same contract.
type Locker interface {
	Lock(ctx context.Context, name string) (unlock func(), err error)
}

// NopLocker is a Locker that never blocks.
type NopLocker struct{}

// Lock returns immediately.
func (NopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// Config contains configuration for the deployment manager.
type Config struct {
	Network   deploy.Network
	RunID     string
	Backend   chain.Backend
	Signer    Signer
	Artifacts ArtifactSource
	Repo      repository.DeploymentRepository

	// Locker defaults to NopLocker.
	Locker Locker
	// Metrics and GasReport are optional.
	Metrics   *metrics.Metrics
	GasReport *gasreport.Reporter

	// Log prints deployment lines requested with DeployOptions.Log.
	Log deploy.LogFunc
	// Logger for structured logging
	Logger *slog.Logger

	// ConfirmationPoll is how often the block number is polled while waiting
	// for confirmations. Defaults to 4s.
	ConfirmationPoll time.Duration
}

// Manager deploys contracts on one network.
type Manager struct {
	cfg    Config
	logger *slog.Logger
}

var _ deploy.Deployments = (*Manager)(nil)

// NewManager creates a deployment manager.
func NewManager(cfg Config) *Manager {
	if cfg.Locker == nil {
		cfg.Locker = NopLocker{}
	}
	if cfg.ConfirmationPoll <= 0 {
		cfg.ConfirmationPoll = 4 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:    cfg,
		logger: logger.With(slog.String("network", cfg.Network.Name)),
	}
}

// Get returns the stored deployment named name on the manager's network.
func (m *Manager) Get(ctx context.Context, name string) (*repository.Deployment, error) {
	d, err := m.cfg.Repo.Get(ctx, m.cfg.Network.Name, name)
	if err != nil {
		return nil, fmt.Errorf("get deployment %s: %w", name, err)
	}
	if d == nil {
		return nil, apierrors.ErrNotFound.WithMessagef("no deployment named %q on %s", name, m.cfg.Network.Name)
	}
	return d, nil
}

// Deploy deploys opts.Contract under name, or reuses an earlier deployment
// made from the same bytecode and constructor arguments.
func (m *Manager) Deploy(ctx context.Context, name string, opts deploy.DeployOptions) (*repository.Deployment, error) {
	if name == "" {
		return nil, fmt.Errorf("deployment name is required")
	}
	contract := opts.Contract
	if contract == "" {
		contract = name
	}

	unlock, err := m.cfg.Locker.Lock(ctx, m.cfg.Network.Name+":"+name)
	if err != nil {
		return nil, err
	}
	defer unlock()

	artifact, err := m.cfg.Artifacts.Load(contract)
	if err != nil {
		return nil, fmt.Errorf("load artifact: %w", err)
	}
	code, encodedArgs, err := artifact.CreationCode(opts.Args...)
	if err != nil {
		return nil, err
	}
	bytecodeHash, err := artifact.BytecodeHash()
	if err != nil {
		return nil, err
	}
	argsHex := hexutil.Encode(encodedArgs)

	existing, err := m.cfg.Repo.Get(ctx, m.cfg.Network.Name, name)
	if err != nil {
		return nil, fmt.Errorf("get deployment %s: %w", name, err)
	}
	if existing != nil && existing.BytecodeHash == bytecodeHash.Hex() && existing.Args == argsHex {
		onChain, err := m.cfg.Backend.CodeAt(ctx, common.HexToAddress(existing.Address), nil)
		if err != nil {
			return nil, fmt.Errorf("get code at %s: %w", existing.Address, err)
		}
		if len(onChain) > 0 {
			if opts.Log {
				m.printf("reusing %q at %s", name, existing.Address)
			}
			m.cfg.Metrics.RecordDeployment(m.cfg.Network.Name, contract, metrics.ResultReused, 0)
			return existing, nil
		}
		m.logger.Info("recorded deployment has no code, redeploying",
			slog.String("name", name),
			slog.String("address", existing.Address),
		)
	}

	receipt, tx, err := m.send(ctx, opts.From, code)
	if err != nil {
		m.cfg.Metrics.RecordDeployment(m.cfg.Network.Name, contract, metrics.ResultFailed, 0)
		return nil, fmt.Errorf("deploy %s: %w", name, err)
	}

	d := &repository.Deployment{
		RunID:        m.cfg.RunID,
		Network:      m.cfg.Network.Name,
		ChainID:      m.cfg.Network.ChainID,
		Name:         name,
		Contract:     contract,
		Address:      receipt.ContractAddress.Hex(),
		TxHash:       tx.Hash().Hex(),
		Deployer:     opts.From.Hex(),
		ABI:          artifact.ABI,
		BytecodeHash: bytecodeHash.Hex(),
		Args:         argsHex,
		BlockNumber:  receipt.BlockNumber.Uint64(),
		GasUsed:      receipt.GasUsed,
	}
	if existing != nil {
		d.ID = existing.ID
		d.CreatedAt = existing.CreatedAt
	}
	if err := m.cfg.Repo.Upsert(ctx, d); err != nil {
		return nil, fmt.Errorf("save deployment %s: %w", name, err)
	}

	m.cfg.Metrics.RecordDeployment(m.cfg.Network.Name, contract, metrics.ResultDeployed, receipt.GasUsed)
	m.cfg.GasReport.Record(gasreport.Entry{
		Network:  m.cfg.Network.Name,
		Contract: contract,
		GasUsed:  receipt.GasUsed,
		GasPrice: effectiveGasPrice(receipt, tx),
	})

	m.logger.Info("contract deployed",
		slog.String("name", name),
		slog.String("address", d.Address),
		slog.String("tx_hash", d.TxHash),
		slog.Uint64("gas_used", d.GasUsed),
	)
	if opts.Log {
		m.printf("deploying %q (tx: %s)...: deployed at %s with %d gas", name, d.TxHash, d.Address, d.GasUsed)
	}
	return d, nil
}

// send deploys code from the given account and waits for the receipt.
func (m *Manager) send(ctx context.Context, from common.Address, code []byte) (*types.Receipt, *types.Transaction, error) {
	client := m.cfg.Backend

	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, nil, fmt.Errorf("get nonce: %w", err)
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get gas price: %w", err)
	}
	// Boost gas price by 50%
	gasPrice = new(big.Int).Mul(gasPrice, big.NewInt(150))
	gasPrice = new(big.Int).Div(gasPrice, big.NewInt(100))

	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From:     from,
		To:       nil, // Contract creation
		GasPrice: gasPrice,
		Value:    big.NewInt(0),
		Data:     code,
	})
	if err != nil {
		// Use a high default if estimation fails (common for contract deployment)
		gasLimit = fallbackGasLimit
		m.logger.Warn("gas estimation failed, using default",
			slog.Uint64("gas_limit", gasLimit),
			slog.String("error", err.Error()),
		)
	}
	// Add 20% buffer to gas limit
	gasLimit = gasLimit * 120 / 100

	tx := types.NewContractCreation(nonce, big.NewInt(0), gasLimit, gasPrice, code)

	signedTx, err := m.cfg.Signer.SignTransaction(ctx, from, tx)
	if err != nil {
		return nil, nil, fmt.Errorf("sign transaction: %w", err)
	}

	if err := client.SendTransaction(ctx, signedTx); err != nil {
		return nil, nil, fmt.Errorf("send transaction: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, client, signedTx)
	if err != nil {
		return nil, signedTx, fmt.Errorf("wait for receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, signedTx, fmt.Errorf("contract deployment reverted (tx: %s)", signedTx.Hash().Hex())
	}

	if err := m.waitConfirmations(ctx, receipt.BlockNumber.Uint64()); err != nil {
		return nil, signedTx, err
	}
	return receipt, signedTx, nil
}

// waitConfirmations blocks until the block holding the transaction has the
// configured number of confirmations. The inclusion block counts as one.
func (m *Manager) waitConfirmations(ctx context.Context, included uint64) error {
	confirmations := m.cfg.Network.Config.BlockConfirmations
	if !m.cfg.Network.Live || confirmations <= 1 {
		return nil
	}
	target := included + confirmations - 1

	m.logger.Info("waiting for confirmations",
		slog.Uint64("confirmations", confirmations),
		slog.Uint64("target_block", target),
	)

	ticker := time.NewTicker(m.cfg.ConfirmationPoll)
	defer ticker.Stop()

	for {
		head, err := m.cfg.Backend.BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("get block number: %w", err)
		}
		if head >= target {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for confirmations: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (m *Manager) printf(format string, args ...any) {
	if m.cfg.Log != nil {
		m.cfg.Log(format, args...)
	}
}

func effectiveGasPrice(receipt *types.Receipt, tx *types.Transaction) *big.Int {
	if receipt.EffectiveGasPrice != nil {
		return receipt.EffectiveGasPrice
	}
	return tx.GasPrice()
}
