// Package chain connects the harness to EVM networks.
package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/config"
)

// Backend is the subset of an Ethereum client the deployer needs.
// It satisfies bind.DeployBackend, so bind.WaitMined works on it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

// Dial connects to the named network.
// The hardhat network runs in-process and funds the given accounts; every
// other network is reached over JSON-RPC at its configured URL.
// The chain ID reported by the node must match the configured one.
func Dial(ctx context.Context, network string, nc config.NetworkConfig, fund []common.Address) (Backend, error) {
	var (
		backend Backend
		err     error
	)

	switch {
	case network == config.HardhatNetwork:
		backend = NewSimulated(fund)
	case nc.URL == "":
		return nil, fmt.Errorf("network %s has no url configured", network)
	default:
		backend, err = dialRPC(ctx, nc.URL)
		if err != nil {
			return nil, fmt.Errorf("connect to %s: %w", network, err)
		}
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("get chain ID: %w", err)
	}
	if chainID.Int64() != nc.ChainID {
		backend.Close()
		return nil, fmt.Errorf("chain ID mismatch on %s: expected %d, got %d", network, nc.ChainID, chainID.Int64())
	}

	return backend, nil
}

func dialRPC(ctx context.Context, url string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return client, nil
}

var _ Backend = (*ethclient.Client)(nil)
