package chain

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
)

// SimulatedChainID is the chain ID of the in-process development chain.
const SimulatedChainID = 1337

// devBalance is the starting balance of every funded account (10000 ETH).
var devBalance = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(1e18))

// Simulated is an in-process chain that mines a block for every transaction,
// the way the hardhat network does.
type Simulated struct {
	simulated.Client

	backend *simulated.Backend
	mu      sync.Mutex
}

// NewSimulated starts an in-process chain with the given accounts funded.
func NewSimulated(fund []common.Address) *Simulated {
	alloc := make(types.GenesisAlloc, len(fund))
	for _, addr := range fund {
		alloc[addr] = types.Account{Balance: new(big.Int).Set(devBalance)}
	}

	backend := simulated.NewBackend(alloc)
	return &Simulated{
		Client:  backend.Client(),
		backend: backend,
	}
}

// SendTransaction submits tx and mines it immediately.
func (s *Simulated) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	s.backend.Commit()
	return nil
}

// Mine seals an empty block.
func (s *Simulated) Mine() common.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Commit()
}

// Close stops the in-process chain.
func (s *Simulated) Close() {
	_ = s.backend.Close()
}

var _ Backend = (*Simulated)(nil)
