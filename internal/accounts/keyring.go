// Package accounts resolves named accounts and signs deployment transactions.
package accounts

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// DevPrivateKeys contains the 10 deterministic development keys.
// These are derived from the default mnemonic shared by Hardhat and Anvil:
// "test test test test test test test test test test test junk"
//
// ⚠️  SECURITY WARNING - DO NOT USE IN PRODUCTION ⚠️
// These keys are PUBLICLY KNOWN. Any funds sent to these addresses on real
// networks WILL BE STOLEN. Use ONLY for local development networks.
//
// NewKeyring refuses to load them for production chain IDs.
var DevPrivateKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", // dev-0: 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d", // dev-1: 0x70997970C51812dc3A010C7d01b50e0d17dc79C8
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a", // dev-2: 0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC
	"7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6", // dev-3: 0x90F79bf6EB2c4f870365E785982E1f101E93b906
	"47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a", // dev-4: 0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65
	"8b3a350cf5c34c9194ca85829a2df0ec3153be0318b5e2d3348e872092edffba", // dev-5: 0x9965507D1a55bcC2695C58ba16FB37d819B0A4dc
	"92db14e403b83dfe3df233f83dfa3a0d7096f21ca9b0d6d6b8d88b2b4ec1564e", // dev-6: 0x976EA74026E726554dB657fA54763abd0C3a0aa9
	"4bbbf85ce3377467afe5d46f804f221813b2bb87f24d81f60f1fcdbf7cbf4356", // dev-7: 0x14dC79964da2C08b23698B3D3cc7Ca32193d9955
	"dbda1821b80551c9d65939329250298aa3472ba22feea921c0cf5d620ea67b97", // dev-8: 0x23618e81E3f5cdF7f54C3d65f7FBc0aBf5B21E8f
	"2a871d0798f97d79848a013d4936a73bf4cc922c825d33c1cf7073dff6d409c6", // dev-9: 0xa0Ee7A142d267C1f36714E4a8F75612F20a79720
}

// productionChainIDs are chains the development keys must never sign for.
var productionChainIDs = map[int64]string{
	1:     "Ethereum Mainnet",
	10:    "Optimism",
	42161: "Arbitrum One",
	137:   "Polygon",
	8453:  "Base",
}

// Keyring signs transactions for an ordered list of private keys.
// Account index i refers to the i-th configured key.
//
// Safe for concurrent use after construction.
type Keyring struct {
	keys    map[common.Address]*ecdsa.PrivateKey
	order   []common.Address
	chainID *big.Int
}

// NewKeyring parses hex-encoded private keys (with or without 0x prefix).
//
// Returns error if any development key is loaded for a production chain.
func NewKeyring(chainID *big.Int, hexKeys []string) (*Keyring, error) {
	chainName, isProduction := productionChainIDs[chainID.Int64()]

	keys := make(map[common.Address]*ecdsa.PrivateKey, len(hexKeys))
	order := make([]common.Address, 0, len(hexKeys))

	for i, hexKey := range hexKeys {
		hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
		if isProduction && isDevKey(hexKey) {
			return nil, fmt.Errorf("development key cannot be used on %s (chain_id=%s): keys are publicly known", chainName, chainID)
		}

		privateKey, err := crypto.HexToECDSA(hexKey)
		if err != nil {
			return nil, fmt.Errorf("parse private key %d: %w", i, err)
		}
		address := crypto.PubkeyToAddress(privateKey.PublicKey)
		if _, dup := keys[address]; !dup {
			order = append(order, address)
		}
		keys[address] = privateKey
	}

	return &Keyring{keys: keys, order: order, chainID: new(big.Int).Set(chainID)}, nil
}

// NewDevKeyring creates a keyring pre-loaded with all development keys.
func NewDevKeyring(chainID *big.Int) (*Keyring, error) {
	return NewKeyring(chainID, DevPrivateKeys)
}

func isDevKey(hexKey string) bool {
	for _, k := range DevPrivateKeys {
		if strings.EqualFold(k, hexKey) {
			return true
		}
	}
	return false
}

// ChainID returns the chain ID used for transaction signing.
func (k *Keyring) ChainID() *big.Int {
	return new(big.Int).Set(k.chainID)
}

// Len returns the number of accounts.
func (k *Keyring) Len() int {
	return len(k.order)
}

// Address returns the account at index i.
func (k *Keyring) Address(i int) (common.Address, error) {
	if i < 0 || i >= len(k.order) {
		return common.Address{}, fmt.Errorf("account index %d out of range (%d accounts)", i, len(k.order))
	}
	return k.order[i], nil
}

// Addresses returns all addresses in configuration order.
func (k *Keyring) Addresses() []common.Address {
	addrs := make([]common.Address, len(k.order))
	copy(addrs, k.order)
	return addrs
}

// HasKey returns true if the keyring has a private key for the given address.
func (k *Keyring) HasKey(addr common.Address) bool {
	_, ok := k.keys[addr]
	return ok
}

// SignTransaction signs tx with the key belonging to from.
func (k *Keyring) SignTransaction(ctx context.Context, from common.Address, tx *types.Transaction) (*types.Transaction, error) {
	privateKey, ok := k.keys[from]
	if !ok {
		return nil, fmt.Errorf("no private key for address %s", from.Hex())
	}

	signer := types.LatestSignerForChainID(k.chainID)
	signedTx, err := types.SignTx(tx, signer, privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return signedTx, nil
}
