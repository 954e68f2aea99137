package accounts

import (
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/config"
	apierrors "github.com/Dos-leg/harhhat-fund-me-fcc/internal/pkg/errors"
)

// KeysForNetwork returns the private keys a network signs with: the
// configured ones, or the development keys for local node networks.
func KeysForNetwork(network string, nc config.NetworkConfig) []string {
	if len(nc.Accounts) > 0 {
		return nc.Accounts
	}
	if config.IsLocalNetwork(network) {
		return DevPrivateKeys
	}
	return nil
}

// Resolver maps named accounts (e.g. "deployer") to addresses on one network.
type Resolver struct {
	network string
	named   map[string]config.NamedAccountConfig
	keyring *Keyring
}

// NewResolver creates a resolver for network.
func NewResolver(network string, named map[string]config.NamedAccountConfig, keyring *Keyring) *Resolver {
	return &Resolver{network: network, named: named, keyring: keyring}
}

// NamedAccount returns the address configured for name on the resolver's network.
func (r *Resolver) NamedAccount(ctx context.Context, name string) (common.Address, error) {
	nac, ok := r.named[name]
	if !ok {
		return common.Address{}, apierrors.ErrNoAccounts.WithMessagef("named account %q is not configured", name)
	}
	if r.keyring == nil || r.keyring.Len() == 0 {
		return common.Address{}, apierrors.ErrNoAccounts.WithMessagef("no accounts configured for network %s", r.network)
	}

	addr, err := r.keyring.Address(nac.IndexFor(r.network))
	if err != nil {
		return common.Address{}, apierrors.ErrNoAccounts.WithMessagef("named account %q on %s", name, r.network).Wrap(err)
	}
	return addr, nil
}

// NamedAccounts resolves every configured named account, keyed by name.
func (r *Resolver) NamedAccounts(ctx context.Context) (map[string]common.Address, error) {
	names := make([]string, 0, len(r.named))
	for name := range r.named {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]common.Address, len(names))
	for _, name := range names {
		addr, err := r.NamedAccount(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = addr
	}
	return out, nil
}
