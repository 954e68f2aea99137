// Package deploy defines deploy tasks and the environment they run in.
package deploy

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/config"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/repository"
)

// Network identifies the network a run targets. Immutable for the run.
type Network struct {
	Name    string
	ChainID int64
	// Live is false for local node networks.
	Live   bool
	Config config.NetworkConfig
}

// NewNetwork describes the named network.
func NewNetwork(name string, nc config.NetworkConfig) Network {
	return Network{
		Name:    name,
		ChainID: nc.ChainID,
		Live:    !config.IsLocalNetwork(name),
		Config:  nc,
	}
}

// AccountResolver maps named accounts to addresses.
type AccountResolver interface {
	NamedAccount(ctx context.Context, name string) (common.Address, error)
}

// DeployOptions describes a single contract deployment.
type DeployOptions struct {
	Contract string
	From     common.Address
	Args     []any
	Log      bool
}

// Deployments deploys contracts and looks up earlier deployments.
type Deployments interface {
	Deploy(ctx context.Context, name string, opts DeployOptions) (*repository.Deployment, error)
	Get(ctx context.Context, name string) (*repository.Deployment, error)
}

// LogFunc prints one line of task output.
type LogFunc func(format string, args ...any)

// Env is what a task sees of the run.
type Env struct {
	Network     Network
	Accounts    AccountResolver
	Deployments Deployments
	Log         LogFunc
}

// Logf calls Log when set.
func (e *Env) Logf(format string, args ...any) {
	if e.Log != nil {
		e.Log(format, args...)
	}
}
