package mocks

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/config"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/deploy"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/repository"
)

var deployerAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

// MockDeployments is a mock implementation of deploy.Deployments for testing.
type MockDeployments struct {
	mock.Mock
}

func (m *MockDeployments) Deploy(ctx context.Context, name string, opts deploy.DeployOptions) (*repository.Deployment, error) {
	args := m.Called(ctx, name, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Deployment), args.Error(1)
}

func (m *MockDeployments) Get(ctx context.Context, name string) (*repository.Deployment, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Deployment), args.Error(1)
}

// MockAccounts is a mock implementation of deploy.AccountResolver for testing.
type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) NamedAccount(ctx context.Context, name string) (common.Address, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(common.Address), args.Error(1)
}

type testEnv struct {
	env         *deploy.Env
	deployments *MockDeployments
	accounts    *MockAccounts
	lines       []string
}

func newTestEnv(network string, nc config.NetworkConfig) *testEnv {
	te := &testEnv{
		deployments: &MockDeployments{},
		accounts:    &MockAccounts{},
	}
	te.env = &deploy.Env{
		Network:     deploy.NewNetwork(network, nc),
		Accounts:    te.accounts,
		Deployments: te.deployments,
		Log: func(format string, args ...any) {
			te.lines = append(te.lines, fmt.Sprintf(format, args...))
		},
	}
	return te
}
