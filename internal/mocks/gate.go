package mocks

import (
	"context"
	"fmt"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/deploy"
)

const (
	// MockV3Aggregator is the deployment and contract name of the mock price feed.
	MockV3Aggregator = "MockV3Aggregator"
	// DeployerAccount is the named account mocks are deployed from.
	DeployerAccount = "deployer"
	// TaskName is the registry name of the mock deployment task.
	TaskName = "00-deploy-mocks"
)

// Tags select the mock deployment task.
var Tags = []string{"all", "mocks"}

// DeployMocks deploys MockV3Aggregator when env targets a development network
// and does nothing otherwise.
func DeployMocks(ctx context.Context, env *deploy.Env, params Params) error {
	if !params.IsDevelopmentChain(env.Network.Name) {
		return nil
	}

	env.Logf("Local network detected! Deploying mocks...")

	deployer, err := env.Accounts.NamedAccount(ctx, DeployerAccount)
	if err != nil {
		return fmt.Errorf("resolve %s account: %w", DeployerAccount, err)
	}

	_, err = env.Deployments.Deploy(ctx, MockV3Aggregator, deploy.DeployOptions{
		Contract: MockV3Aggregator,
		From:     deployer,
		Log:      true,
		Args:     []any{params.Decimals(), params.InitialAnswer()},
	})
	if err != nil {
		return fmt.Errorf("deploy %s: %w", MockV3Aggregator, err)
	}

	env.Logf("Mocks deployed!")
	return nil
}

// Task returns the registry entry for DeployMocks.
func Task(params Params) deploy.Task {
	return deploy.Task{
		Name: TaskName,
		Tags: append([]string(nil), Tags...),
		Run: func(ctx context.Context, env *deploy.Env) error {
			return DeployMocks(ctx, env, params)
		},
	}
}
