package mocks

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/deploy"
	apierrors "github.com/Dos-leg/harhhat-fund-me-fcc/internal/pkg/errors"
)

// PriceFeedAddress returns the ETH/USD price feed for env's network: the
// deployed mock on development networks, the configured feed elsewhere.
func PriceFeedAddress(ctx context.Context, env *deploy.Env, params Params) (common.Address, error) {
	if params.IsDevelopmentChain(env.Network.Name) {
		d, err := env.Deployments.Get(ctx, MockV3Aggregator)
		if err != nil {
			return common.Address{}, fmt.Errorf("get %s deployment: %w", MockV3Aggregator, err)
		}
		return common.HexToAddress(d.Address), nil
	}

	feed := env.Network.Config.EthUsdPriceFeed
	if !common.IsHexAddress(feed) {
		return common.Address{}, apierrors.ErrInvalidConfig.WithMessagef("network %s has no eth_usd_price_feed configured", env.Network.Name)
	}
	return common.HexToAddress(feed), nil
}
