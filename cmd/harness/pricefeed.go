package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/mocks"
)

func newPriceFeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "price-feed",
		Short: "Print the ETH/USD price feed address for a network",
		Long: `Print the ETH/USD price feed a consumer contract should use.

On development networks this is the deployed MockV3Aggregator; run
"harness deploy --tags mocks" first. Elsewhere it is the network's
configured eth_usd_price_feed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := mocks.ParamsFromConfig(a.cfg.Mocks)
			if err != nil {
				return err
			}

			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			addr, err := mocks.PriceFeedAddress(cmd.Context(), a.readOnlyEnv(s), params)
			if err != nil {
				return err
			}

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"network": s.network.Name,
					"address": addr.Hex(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr.Hex())
			return nil
		},
	}
}
