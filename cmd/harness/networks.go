package main

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/config"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/mocks"
)

type networkView struct {
	Name               string `json:"name"`
	ChainID            int64  `json:"chain_id"`
	URL                string `json:"url"`
	Accounts           int    `json:"accounts"`
	BlockConfirmations uint64 `json:"block_confirmations"`
	Development        bool   `json:"development"`
	Default            bool   `json:"default"`
}

func newNetworksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List configured networks",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := mocks.ParamsFromConfig(a.cfg.Mocks)
			if err != nil {
				return err
			}

			views := make([]networkView, 0, len(a.cfg.Networks))
			for _, name := range a.cfg.NetworkNames() {
				nc := a.cfg.Networks[name]
				u := maskURL(nc.URL)
				if u == "" && name == config.HardhatNetwork {
					u = "(in-process)"
				}
				views = append(views, networkView{
					Name:               name,
					ChainID:            nc.ChainID,
					URL:                u,
					Accounts:           len(nc.Accounts),
					BlockConfirmations: nc.BlockConfirmations,
					Development:        params.IsDevelopmentChain(name),
					Default:            name == a.cfg.DefaultNetwork,
				})
			}

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), views)
			}

			table := newTable(cmd.OutOrStdout(), "Name", "Chain ID", "URL", "Accounts", "Confirmations", "Mocks", "Default")
			for _, v := range views {
				table.Append([]string{
					v.Name,
					strconv.FormatInt(v.ChainID, 10),
					v.URL,
					strconv.Itoa(v.Accounts),
					strconv.FormatUint(v.BlockConfirmations, 10),
					yesNo(v.Development),
					yesNo(v.Default),
				})
			}
			table.Render()
			return nil
		},
	}
}

// maskURL keeps scheme and host and hides paths, queries and credentials,
// which often carry provider API keys.
func maskURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "****"
	}
	masked := u.Scheme + "://" + u.Host
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.User != nil {
		masked += "/****"
	}
	return masked
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
