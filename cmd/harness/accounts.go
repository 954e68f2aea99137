package main

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

type accountView struct {
	Name    string `json:"name"`
	Index   int    `json:"index"`
	Address string `json:"address"`
}

func newAccountsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "Show named accounts on a network",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			resolved, err := a.resolver(s).NamedAccounts(cmd.Context())
			if err != nil {
				return err
			}

			views := make([]accountView, 0, len(resolved))
			for name, addr := range resolved {
				views = append(views, accountView{
					Name:    name,
					Index:   a.cfg.NamedAccounts[name].IndexFor(s.network.Name),
					Address: addr.Hex(),
				})
			}
			sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), views)
			}

			table := newTable(cmd.OutOrStdout(), "Name", "Index", "Address")
			for _, v := range views {
				table.Append([]string{v.Name, strconv.Itoa(v.Index), v.Address})
			}
			table.Render()
			return nil
		},
	}
}
