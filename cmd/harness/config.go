package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/config"
)

const secretMask = "****"

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			masked := maskConfig(a.cfg)
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), masked)
			}

			flat, err := flatten(masked)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(flat))
			for k := range flat {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			table := newTable(cmd.OutOrStdout(), "Key", "Value")
			for _, k := range keys {
				table.Append([]string{k, flat[k]})
			}
			table.Render()
			return nil
		},
	}

	cmd.AddCommand(showCmd)
	return cmd
}

// maskConfig returns a copy of cfg with credentials hidden.
func maskConfig(cfg *config.Config) config.Config {
	out := *cfg

	out.Networks = make(map[string]config.NetworkConfig, len(cfg.Networks))
	for name, nc := range cfg.Networks {
		nc.URL = maskURL(nc.URL)
		accounts := make([]string, len(nc.Accounts))
		for i := range nc.Accounts {
			accounts[i] = secretMask
		}
		nc.Accounts = accounts
		out.Networks[name] = nc
	}
	out.NamedAccounts = maps.Clone(cfg.NamedAccounts)

	out.Etherscan.APIKey = maskSecret(cfg.Etherscan.APIKey)
	out.Database.Password = maskSecret(cfg.Database.Password)
	out.Redis.Password = maskSecret(cfg.Redis.Password)
	return out
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return secretMask
}

// flatten turns v into dotted keys and string values via its JSON form.
func flatten(v any) (map[string]string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	out := make(map[string]string)
	var walk func(prefix string, node any)
	walk = func(prefix string, node any) {
		switch n := node.(type) {
		case map[string]any:
			if len(n) == 0 {
				out[prefix] = "{}"
			}
			for k, child := range n {
				walk(joinKey(prefix, k), child)
			}
		case []any:
			parts := make([]string, 0, len(n))
			scalar := true
			for _, child := range n {
				if _, nested := child.(map[string]any); nested {
					scalar = false
					break
				}
				parts = append(parts, fmt.Sprint(child))
			}
			if scalar {
				out[prefix] = "[" + strings.Join(parts, ", ") + "]"
				return
			}
			for i, child := range n {
				walk(fmt.Sprintf("%s[%d]", prefix, i), child)
			}
		case nil:
			out[prefix] = ""
		default:
			out[prefix] = fmt.Sprint(n)
		}
	}
	walk("", tree)
	return out, nil
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
