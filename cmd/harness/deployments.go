package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	apierrors "github.com/Dos-leg/harhhat-fund-me-fcc/internal/pkg/errors"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/pkg/ulid"
	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/repository"
)

func newDeploymentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deployments",
		Short: "Inspect recorded deployments",
	}

	var runID string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List deployments on a network",
		RunE: func(cmd *cobra.Command, args []string) error {
			if runID != "" && !ulid.IsValid(runID) {
				return apierrors.ErrInvalidConfig.WithMessagef("invalid run ID %q", runID)
			}

			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.repo.List(cmd.Context(), s.network.Name)
			if err != nil {
				return fmt.Errorf("list deployments: %w", err)
			}
			if runID != "" {
				records = filterByRun(records, runID)
			}

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), records)
			}
			if len(records) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No deployments on %s\n", s.network.Name)
				return nil
			}

			table := newTable(cmd.OutOrStdout(), "Name", "Contract", "Address", "Block", "Gas used", "Run started")
			for _, d := range records {
				started := d.DeployedAt
				if t, err := ulid.StartedAt(d.RunID); err == nil {
					started = t
				}
				table.Append([]string{
					d.Name,
					d.Contract,
					d.Address,
					strconv.FormatUint(d.BlockNumber, 10),
					strconv.FormatUint(d.GasUsed, 10),
					started.UTC().Format(time.RFC3339),
				})
			}
			table.Render()
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show one deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			d, err := s.repo.Get(cmd.Context(), s.network.Name, args[0])
			if err != nil {
				return fmt.Errorf("get deployment: %w", err)
			}
			if d == nil {
				return apierrors.ErrNotFound.WithMessagef("no deployment named %q on %s", args[0], s.network.Name)
			}
			return printJSON(cmd.OutOrStdout(), d)
		},
	}

	listCmd.Flags().StringVar(&runID, "run", "", "only show deployments made by this run ID")

	cmd.AddCommand(listCmd, getCmd)
	return cmd
}

func filterByRun(records []*repository.Deployment, runID string) []*repository.Deployment {
	out := records[:0]
	for _, d := range records {
		if d.RunID == runID {
			out = append(out, d)
		}
	}
	return out
}
