package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	var down int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL migrations for the deployment store",
		Long: `Apply the embedded PostgreSQL migrations used by the postgres
deployment store (deployments.store: postgres).

Examples:
  harness migrate
  harness migrate --down 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if down > 0 {
				if err := database.MigrateDown(a.cfg.Database, down); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", down)
				return nil
			}

			if err := database.RunMigrations(a.cfg.Database); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database migrations completed")
			return nil
		},
	}

	cmd.Flags().IntVar(&down, "down", 0, "roll back this many migrations instead of applying")
	return cmd
}
