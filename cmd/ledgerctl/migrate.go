package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"equipment-rental/pkg/database/postgresql"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := postgresql.ConnectDB(ctx, c.cfg.Postgres.DSN, c.logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgresql.Migrate(ctx, pool); err != nil {
				return err
			}
			version, err := postgresql.MigrationVersion(ctx, pool)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	}
}
