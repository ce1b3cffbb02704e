package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"equipment-rental/pkg/config"
	applogger "equipment-rental/pkg/logger"
)

// cli carries what PersistentPreRunE loads for every subcommand.
type cli struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Equipment availability ledger: API server and maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = applogger.NewLogger(c.cfg.Log.Level, c.cfg.Log.File)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}

	root.AddCommand(
		newServeCmd(c),
		newMigrateCmd(c),
		newSeedCmd(c),
		newReconcileCmd(c),
		newImportCmd(c),
	)
	return root
}
