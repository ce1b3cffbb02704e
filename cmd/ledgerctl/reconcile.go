package main

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"equipment-rental/internal/ledger"
)

func newReconcileCmd(c *cli) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare every availability counter with its status log",
		Long: "Replays the status log of each equipment item and reports counters that disagree.\n" +
			"With --fix the counter is reset to the replayed value, clamped to [0, total].",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApplication(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			var drifts []ledger.Drift
			if fix {
				drifts, err = app.reconcile.Fix(ctx)
			} else {
				drifts, err = app.reconcile.Audit(ctx)
			}
			if err != nil {
				return err
			}

			enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(drifts)
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "reset drifting counters to the replayed log")
	return cmd
}
