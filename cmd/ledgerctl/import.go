package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"equipment-rental/internal/authz"
	"equipment-rental/internal/services"
	"equipment-rental/pkg/utils"
	"equipment-rental/pkg/validation"
	"equipment-rental/seeders"
)

func newImportCmd(c *cli) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Create equipment from an inventory spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApplication(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			user, err := app.users.FindByEmail(ctx, actor)
			if err != nil {
				return fmt.Errorf("find acting user %s: %w", actor, err)
			}
			if !authz.Can(user.Role, authz.EquipmentCreate) {
				return fmt.Errorf("%s (%s) may not create equipment", user.Email, user.Role)
			}

			importer := services.NewEquipmentImportService(app.equipment, validation.New(), c.logger)
			result, err := importer.ImportFile(utils.WithUser(ctx, user.ID, user.Role), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ref := range result.Created {
				fmt.Fprintf(out, "created %s\n", ref)
			}
			for _, msg := range result.Errors {
				fmt.Fprintf(out, "error   %s\n", msg)
			}
			fmt.Fprintf(out, "%d created, %d skipped, %d errors\n", len(result.Created), result.Skipped, len(result.Errors))
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "as", seeders.AdminEmail, "email of the user the import is recorded under")
	return cmd
}
