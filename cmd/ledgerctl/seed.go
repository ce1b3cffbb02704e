package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"equipment-rental/internal/entities"
	"equipment-rental/pkg/service"
	"equipment-rental/pkg/utils"
	"equipment-rental/seeders"
)

func newSeedCmd(c *cli) *cobra.Command {
	var (
		withUsers  bool
		withDemo   bool
		password   string
		showTokens bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the role accounts and an optional demo inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !withUsers && !withDemo {
				return errors.New("nothing to seed: pass --users, --demo or both")
			}
			ctx := cmd.Context()
			app, err := newApplication(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			seeder := seeders.New(app.users, app.equipment, app.events, app.reservations, c.logger)
			out := cmd.OutOrStdout()

			if withUsers {
				users, err := seeder.SeedUsers(ctx, password)
				if err != nil {
					return err
				}
				jwtSvc := service.NewJWTService(c.cfg.JWT.SecretKey, c.cfg.JWT.AccessTokenTTL, c.logger)
				for _, u := range users {
					fmt.Fprintf(out, "%-12s %s\n", u.Role, u.Email)
					if !showTokens {
						continue
					}
					token, err := jwtSvc.GenerateAccessToken(u.ID, u.Role)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%-12s %s\n", "", token)
				}
			}

			if withDemo {
				admin, err := app.users.FindByEmail(ctx, seeders.AdminEmail)
				if err != nil {
					return fmt.Errorf("demo data needs the admin account, run seed --users first: %w", err)
				}
				if err := seeder.SeedDemo(utils.WithUser(ctx, admin.ID, entities.RoleAdmin)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withUsers, "users", false, "create or refresh one account per role")
	cmd.Flags().BoolVar(&withDemo, "demo", false, "create demo equipment, events and reservations")
	cmd.Flags().StringVar(&password, "password", "rental-dev", "password given to the seeded accounts")
	cmd.Flags().BoolVar(&showTokens, "tokens", false, "print a development access token per account")
	return cmd
}
