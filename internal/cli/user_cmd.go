package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/service"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	cmd.AddCommand(newUserAddCmd(app))
	cmd.AddCommand(newUserLoginCmd(app))

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var username, password, role, name, email string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			u, err := app.Users.Create(ctx, sc, service.CreateUserInput{
				Username: username,
				Password: password,
				Role:     domain.Role(strings.ToUpper(role)),
				FullName: name,
				Email:    email,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created account %s (%s)\n", u.Username, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login name")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleConsultant), "Role (ADMIN|BOARD|LEAD|CONSULTANT)")
	cmd.Flags().StringVar(&name, "name", "", "Full name (defaults to the username)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify a username and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Users.Authenticate(context.Background(), username, password)
			if err != nil {
				return err
			}

			fmt.Printf("Authenticated %s (%s)\n", u.Username, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login name")
	cmd.Flags().StringVar(&password, "password", "", "Password to check")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
