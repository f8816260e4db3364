package auth

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/styles"
	"questrpg/pkg/models"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long:  "Create a new Quest RPG account with username, email, and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		a.Session.SetLocation("/register")
		in := bufio.NewReader(cmd.InOrStdin())

		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")

		var err error
		if username == "" {
			if username, err = prompt(cmd, in, "Username: "); err != nil {
				return err
			}
		}
		if email == "" {
			if email, err = prompt(cmd, in, "Email: "); err != nil {
				return err
			}
		}

		password, err := readPassword(cmd, in, "Password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword(cmd, in, "Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return models.NewValidationError("password", "passwords do not match")
		}

		user, err := a.Auth.Register(cmd.Context(), models.RegisterRequest{
			Username: username,
			Email:    email,
			Password: password,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Account created for %s\n", user.Username)
		fmt.Fprintln(cmd.OutOrStdout(), styles.Muted("  Next: quest auth onboard <categories> ("+joinCategories()+")"))
		return nil
	},
}

func init() {
	registerCmd.Flags().String("username", "", "Username")
	registerCmd.Flags().String("email", "", "Email")
	AuthCmd.AddCommand(registerCmd)
}
