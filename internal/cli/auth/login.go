package auth

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/styles"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to Quest RPG",
	Long:  "Authenticate with your email and password. The session is stored until you log out or it expires.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		a.Session.SetLocation("/login")
		in := bufio.NewReader(cmd.InOrStdin())

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			var err error
			if email, err = prompt(cmd, in, "Email: "); err != nil {
				return err
			}
		}
		password, err := readPassword(cmd, in, "Password: ")
		if err != nil {
			return err
		}

		user, err := a.Auth.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  Level %d · %d XP\n", user.Level(), user.TotalXP)
		if !user.HasCompletedOnboarding {
			fmt.Fprintln(out, styles.Muted("  Pick your quest categories: quest auth onboard Health Mind"))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Email")
	AuthCmd.AddCommand(loginCmd)
}
