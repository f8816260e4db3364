package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.Auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
		return nil
	},
}

func init() {
	AuthCmd.AddCommand(logoutCmd)
}
