package auth

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/styles"
	"questrpg/pkg/utils"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"whoami"},
	Short:   "Show the signed-in user",
	Long:    "Check the stored session against the backend and show who you are signed in as",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		out := cmd.OutOrStdout()
		if err := a.RequireLogin(); err != nil {
			fmt.Fprintln(out, "✗ Not logged in")
			fmt.Fprintln(out, "  Run 'quest auth login' to authenticate")
			return nil
		}

		user, err := a.Auth.Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, styles.KeyValue("User", user.Username))
		fmt.Fprintln(out, styles.KeyValue("Email", user.Email))
		fmt.Fprintln(out, styles.KeyValue("Level", fmt.Sprintf("%d (%d XP)", user.Level(), user.TotalXP)))
		if !user.CreatedAt.IsZero() {
			fmt.Fprintln(out, styles.KeyValue("Joined", utils.TimeAgo(user.CreatedAt.Time)))
		}
		if len(user.GoalCategories) > 0 {
			fmt.Fprintln(out, styles.KeyValue("Categories", strings.Join(user.GoalCategories, ", ")))
		}
		fmt.Fprintln(out, "  Status: ✓ Logged in")
		return nil
	},
}

func init() {
	AuthCmd.AddCommand(statusCmd)
}
