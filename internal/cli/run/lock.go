package run

import (
	"fmt"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/views"
)

var lockCmd = &cobra.Command{
	Use:     "lock",
	Aliases: []string{"complete"},
	Short:   "Lock today's run",
	Long:    "Lock today's run. A locked run can no longer change and counts toward the weekly challenge.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		ctx := cmd.Context()

		if _, err := a.Service.Profile(ctx); err != nil {
			return err
		}
		if _, err := a.Service.CompleteRun(ctx); err != nil {
			return err
		}

		a.Store.Wait()
		out := cmd.OutOrStdout()
		if profile, err := a.Service.Profile(ctx); err == nil {
			fmt.Fprintln(out, views.ProfileHeader(profile))
		}
		if challenge, err := a.Service.WeeklyChallenge(ctx); err == nil {
			fmt.Fprintln(out)
			fmt.Fprintln(out, views.ChallengePanel(challenge))
		}
		return nil
	},
}

func init() {
	RunCmd.AddCommand(lockCmd)
}
