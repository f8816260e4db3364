package run

import (
	"fmt"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/views"
)

var toggleCmd = &cobra.Command{
	Use:     "toggle <quest>",
	Aliases: []string{"do"},
	Short:   "Toggle a quest of today's run",
	Long:    "Mark a quest complete or incomplete. <quest> is its number in 'quest run today' or its id.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		ctx := cmd.Context()

		// the profile is loaded first so a level-up can be detected
		if _, err := a.Service.Profile(ctx); err != nil {
			return err
		}
		run, err := a.Service.TodayRun(ctx)
		if err != nil {
			return err
		}
		id, err := resolveCompletion(run, args[0])
		if err != nil {
			return err
		}
		if _, err := a.Service.ToggleQuest(ctx, id); err != nil {
			return err
		}

		a.Store.Wait()
		if profile, err := a.Service.Profile(ctx); err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), views.ProfileHeader(profile))
		}
		return nil
	},
}

func init() {
	RunCmd.AddCommand(toggleCmd)
}
