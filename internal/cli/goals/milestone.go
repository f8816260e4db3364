package goals

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/views"
)

var milestoneCmd = &cobra.Command{
	Use:     "milestone",
	Aliases: []string{"ms"},
	Short:   "Manage the milestones of a goal",
	Long:    "Milestone ids are shown by 'quest goals show <goal>'",
}

var milestoneAddCmd = &cobra.Command{
	Use:   "add <goal> <title>",
	Short: "Append a milestone to a goal",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		g, err := resolveGoal(cmd, a, args[0])
		if err != nil {
			return err
		}
		updated, err := a.Service.AddMilestone(cmd.Context(), g.ID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), views.GoalDetail(updated, -1))
		return nil
	},
}

var milestoneUpdateCmd = &cobra.Command{
	Use:   "rename <milestone-id> <title>",
	Short: "Rename a milestone",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		m, err := a.Service.UpdateMilestone(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Milestone renamed to %q\n", m.Title)
		return nil
	},
}

var milestoneDeleteCmd = &cobra.Command{
	Use:   "delete <milestone-id>",
	Short: "Delete a milestone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		return a.Service.DeleteMilestone(cmd.Context(), args[0])
	},
}

var milestoneToggleCmd = &cobra.Command{
	Use:     "toggle <milestone-id>",
	Aliases: []string{"done"},
	Short:   "Mark a milestone complete or incomplete",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		ctx := cmd.Context()
		if _, err := a.Service.Profile(ctx); err != nil {
			return err
		}
		g, err := a.Service.ToggleMilestone(ctx, args[0])
		if err != nil {
			return err
		}
		a.Store.Wait()
		fmt.Fprintln(cmd.OutOrStdout(), views.GoalDetail(g, -1))
		return nil
	},
}

func init() {
	milestoneCmd.AddCommand(milestoneAddCmd, milestoneUpdateCmd, milestoneDeleteCmd, milestoneToggleCmd)
	GoalsCmd.AddCommand(milestoneCmd)
}
