package goals

import (
	"fmt"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/views"
	"questrpg/pkg/models"
)

var updateCmd = &cobra.Command{
	Use:   "update <goal>",
	Short: "Update a goal",
	Long:  "Change the title, description, category or target date of a goal. Only flags you pass are sent.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		g, err := resolveGoal(cmd, a, args[0])
		if err != nil {
			return err
		}

		var req models.GoalUpdate
		flags := cmd.Flags()
		for name, dst := range map[string]**string{
			"title":       &req.Title,
			"description": &req.Description,
			"category":    &req.Category,
			"target":      &req.TargetDate,
		} {
			if flags.Changed(name) {
				v, _ := flags.GetString(name)
				*dst = &v
			}
		}
		if req == (models.GoalUpdate{}) {
			return models.NewValidationError("goal", "nothing to update")
		}

		updated, err := a.Service.UpdateGoal(cmd.Context(), g.ID, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), views.GoalDetail(updated, -1))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <goal>",
	Short: "Delete a goal and its milestones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		g, err := resolveGoal(cmd, a, args[0])
		if err != nil {
			return err
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return models.NewValidationError("yes", fmt.Sprintf("deleting %q cannot be undone; pass --yes to confirm", g.Title))
		}
		return a.Service.DeleteGoal(cmd.Context(), g.ID)
	},
}

func init() {
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().String("category", "", "New category")
	updateCmd.Flags().String("target", "", "New target date (YYYY-MM-DD, empty clears it)")
	deleteCmd.Flags().BoolP("yes", "y", false, "Confirm deletion")
	GoalsCmd.AddCommand(updateCmd)
	GoalsCmd.AddCommand(deleteCmd)
}
