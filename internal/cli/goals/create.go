package goals

import (
	"fmt"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/views"
	"questrpg/pkg/models"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a goal",
	Long: `Create an epic quest with at least one milestone.

Example:
  quest goals create --title "Run a marathon" --category Health \
    --milestone "Run 5k" --milestone "Run 21k" --target 2025-10-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		category, _ := cmd.Flags().GetString("category")
		description, _ := cmd.Flags().GetString("description")
		target, _ := cmd.Flags().GetString("target")
		milestones, _ := cmd.Flags().GetStringArray("milestone")

		g, err := a.Service.CreateGoal(cmd.Context(), models.GoalCreate{
			Title:       title,
			Description: description,
			Category:    category,
			TargetDate:  target,
			Milestones:  milestones,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), views.GoalDetail(g, -1))
		return nil
	},
}

func init() {
	createCmd.Flags().String("title", "", "Goal title")
	createCmd.Flags().String("category", "", "Category (ML, CP, Health, Mind, Finance)")
	createCmd.Flags().String("description", "", "Description")
	createCmd.Flags().String("target", "", "Target date (YYYY-MM-DD)")
	createCmd.Flags().StringArray("milestone", nil, "Milestone title (repeatable, in order)")
	createCmd.MarkFlagRequired("title")
	createCmd.MarkFlagRequired("category")
	GoalsCmd.AddCommand(createCmd)
}
