package goals

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/styles"
	"questrpg/internal/tui/views"
	"questrpg/pkg/models"
)

var GoalsCmd = &cobra.Command{
	Use:     "goals",
	Aliases: []string{"goal"},
	Short:   "Epic quests and their milestones",
	Long:    "Create long-term goals, break them into milestones, and tick milestones off as you go",
	RunE:    listGoals,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your goals",
	RunE:  listGoals,
}

func listGoals(cmd *cobra.Command, args []string) error {
	a := app.From(cmd)
	if err := a.RequireLogin(); err != nil {
		return err
	}
	goals, err := a.Service.Goals(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.Heading("🏰", "Epic Quests"))
	if len(goals) == 0 {
		fmt.Fprintln(out, styles.Muted("No goals yet. Create one: quest goals create --title ... --category ... --milestone ..."))
		return nil
	}
	for i, g := range goals {
		fmt.Fprintln(out, views.GoalSummary(i+1, g, false))
	}
	return nil
}

var showCmd = &cobra.Command{
	Use:   "show <goal>",
	Short: "Show a goal with its milestones",
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
		fmt.Fprintln(cmd.OutOrStdout(), views.GoalDetail(g, -1))
		return nil
	},
}

// resolveGoal accepts a 1-based position in 'quest goals list' or an id.
func resolveGoal(cmd *cobra.Command, a *app.App, arg string) (*models.Goal, error) {
	goals, err := a.Service.Goals(cmd.Context())
	if err != nil {
		return nil, err
	}
	arg = strings.TrimSpace(arg)
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(goals) {
			return nil, models.NewValidationError("goal", fmt.Sprintf("goal number must be between 1 and %d", len(goals)))
		}
		g := goals[n-1]
		return &g, nil
	}
	return a.Service.Goal(cmd.Context(), arg)
}

func init() {
	GoalsCmd.AddCommand(listCmd)
	GoalsCmd.AddCommand(showCmd)
}
