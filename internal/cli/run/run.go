package run

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/views"
	"questrpg/pkg/models"
)

var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Today's daily run",
	Long:  "Show today's quests, toggle them, and lock the run when you are done",
	RunE:  showToday,
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's quests",
	RunE:  showToday,
}

func showToday(cmd *cobra.Command, args []string) error {
	a := app.From(cmd)
	if err := a.RequireLogin(); err != nil {
		return err
	}
	run, err := a.Service.TodayRun(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), views.RunLines(run, -1, false))
	return nil
}

// resolveCompletion maps a 1-based position, a completion id or a quest id
// to the completion id.
func resolveCompletion(run *models.DailyRun, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(run.Quests) {
			return "", models.NewValidationError("quest", fmt.Sprintf("quest number must be between 1 and %d", len(run.Quests)))
		}
		return run.Quests[n-1].CompletionID, nil
	}
	for _, q := range run.Quests {
		if q.CompletionID == arg || q.QuestID == arg {
			return q.CompletionID, nil
		}
	}
	return "", models.NewValidationError("quest", "no quest "+strconv.Quote(arg)+" in today's run")
}

func init() {
	RunCmd.AddCommand(todayCmd)
}
