package stats

import (
	"fmt"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/styles"
	"questrpg/internal/tui/views"
)

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Show inactivity decay status",
	Long:  "Show whether you are safe from XP decay. Use --history to list decays already applied.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if history, _ := cmd.Flags().GetBool("history"); history {
			records, err := a.Service.DecayHistory(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, styles.Heading("⏳", "Decay History"))
			fmt.Fprintln(out, views.DecayHistoryTable(records))
			return nil
		}

		status, err := a.Service.DecayStatus(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, views.DecayPanel(status))
		return nil
	},
}

func init() {
	decayCmd.Flags().Bool("history", false, "List applied decays")
	StatsCmd.AddCommand(decayCmd)
}
