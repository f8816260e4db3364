package run

import (
	"fmt"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/views"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past daily runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		runs, err := a.Service.RunHistory(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), views.RunHistoryTable(runs))
		return nil
	},
}

func init() {
	RunCmd.AddCommand(historyCmd)
}
