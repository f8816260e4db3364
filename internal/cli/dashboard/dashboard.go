// Package dashboard launches the interactive TUI.
package dashboard

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/notify"
	"questrpg/internal/tui"
)

var DashboardCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"dashboard"},
	Short:   "Open the interactive dashboard",
	Long: `Open the full-screen dashboard with today's quests, goals, stats and
the weekly boss. Without a session it starts on the login screen.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		ctx := cmd.Context()

		loggedIn := a.RequireLogin() == nil
		username := ""
		if loggedIn {
			if u, err := a.User(ctx); err == nil {
				username = u.Username
			}
		}

		model := tui.New(ctx, tui.Options{
			Service:  a.Service,
			Auth:     a.Auth,
			Session:  a.Session,
			LoggedIn: loggedIn,
			Username: username,
		})
		defer model.Close()

		// the terminal belongs to the program until it exits
		a.Notifier.Redirect(model.Notifier())
		defer a.Notifier.Redirect(notify.NewConsole(cmd.OutOrStdout(), a.Config.UI.NoColor))

		p := tea.NewProgram(
			model,
			tea.WithContext(ctx),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run dashboard: %w", err)
		}
		return nil
	},
}
