package stats

import (
	"fmt"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/styles"
	"questrpg/internal/tui/views"
)

var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Level, streaks, leaderboard and decay",
	RunE:  showProfile,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your level and XP",
	RunE:  showProfile,
}

func showProfile(cmd *cobra.Command, args []string) error {
	a := app.From(cmd)
	if err := a.RequireLogin(); err != nil {
		return err
	}
	ctx := cmd.Context()
	profile, err := a.Service.Profile(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, views.ProfileDetail(profile))
	if decay, err := a.Service.DecayStatus(ctx); err == nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, views.DecayPanel(decay))
	}
	return nil
}

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Show your quest streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		streaks, err := a.Service.Streaks(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.Heading("🔥", "Streaks"))
		fmt.Fprintln(cmd.OutOrStdout(), views.StreakTable(streaks))
		return nil
	},
}

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"top"},
	Short:   "Show the top heroes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		entries, err := a.Service.Leaderboard(cmd.Context())
		if err != nil {
			return err
		}
		me := ""
		if u, err := a.User(cmd.Context()); err == nil {
			me = u.Username
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.Heading("🏆", "Leaderboard"))
		fmt.Fprintln(cmd.OutOrStdout(), views.LeaderboardTable(entries, me))
		return nil
	},
}

func init() {
	StatsCmd.AddCommand(profileCmd, streaksCmd, leaderboardCmd)
}
