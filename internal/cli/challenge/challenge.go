package challenge

import (
	"fmt"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/tui/styles"
	"questrpg/internal/tui/views"
)

var ChallengeCmd = &cobra.Command{
	Use:     "challenge",
	Aliases: []string{"boss"},
	Short:   "The weekly boss battle",
	Long:    "Lock enough perfect weekday runs to unlock the weekly boss, then defeat it for bonus XP",
	RunE:    showChallenge,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show this week's challenge",
	RunE:  showChallenge,
}

func showChallenge(cmd *cobra.Command, args []string) error {
	a := app.From(cmd)
	if err := a.RequireLogin(); err != nil {
		return err
	}
	v, err := a.Service.WeeklyChallenge(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), views.ChallengePanel(v))
	return nil
}

var completeCmd = &cobra.Command{
	Use:     "complete",
	Aliases: []string{"defeat"},
	Short:   "Defeat the unlocked weekly boss",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		ctx := cmd.Context()

		// level-up detection and the local unlock check need both views
		if _, err := a.Service.Profile(ctx); err != nil {
			return err
		}
		if _, err := a.Service.WeeklyChallenge(ctx); err != nil {
			return err
		}
		if _, err := a.Service.CompleteWeeklyChallenge(ctx); err != nil {
			return err
		}
		a.Store.Wait()
		if profile, err := a.Service.Profile(ctx); err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), views.ProfileHeader(profile))
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List defeated bosses",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		entries, err := a.Service.ChallengeHistory(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.Heading("🐉", "Defeated Bosses"))
		fmt.Fprintln(cmd.OutOrStdout(), views.ChallengeHistoryTable(entries))
		return nil
	},
}

func init() {
	ChallengeCmd.AddCommand(showCmd, completeCmd, historyCmd)
}
