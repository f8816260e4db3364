package auth

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/pkg/models"
)

func joinCategories() string {
	return strings.Join(models.GoalCategories, ", ")
}

var onboardCmd = &cobra.Command{
	Use:   "onboard <category>...",
	Short: "Choose the categories of your daily quests",
	Long:  "Choose one or more goal categories (" + joinCategories() + "). Daily runs include core quests plus quests from these categories.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.From(cmd)
		if err := a.RequireLogin(); err != nil {
			return err
		}
		user, err := a.Auth.Onboard(cmd.Context(), args)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Quest categories set: %s\n", strings.Join(user.GoalCategories, ", "))
		return nil
	},
}

func init() {
	AuthCmd.AddCommand(onboardCmd)
}
