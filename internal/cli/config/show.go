package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/config"
	"questrpg/internal/session"
	"questrpg/internal/tui/styles"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective configuration after the config file, QUEST_* environment variables and flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.ConfigFrom(cmd)
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, styles.Heading("⚙", "Quest RPG Configuration"))
		fmt.Fprintln(out, "Server:")
		fmt.Fprintf(out, "  Base URL: %s\n", cfg.APIBaseURL())
		fmt.Fprintf(out, "  Timeout: %s\n", cfg.Server.Timeout)
		fmt.Fprintf(out, "  Rate limit: %.1f req/s (burst %d)\n", cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
		fmt.Fprintln(out, "Sync:")
		fmt.Fprintf(out, "  Decay poll: %s\n", cfg.Sync.DecayPollInterval)
		fmt.Fprintf(out, "  Leaderboard size: %d\n", cfg.Sync.LeaderboardLimit)
		fmt.Fprintf(out, "  History size: %d\n", cfg.Sync.HistoryLimit)
		fmt.Fprintln(out, "Session:")
		fmt.Fprintf(out, "  Backend: %s\n", cfg.Session.Backend)
		if cfg.Session.Backend == "redis" {
			fmt.Fprintf(out, "  Redis: %s (prefix %q)\n", cfg.Session.Redis.Addr, cfg.Session.Redis.Prefix)
		} else {
			fmt.Fprintf(out, "  Path: %s\n", cfg.Session.Path)
		}
		fmt.Fprintf(out, "Logging: %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)

		printSession(cmd, cfg)
		return nil
	},
}

// printSession reports the stored credential without contacting the backend.
func printSession(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	store, err := session.Open(cfg.Session)
	if err != nil {
		fmt.Fprintf(out, "User: session store unavailable (%v)\n", err)
		return
	}
	defer store.Close()

	token, ok, err := store.Get(cmd.Context(), session.TokenKey)
	if err != nil || !ok || token == "" {
		fmt.Fprintln(out, "User: Not logged in")
		fmt.Fprintln(out, "  Run 'quest auth login' to authenticate")
		return
	}
	fmt.Fprintln(out, "User:")
	if len(token) > 20 {
		token = token[:20] + "..."
	}
	fmt.Fprintf(out, "  Token: %s\n", token)
	fmt.Fprintln(out, "  Status: ✓ Logged in")
}

func init() {
	ConfigCmd.AddCommand(showCmd)
}
