// Package cli is the quest command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"questrpg/internal/cli/app"
	"questrpg/internal/cli/auth"
	"questrpg/internal/cli/challenge"
	configcmd "questrpg/internal/cli/config"
	"questrpg/internal/cli/dashboard"
	"questrpg/internal/cli/goals"
	"questrpg/internal/cli/run"
	"questrpg/internal/cli/stats"
	"questrpg/internal/config"
	"questrpg/internal/tui/styles"
	"questrpg/pkg/models"
	"questrpg/pkg/utils"
)

const Version = "0.1.0"

var (
	cfgFile string
	current *app.App
)

var rootCmd = &cobra.Command{
	Use:   "quest",
	Short: "Quest RPG: daily quests, epic goals and weekly bosses",
	Long: `Quest RPG turns daily habits into an RPG. Complete quests to earn XP,
lock your daily run, defeat the weekly boss and keep your streaks alive
before inactivity decay eats your progress.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./quest.yaml or the user config dir)")
	flags.String("server", "", "backend base URL, e.g. http://localhost:8000/api/v1")
	flags.String("session", "", "session backend: file, sqlite, redis or memory")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Bool("no-color", false, "disable colored output")

	_ = viper.BindPFlag("server.base_url", flags.Lookup("server"))
	_ = viper.BindPFlag("session.backend", flags.Lookup("session"))
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("ui.no_color", flags.Lookup("no-color"))

	viper.SetEnvPrefix("QUEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.AddCommand(
		auth.AuthCmd,
		run.RunCmd,
		goals.GoalsCmd,
		stats.StatsCmd,
		challenge.ChallengeCmd,
		configcmd.ConfigCmd,
		dashboard.DashboardCmd,
	)
}

// loadConfig reads the config file and applies flag and QUEST_* overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if viper.IsSet("server.base_url") && viper.GetString("server.base_url") != "" {
		cfg.Server.BaseURL = viper.GetString("server.base_url")
	}
	if viper.IsSet("server.timeout") {
		cfg.Server.Timeout = viper.GetDuration("server.timeout")
	}
	if viper.IsSet("session.backend") && viper.GetString("session.backend") != "" {
		cfg.Session.Backend = viper.GetString("session.backend")
	}
	if viper.IsSet("session.path") && viper.GetString("session.path") != "" {
		cfg.Session.Path = viper.GetString("session.path")
	}
	if viper.IsSet("session.redis.addr") {
		cfg.Session.Redis.Addr = viper.GetString("session.redis.addr")
	}
	if viper.IsSet("logging.level") && viper.GetString("logging.level") != "" {
		cfg.Logging.Level = viper.GetString("logging.level")
	}
	if viper.IsSet("ui.no_color") {
		cfg.UI.NoColor = viper.GetBool("ui.no_color")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[app.SkipAnnotation] == "true" {
			return true
		}
	}
	return false
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := app.WithConfig(cmd.Context(), cfg)
	if skipsApp(cmd) {
		cmd.SetContext(ctx)
		return nil
	}

	a, err := app.New(ctx, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	current = a
	cmd.SetContext(app.WithApp(ctx, a))
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	shown := false
	if current != nil {
		shown = current.Notifier.ErrorShown()
		err = utils.CombineErrors(err, current.Close())
	}
	if err != nil {
		if !shown {
			msg := models.UserMessage(err, err.Error())
			fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+msg))
		}
		os.Exit(1)
	}
}
