package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
	"questrpg/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the effective configuration to a file",
	Long:  "Write the effective configuration as YAML, by default to " + config.DefaultPath(),
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath()
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists; pass --force to overwrite", path)
		}
		if err := app.ConfigFrom(cmd).Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration written to %s\n", path)
		return nil
	},
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the default config file location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.DefaultPath())
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")
	ConfigCmd.AddCommand(initCmd, pathCmd)
}
