package config

import (
	"github.com/spf13/cobra"

	"questrpg/internal/cli/app"
)

var ConfigCmd = &cobra.Command{
	Use:         "config",
	Short:       "Configuration commands",
	Long:        "View and manage CLI configuration",
	Annotations: map[string]string{app.SkipAnnotation: "true"},
}
