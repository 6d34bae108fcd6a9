package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/wlseat/internal/config"
	"github.com/bnema/wlseat/internal/logger"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "wlseat",
		Short: "wlseat - Wayland seat input routing",
		Long: `wlseat implements the input-routing core of a Wayland seat: pointer,
keyboard and touch focus, serials, implicit grabs and drag-and-drop.
The replay command drives a seat from a YAML input script and prints
every event delivered to clients.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				config.SetConfigPath(configPath)
			}
			if err := config.Init(); err != nil {
				return err
			}
			if level := config.Get().Logging.LogLevel; level != "" {
				logger.SetLevel(level)
			}
			return nil
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default searches /etc/wlseat, ~/.config/wlseat and .)")

	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
