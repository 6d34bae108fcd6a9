package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/wlseat/internal/config"
	"github.com/bnema/wlseat/internal/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage wlseat configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		logger.Info("Current Configuration:")
		logger.Infof("Config file: %s", config.GetConfigPath())

		logger.Info("[Seat]")
		logger.Infof("  Name: %s", cfg.Seat.Name)
		logger.Infof("  Pointer: %v", cfg.Seat.HasPointer)
		logger.Infof("  Keyboard: %v", cfg.Seat.HasKeyboard)
		logger.Infof("  Touch: %v", cfg.Seat.HasTouch)

		logger.Info("[Keyboard]")
		logger.Infof("  Repeat Rate: %d/s", cfg.Keyboard.RepeatRate)
		logger.Infof("  Repeat Delay: %d ms", cfg.Keyboard.RepeatDelay)
		if cfg.Keyboard.KeymapPath != "" {
			logger.Infof("  Keymap: %s", cfg.Keyboard.KeymapPath)
		}

		logger.Info("[Logging]")
		level := cfg.Logging.LogLevel
		if level == "" {
			level = "(LOG_LEVEL)"
		}
		logger.Infof("  Level: %s", level)
		return nil
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save current configuration to file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(); err != nil {
			return err
		}
		logger.Infof("Configuration saved to: %s", config.GetConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
}
