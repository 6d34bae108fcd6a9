// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Seat identity and advertised devices
	Seat SeatConfig `mapstructure:"seat"`

	// Keyboard defaults applied to new seats
	Keyboard KeyboardConfig `mapstructure:"keyboard"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// SeatConfig contains the capability flags read once when the seat is published
type SeatConfig struct {
	Name        string `mapstructure:"name"`
	HasPointer  bool   `mapstructure:"has_pointer"`
	HasKeyboard bool   `mapstructure:"has_keyboard"`
	HasTouch    bool   `mapstructure:"has_touch"`
}

// KeyboardConfig contains keymap and repeat settings
type KeyboardConfig struct {
	RepeatRate  int32  `mapstructure:"repeat_rate"`  // Characters per second, 0 disables repeat
	RepeatDelay int32  `mapstructure:"repeat_delay"` // Milliseconds before repeat starts
	KeymapPath  string `mapstructure:"keymap_path"`  // Optional xkb keymap file
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Seat: SeatConfig{
			Name:        "seat0",
			HasPointer:  true,
			HasKeyboard: true,
			HasTouch:    false,
		},
		Keyboard: KeyboardConfig{
			RepeatRate:  25,
			RepeatDelay: 600,
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("wlseat")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		viper.AddConfigPath("/etc/wlseat")
		if home := os.Getenv("HOME"); home != "" {
			viper.AddConfigPath(filepath.Join(home, ".config", "wlseat"))
		}
		viper.AddConfigPath(".")
	}

	viper.SetDefault("seat.name", DefaultConfig.Seat.Name)
	viper.SetDefault("seat.has_pointer", DefaultConfig.Seat.HasPointer)
	viper.SetDefault("seat.has_keyboard", DefaultConfig.Seat.HasKeyboard)
	viper.SetDefault("seat.has_touch", DefaultConfig.Seat.HasTouch)

	viper.SetDefault("keyboard.repeat_rate", DefaultConfig.Keyboard.RepeatRate)
	viper.SetDefault("keyboard.repeat_delay", DefaultConfig.Keyboard.RepeatDelay)
	viper.SetDefault("keyboard.keymap_path", DefaultConfig.Keyboard.KeymapPath)

	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	viper.SetEnvPrefix("WLSEAT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	return nil
}

// Validate rejects settings the seat cannot honour
func (c *Config) Validate() error {
	if c.Seat.Name == "" {
		return fmt.Errorf("seat.name must not be empty")
	}
	if c.Keyboard.RepeatRate < 0 {
		return fmt.Errorf("keyboard.repeat_rate must be >= 0, got %d", c.Keyboard.RepeatRate)
	}
	if c.Keyboard.RepeatDelay < 0 {
		return fmt.Errorf("keyboard.repeat_delay must be >= 0, got %d", c.Keyboard.RepeatDelay)
	}
	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		d := DefaultConfig
		return &d
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	home, err := os.UserHomeDir()
	if err != nil || os.Getuid() == 0 {
		return "/etc/wlseat/wlseat.toml"
	}

	return filepath.Join(home, ".config", "wlseat", "wlseat.toml")
}
