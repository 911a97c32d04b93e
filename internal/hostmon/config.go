package hostmon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/larsks/joyled/internal/config"
	"github.com/spf13/pflag"
)

// Config holds the joymon configuration
type Config struct {
	ConfigFile   string        `mapstructure:"config"`
	Port         string        `mapstructure:"port"`
	Baud         uint          `mapstructure:"baud"`
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
	ResetDelay   time.Duration `mapstructure:"reset_delay"`
	Duration     time.Duration `mapstructure:"duration"`
}

func getDefaultConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "joyled", "joymon.toml")
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Baud:         9600,
		ReadyTimeout: 3 * time.Second,
		ResetDelay:   2 * time.Second,
	}
}

// AddFlags adds command-line flags for all configuration options
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", getDefaultConfigFile(), "Config file to use")
	fs.StringVarP(&c.Port, "port", "p", c.Port, "Serial port (empty to auto-detect)")
	fs.UintVarP(&c.Baud, "baud", "b", c.Baud, "Serial baud rate")
	fs.DurationVar(&c.ReadyTimeout, "ready-timeout", c.ReadyTimeout, "How long to wait for the device to report ready")
	fs.DurationVar(&c.ResetDelay, "reset-delay", c.ResetDelay, "How long to wait after opening the port")
	fs.DurationVarP(&c.Duration, "duration", "d", c.Duration, "Stop after this long (0 runs until interrupted)")
}

// LoadConfigWithFlagSet loads configuration with proper precedence using a custom flag set
func (c *Config) LoadConfigWithFlagSet(fs *pflag.FlagSet) error {
	if _, err := os.Stat(c.ConfigFile); os.IsNotExist(err) {
		if fs.Changed("config") {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, c.ConfigFile)
		}
		c.ConfigFile = ""
	}

	loader := config.NewConfigLoader()
	loader.SetConfigFile(c.ConfigFile)
	loader.SetStrictMode(true)
	loader.SetDefaults(map[string]any{
		"port":          "",
		"baud":          9600,
		"ready_timeout": 3 * time.Second,
		"reset_delay":   2 * time.Second,
		"duration":      0,
	})

	if err := loader.LoadConfigWithFlagSet(c, fs); err != nil {
		return err
	}
	return c.Validate()
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Baud == 0 {
		return ErrInvalidBaud
	}
	if c.ReadyTimeout < 0 || c.ResetDelay < 0 || c.Duration < 0 {
		return ErrNegativeDuration
	}
	return nil
}
