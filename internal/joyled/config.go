package joyled

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/larsks/joyled/internal/analog"
	"github.com/larsks/joyled/internal/config"
	"github.com/larsks/joyled/internal/controller"
	"github.com/larsks/joyled/internal/hostlink"
	"github.com/larsks/joyled/internal/indicator"
	"github.com/larsks/joyled/internal/mqtt"
	"github.com/spf13/pflag"
)

type (
	MQTTConfig struct {
		ServerURL   string `mapstructure:"server_url"`
		ClientID    string `mapstructure:"client_id"`
		TopicPrefix string `mapstructure:"topic_prefix"`
	}

	DisplayConfig struct {
		Enabled bool `mapstructure:"enabled"`
		DryRun  bool `mapstructure:"dry_run"`
	}

	// Config holds the joyled daemon configuration
	Config struct {
		ConfigFile     string           `mapstructure:"config"`
		ActiveLow      bool             `mapstructure:"active_low"`
		SampleInterval time.Duration    `mapstructure:"sample_interval"`
		PollInterval   time.Duration    `mapstructure:"poll_interval"`
		ListenAddress  string           `mapstructure:"listen_address"`
		ListenPort     int              `mapstructure:"listen_port"`
		Host           hostlink.Config  `mapstructure:"host"`
		Outputs        indicator.Config `mapstructure:"outputs"`
		ADC            analog.Config    `mapstructure:"adc"`
		MQTT           MQTTConfig       `mapstructure:"mqtt"`
		Display        DisplayConfig    `mapstructure:"display"`

		explicitConfigFile bool
	}
)

func getDefaultConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "joyled", "joyled.toml")
}

func defaults() map[string]any {
	return map[string]any{
		"active_low":            false,
		"sample_interval":       controller.DefaultSampleInterval,
		"poll_interval":         controller.DefaultPollInterval,
		"listen_address":        "",
		"listen_port":           0,
		"host.driver":           hostlink.DriverSerial,
		"host.port":             "/dev/ttyACM0",
		"host.baud":             9600,
		"outputs.driver":        indicator.DriverGPIOCDev,
		"outputs.chip":          "gpiochip0",
		"outputs.up":            "GPIO10",
		"outputs.down":          "GPIO9",
		"outputs.left":          "GPIO11",
		"outputs.right":         "GPIO6",
		"adc.driver":            analog.DriverADS1115,
		"adc.i2c_bus":           "",
		"adc.i2c_address":       0,
		"adc.x_channel":         0,
		"adc.y_channel":         1,
		"adc.reference_voltage": 5.0,
		"adc.fixed_x":           512,
		"adc.fixed_y":           518,
		"mqtt.server_url":       "",
		"mqtt.client_id":        "joyled",
		"mqtt.topic_prefix":     "joyled",
		"display.enabled":       false,
		"display.dry_run":       false,
	}
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		SampleInterval: controller.DefaultSampleInterval,
		PollInterval:   controller.DefaultPollInterval,
		Host: hostlink.Config{
			Driver: hostlink.DriverSerial,
			Port:   "/dev/ttyACM0",
			Baud:   9600,
		},
		Outputs: indicator.Config{
			Driver: indicator.DriverGPIOCDev,
			Chip:   "gpiochip0",
			Up:     "GPIO10",
			Down:   "GPIO9",
			Left:   "GPIO11",
			Right:  "GPIO6",
		},
		ADC: analog.Config{
			Driver:           analog.DriverADS1115,
			XChannel:         0,
			YChannel:         1,
			ReferenceVoltage: 5.0,
			FixedX:           512,
			FixedY:           518,
		},
		MQTT: MQTTConfig{
			ClientID:    "joyled",
			TopicPrefix: "joyled",
		},
	}
}

// AddFlags adds command-line flags for all configuration options
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", getDefaultConfigFile(), "Config file to use")
	fs.BoolVar(&c.ActiveLow, "active-low", c.ActiveLow, "Indicators are wired active-low")
	fs.DurationVar(&c.SampleInterval, "sample-interval", c.SampleInterval, "Minimum time between joystick samples")
	fs.DurationVar(&c.PollInterval, "poll-interval", c.PollInterval, "Time to yield between control loop passes")
	fs.StringVar(&c.ListenAddress, "listen-address", c.ListenAddress, "Listen address for the status API")
	fs.IntVar(&c.ListenPort, "listen-port", c.ListenPort, "Listen port for the status API (0 disables it)")

	fs.StringVar(&c.Host.Driver, "host.driver", c.Host.Driver, "Host link (serial or stdio)")
	fs.StringVar(&c.Host.Port, "host.port", c.Host.Port, "Serial port for the host link")
	fs.UintVar(&c.Host.Baud, "host.baud", c.Host.Baud, "Serial baud rate")

	fs.StringVar(&c.Outputs.Driver, "outputs.driver", c.Outputs.Driver, "Output driver (gpiocdev, periph or dummy)")
	fs.StringVar(&c.Outputs.Chip, "outputs.chip", c.Outputs.Chip, "GPIO chip for the gpiocdev driver")
	fs.StringVar(&c.Outputs.Up, "outputs.up", c.Outputs.Up, "Pin for the up indicator")
	fs.StringVar(&c.Outputs.Down, "outputs.down", c.Outputs.Down, "Pin for the down indicator")
	fs.StringVar(&c.Outputs.Left, "outputs.left", c.Outputs.Left, "Pin for the left indicator")
	fs.StringVar(&c.Outputs.Right, "outputs.right", c.Outputs.Right, "Pin for the right indicator")

	fs.StringVar(&c.ADC.Driver, "adc.driver", c.ADC.Driver, "Analog driver (ads1115 or fixed)")
	fs.StringVar(&c.ADC.I2CBus, "adc.i2c-bus", c.ADC.I2CBus, "I2C bus for the ADC (empty for the first bus)")
	fs.Uint16Var(&c.ADC.I2CAddress, "adc.i2c-address", c.ADC.I2CAddress, "I2C address of the ADC (0 for the default)")
	fs.IntVar(&c.ADC.XChannel, "adc.x-channel", c.ADC.XChannel, "ADC channel for the x axis")
	fs.IntVar(&c.ADC.YChannel, "adc.y-channel", c.ADC.YChannel, "ADC channel for the y axis")
	fs.Float64Var(&c.ADC.ReferenceVoltage, "adc.reference-voltage", c.ADC.ReferenceVoltage, "Voltage that reads as full scale")
	fs.IntVar(&c.ADC.FixedX, "adc.fixed-x", c.ADC.FixedX, "Raw x value for the fixed driver")
	fs.IntVar(&c.ADC.FixedY, "adc.fixed-y", c.ADC.FixedY, "Raw y value for the fixed driver")

	fs.StringVar(&c.MQTT.ServerURL, "mqtt.server-url", c.MQTT.ServerURL, "MQTT broker URL (mqtt://host:port); empty disables MQTT")
	fs.StringVar(&c.MQTT.ClientID, "mqtt.client-id", c.MQTT.ClientID, "MQTT client id")
	fs.StringVar(&c.MQTT.TopicPrefix, "mqtt.topic-prefix", c.MQTT.TopicPrefix, "Prefix for MQTT topics")

	fs.BoolVar(&c.Display.Enabled, "display.enabled", c.Display.Enabled, "Show status on an SSD1306 display")
	fs.BoolVar(&c.Display.DryRun, "display.dry-run", c.Display.DryRun, "Use a fake display driver")
}

// LoadConfigWithFlagSet loads configuration with proper precedence using a custom flag set
func (c *Config) LoadConfigWithFlagSet(fs *pflag.FlagSet) error {
	c.explicitConfigFile = fs.Changed("config")

	if _, err := os.Stat(c.ConfigFile); os.IsNotExist(err) {
		if c.explicitConfigFile {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, c.ConfigFile)
		}
		c.ConfigFile = ""
	}

	loader := config.NewConfigLoader()
	loader.SetConfigFile(c.ConfigFile)
	loader.SetStrictMode(true)
	loader.SetDefaults(defaults())
	if err := loader.LoadConfigWithFlagSet(c, fs); err != nil {
		return err
	}

	return c.Validate()
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.SampleInterval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, c.SampleInterval)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval %s", ErrInvalidInterval, c.PollInterval)
	}
	if c.ListenPort < 0 || c.ListenPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.ListenPort)
	}
	if err := c.Host.Validate(); err != nil {
		return err
	}
	if err := c.Outputs.Validate(); err != nil {
		return err
	}
	if err := c.ADC.Validate(); err != nil {
		return err
	}
	if c.MQTT.ServerURL != "" {
		if err := mqtt.ValidateURL(c.MQTT.ServerURL); err != nil {
			return err
		}
	}
	return nil
}

// Polarity returns the indicator polarity selected by ActiveLow.
func (c *Config) Polarity() indicator.Polarity {
	return indicator.PolarityFor(c.ActiveLow)
}
