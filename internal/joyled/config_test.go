package joyled

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/larsks/joyled/internal/analog"
	"github.com/larsks/joyled/internal/hostlink"
	"github.com/larsks/joyled/internal/indicator"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	cfg := NewConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cfg, cfg.LoadConfigWithFlagSet(fs)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "joyled.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(t)
	require.NoError(t, err)

	assert.False(t, cfg.ActiveLow)
	assert.Equal(t, 50*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 0, cfg.ListenPort)
	assert.Equal(t, hostlink.DriverSerial, cfg.Host.Driver)
	assert.Equal(t, "/dev/ttyACM0", cfg.Host.Port)
	assert.Equal(t, uint(9600), cfg.Host.Baud)
	assert.Equal(t, indicator.DriverGPIOCDev, cfg.Outputs.Driver)
	assert.Equal(t, []string{"GPIO10", "GPIO9", "GPIO11", "GPIO6"}, cfg.Outputs.PinNames())
	assert.Equal(t, analog.DriverADS1115, cfg.ADC.Driver)
	assert.Equal(t, 1, cfg.ADC.YChannel)
	assert.Equal(t, "joyled", cfg.MQTT.TopicPrefix)
	assert.Equal(t, indicator.ActiveHigh, cfg.Polarity())
}

func TestConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
active_low = true
sample_interval = "100ms"

[host]
driver = "stdio"

[outputs]
driver = "dummy"
up = "GPIO17"

[adc]
driver = "fixed"
fixed_x = 0
`)

	cfg, err := loadConfig(t, "--config", path)
	require.NoError(t, err)

	assert.True(t, cfg.ActiveLow)
	assert.Equal(t, indicator.ActiveLow, cfg.Polarity())
	assert.Equal(t, 100*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, hostlink.DriverStdio, cfg.Host.Driver)
	assert.Equal(t, indicator.DriverDummy, cfg.Outputs.Driver)
	assert.Equal(t, "GPIO17", cfg.Outputs.Up)
	assert.Equal(t, "GPIO9", cfg.Outputs.Down)
	assert.Equal(t, analog.DriverFixed, cfg.ADC.Driver)
	assert.Equal(t, 0, cfg.ADC.FixedX)
	assert.Equal(t, 518, cfg.ADC.FixedY)
}

func TestConfigFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
sample_interval = "100ms"

[outputs]
driver = "dummy"
`)

	cfg, err := loadConfig(t, "--config", path, "--sample-interval", "20ms", "--outputs.up", "GPIO4", "--adc.x-channel", "2")
	require.NoError(t, err)

	assert.Equal(t, 20*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, "GPIO4", cfg.Outputs.Up)
	assert.Equal(t, indicator.DriverDummy, cfg.Outputs.Driver)
	assert.Equal(t, 2, cfg.ADC.XChannel)
}

func TestConfigMissingExplicitFile(t *testing.T) {
	_, err := loadConfig(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `blink_rate = 3`)
	_, err := loadConfig(t, "--config", path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero sample interval", func(c *Config) { c.SampleInterval = 0 }},
		{"negative poll interval", func(c *Config) { c.PollInterval = -time.Millisecond }},
		{"bad listen port", func(c *Config) { c.ListenPort = 70000 }},
		{"bad host driver", func(c *Config) { c.Host.Driver = "carrier-pigeon" }},
		{"bad output driver", func(c *Config) { c.Outputs.Driver = "relay" }},
		{"bad adc driver", func(c *Config) { c.ADC.Driver = "mcp3008" }},
		{"bad mqtt url", func(c *Config) { c.MQTT.ServerURL = "http://localhost" }},
	}

	assert.NoError(t, NewConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
