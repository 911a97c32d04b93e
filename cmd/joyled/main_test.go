package main

import (
	"bytes"
	"testing"

	"github.com/adrg/xdg"
	"github.com/larsks/joyled/internal/cli"
	"github.com/larsks/joyled/internal/joyled"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantCommand string
	}{
		{
			name:        "version flag",
			args:        []string{"--version"},
			wantCommand: cli.CommandVersion,
		},
		{
			name:        "defaults",
			args:        []string{},
			wantCommand: cli.CommandStart,
		},
		{
			name:        "active low with dummy outputs",
			args:        []string{"--active-low", "--outputs.driver", "dummy"},
			wantCommand: cli.CommandStart,
		},
		{
			name:    "missing config file",
			args:    []string{"--config", "/nonexistent/joyled.toml"},
			wantErr: true,
		},
		{
			name:    "invalid flag",
			args:    []string{"--invalid-flag"},
			wantErr: true,
		},
		{
			name:    "invalid adc driver",
			args:    []string{"--adc.driver", "mcp3008"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			xdg.Reload()

			var stdout, stderr bytes.Buffer
			c := cli.NewBaseCLI(&stdout, &stderr)
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			fs.SetOutput(&stderr)

			cmdArgs, err := c.ParseArgsStandardWithFlagSet(tt.args, func() cli.Configurable {
				return joyled.NewConfig()
			}, fs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCommand, cmdArgs.Command)
		})
	}
}
