package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePinNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{name: "direct number", input: "18", expected: 18},
		{name: "GPIO prefix uppercase", input: "GPIO18", expected: 18},
		{name: "GPIO prefix lowercase", input: "gpio6", expected: 6},
		{name: "zero pin number", input: "GPIO0", expected: 0},
		{name: "letters only", input: "invalid", wantErr: true},
		{name: "GPIO without number", input: "GPIO", wantErr: true},
		{name: "negative", input: "-3", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePinNumber(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPinName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	good := Config{Driver: DriverGPIOCDev, Chip: "gpiochip0", Up: "GPIO10", Down: "GPIO9", Left: "GPIO11", Right: "GPIO6"}
	assert.NoError(t, good.Validate())
	assert.Equal(t, []string{"GPIO10", "GPIO9", "GPIO11", "GPIO6"}, good.PinNames())

	missing := good
	missing.Left = ""
	assert.ErrorIs(t, missing.Validate(), ErrInvalidPinName)

	bad := good
	bad.Right = "PIN6"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidPinName)

	periph := good
	periph.Driver = DriverPeriph
	periph.Right = "P1_31"
	assert.NoError(t, periph.Validate())

	assert.NoError(t, Config{Driver: DriverDummy}.Validate())
	assert.ErrorIs(t, Config{Driver: "relay"}.Validate(), ErrUnknownDriver)
}

func TestOpenBankDummy(t *testing.T) {
	bank, err := OpenBank(Config{Driver: DriverDummy}, ActiveLow)
	require.NoError(t, err)
	require.Len(t, bank.Pins(), NumChannels)
	for _, p := range bank.Pins() {
		l, err := p.Read()
		require.NoError(t, err)
		assert.Equal(t, High, l)
	}

	_, err = OpenBank(Config{Driver: "relay"}, ActiveLow)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
