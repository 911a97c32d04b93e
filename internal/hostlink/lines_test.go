package hostlink

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, lr *LineReader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := lr.Next()
		if errors.Is(err, io.EOF) {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
}

func TestLineReader(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		max       int
		want      []string
		discarded uint64
	}{
		{
			name:  "simple lines",
			input: "START\nSTOP\n",
			max:   16,
			want:  []string{"START", "STOP"},
		},
		{
			name:  "crlf terminators",
			input: "START\r\nSTOP\r\n",
			max:   16,
			want:  []string{"START", "STOP"},
		},
		{
			name:  "final line without terminator",
			input: "START\nSTOP",
			max:   16,
			want:  []string{"START", "STOP"},
		},
		{
			name:  "line at the limit is kept",
			input: "0123456789\n",
			max:   10,
			want:  []string{"0123456789"},
		},
		{
			name:      "line one over the limit is skipped",
			input:     "0123456789X\nSTOP\n",
			max:       10,
			want:      []string{"STOP"},
			discarded: 1,
		},
		{
			name:      "line far beyond the buffer size is skipped",
			input:     strings.Repeat("A", 70*1024) + "\nSTART\n" + strings.Repeat("B", 9000) + "\nSTOP\n",
			max:       MaxLineLength,
			want:      []string{"START", "STOP"},
			discarded: 2,
		},
		{
			name:      "overlong final line without terminator",
			input:     "START\n" + strings.Repeat("C", 5000),
			max:       MaxLineLength,
			want:      []string{"START"},
			discarded: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLineReader(strings.NewReader(tt.input), tt.max)
			assert.Equal(t, tt.want, readAll(t, lr))
			assert.Equal(t, tt.discarded, lr.Discarded())
		})
	}
}

func TestLineReaderOneByteReads(t *testing.T) {
	input := strings.Repeat("Z", 8000) + "\nSTOP\n"
	lr := NewLineReader(iotest.OneByteReader(strings.NewReader(input)), MaxLineLength)
	assert.Equal(t, []string{"STOP"}, readAll(t, lr))
}

func TestLineReaderReadError(t *testing.T) {
	boom := errors.New("unplugged")
	lr := NewLineReader(io.MultiReader(strings.NewReader("START\n"), iotest.ErrReader(boom)), MaxLineLength)

	line, err := lr.Next()
	require.NoError(t, err)
	assert.Equal(t, "START", line)

	_, err = lr.Next()
	assert.ErrorIs(t, err, boom)
}
