package hostlink

import (
	"bufio"
	"bytes"
	"io"
)

// MaxLineLength is the longest inbound line delivered, not counting the
// terminator. Longer lines are discarded up to the next newline.
const MaxLineLength = 1024

// LineReader splits a byte stream into lines. Unlike bufio.Scanner it
// survives lines of any length: an overlong line is skipped and reading
// continues with the next one.
type LineReader struct {
	r         *bufio.Reader
	max       int
	discarded uint64
}

// NewLineReader reads lines of at most max bytes from r.
func NewLineReader(r io.Reader, max int) *LineReader {
	if max <= 0 {
		max = MaxLineLength
	}
	return &LineReader{
		r:   bufio.NewReader(r),
		max: max,
	}
}

// Next returns the next line with any trailing "\r\n" or "\n" removed. A
// final line without a terminator is returned before io.EOF.
func (lr *LineReader) Next() (string, error) {
	var buf []byte
	overlong := false

	for {
		chunk, err := lr.r.ReadSlice('\n')
		if !overlong {
			buf = append(buf, chunk...)
			// +2 leaves room for "\r\n"
			if len(buf) > lr.max+2 {
				overlong = true
				buf = nil
			}
		}

		switch err {
		case nil:
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if overlong || len(buf) == 0 {
				if overlong {
					lr.discarded++
				}
				return "", io.EOF
			}
		default:
			return "", err
		}

		line := bytes.TrimRight(buf, "\r\n")
		if overlong || len(line) > lr.max {
			lr.discarded++
			buf = nil
			overlong = false
			if err == io.EOF {
				return "", io.EOF
			}
			continue
		}
		return string(line), nil
	}
}

// Discarded returns how many overlong lines have been skipped.
func (lr *LineReader) Discarded() uint64 {
	return lr.discarded
}
