// Package input turns terminal lines into prompt intents.
package input

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// LineReader reads newline-terminated input from a terminal
type LineReader struct {
	device Device
	reader *bufio.Reader
}

// NewLineReader wraps r, usually os.Stdin
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		device: DeviceTerminal,
		reader: bufio.NewReader(r),
	}
}

// ReadLine reads one line without its line ending. A final line without a
// newline is returned along with io.EOF.
func (l *LineReader) ReadLine() (string, error) {
	line, err := l.reader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return line, io.EOF
		}
		return line, errors.Wrap(err, "cannot read terminal input")
	}
	return line, nil
}

// ReadIntent reads one line and maps it to an Intent. On end of input it
// returns a quit intent so sessions always terminate.
func (l *LineReader) ReadIntent() (Intent, error) {
	line, err := l.ReadLine()
	if err != nil && line == "" {
		return Intent{Action: ActionQuit}, err
	}
	raw := RawInput{Device: l.device, Code: line}
	return MapToIntent(NewDebouncedInput(raw)), nil
}
