package cli

import (
	"fmt"

	"src.lned.sh/pkg/cli/histutil"
	"src.lned.sh/pkg/cli/linebuf"
	"src.lned.sh/pkg/cli/term"
	"src.lned.sh/pkg/config"
	"src.lned.sh/pkg/logutil"
	"src.lned.sh/pkg/ui"
)

var logger = logutil.GetLogger("[cli] ")

// KeyReader is the source of keys.
type KeyReader interface {
	// ReadKey reads the next key. It returns term.EndOfInput when there are no
	// more keys.
	ReadKey() (ui.Key, error)
}

// Output is the terminal the line reader draws on.
type Output interface {
	Emit(b byte)
	Alert()
	WriteString(s string)
	Flush() error
}

// LineReaderSpec specifies the configuration and initial state for a
// LineReader.
type LineReaderSpec struct {
	Keys KeyReader
	Out  Output
	// Sizes and prompt. Zero sizes take their defaults, and the zero value
	// means config.Default().
	Config config.Config
	// Callbacks called with the text of each line when Enter is pressed,
	// before the buffer is reset.
	AfterReadline []func(string)
	// Initial history entries.
	History []string
}

// LineReader reads command lines, letting the user edit them and browse the
// history of earlier lines.
type LineReader struct {
	LineReaderSpec
	buf  *linebuf.Buffer
	hist *histutil.History
}

// NewLineReader creates a new LineReader from the given spec. Zero fields of
// spec.Config take their defaults; it returns an error if the resulting
// configuration is invalid.
func NewLineReader(spec LineReaderSpec) (*LineReader, error) {
	spec.Config = spec.Config.WithDefaults()
	if err := spec.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	buf := linebuf.New(spec.Config.ReadBufSize, spec.Out)
	return &LineReader{
		LineReaderSpec: spec,
		buf:            buf,
		hist:           histutil.New(buf, spec.Out, spec.History...),
	}, nil
}

// Buffer returns the line buffer.
func (lr *LineReader) Buffer() *linebuf.Buffer { return lr.buf }

// History returns the history.
func (lr *LineReader) History() *histutil.History { return lr.hist }

// ReadCmds prints the prompt and handles keys until term.EndOfInput is read.
// It only returns an error when reading keys or writing to the terminal
// fails.
func (lr *LineReader) ReadCmds() error {
	lr.resetAndPrompt()
	for {
		if err := lr.Out.Flush(); err != nil {
			return fmt.Errorf("write to terminal: %w", err)
		}
		key, err := lr.Keys.ReadKey()
		if err != nil {
			if term.IsReadErrorRecoverable(err) {
				lr.Out.Alert()
				continue
			}
			return fmt.Errorf("read key: %w", err)
		}
		if key == term.EndOfInput {
			lr.Out.Emit('\n')
			if err := lr.Out.Flush(); err != nil {
				return fmt.Errorf("write to terminal: %w", err)
			}
			return nil
		}
		lr.handleKey(key)
	}
}

func (lr *LineReader) handleKey(key ui.Key) {
	buf := lr.buf
	switch key {
	case ui.K('A', ui.Ctrl), ui.K(ui.Home):
		buf.MoveCursor(0)
	case ui.K('E', ui.Ctrl), ui.K(ui.End):
		buf.MoveCursor(buf.End())
	case ui.K(ui.Backspace), ui.K('H', ui.Ctrl):
		if buf.Cursor() == 0 {
			lr.Out.Alert()
		} else {
			buf.MoveCursor(buf.Cursor() - 1)
			buf.DeleteAtCursor()
		}
	case ui.K(ui.Delete):
		buf.DeleteAtCursor()
	case ui.K(ui.Left):
		buf.MoveCursor(buf.Cursor() - 1)
	case ui.K(ui.Right):
		buf.MoveCursor(buf.Cursor() + 1)
	case ui.K(ui.Up):
		lr.hist.Prev(1)
	case ui.K(ui.Down):
		lr.hist.Next(1)
	case ui.K(ui.PageUp):
		lr.hist.Prev(lr.Config.PgOffset)
	case ui.K(ui.PageDown):
		lr.hist.Next(lr.Config.PgOffset)
	case ui.K(ui.Tab):
		buf.InsertTab(lr.Config.TabPosition)
	case ui.K(ui.Enter):
		lr.submit()
	default:
		if key.IsPrintable() {
			buf.Insert(byte(key.Rune), 1)
		} else {
			// Insert, other function keys, and anything modified.
			logger.Printf("unbound key %v", key)
			lr.Out.Alert()
		}
	}
}

func (lr *LineReader) submit() {
	line := lr.buf.String()
	lr.hist.Add(line)
	for _, f := range lr.AfterReadline {
		f(line)
	}
	lr.Out.Emit('\n')
	lr.resetAndPrompt()
}

func (lr *LineReader) resetAndPrompt() {
	lr.buf.Reset()
	lr.Out.WriteString(lr.Config.Prompt)
}
