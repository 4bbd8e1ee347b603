package term

import (
	"bufio"
	"io"
)

// Control bytes written to the terminal.
const (
	BackspaceByte byte = 0x08
	BellByte      byte = 0x07
)

// Writer writes to the terminal one byte at a time. Output is buffered until
// Flush is called. The first write error is kept and returned by Flush; later
// writes are dropped.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter returns a Writer that writes to the given io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Emit writes a single byte.
func (w *Writer) Emit(b byte) {
	if w.err != nil {
		return
	}
	w.err = w.w.WriteByte(b)
}

// Alert signals the user that an operation was rejected.
func (w *Writer) Alert() {
	w.Emit(BellByte)
}

// WriteString writes a string, such as the prompt.
func (w *Writer) WriteString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(s)
}

// Flush writes any buffered bytes to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}
