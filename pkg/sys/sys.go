// Package sys provides system utilities for the terminal the line editor
// runs on.
//
// The subpackage eunix provides Unix-specific terminal mode utilities.
package sys

import (
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
)

const sigsChanBufferSize = 16

// IsATTY determines whether the given file is a terminal.
func IsATTY(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// DumpStack returns the stack traces of all goroutines.
func DumpStack() string {
	for size := 8192; ; size *= 2 {
		buf := make([]byte, size)
		if n := runtime.Stack(buf, true); n < size {
			return string(buf[:n])
		}
	}
}
