//go:build unix

package term

import (
	"os"

	"src.lned.sh/pkg/sys/eunix"
)

// SetupRaw puts the terminal into the mode needed for line editing, and
// returns a function that restores the original mode.
func SetupRaw(in *os.File) (func() error, error) {
	// On Unix, use input file for changing termios. All fds pointing to the
	// same terminal are equivalent.
	restoreTermios, err := eunix.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, err
	}
	logger.Println("terminal set up")
	return func() error {
		logger.Println("terminal restored")
		return restoreTermios()
	}, nil
}
