//go:build unix

package term

import (
	"io"
	"os"
	"syscall"
	"time"

	"src.lned.sh/pkg/sys"
)

// Reads bytes from a terminal file, waiting at most a given time for each.
type fileReader struct {
	file *os.File
}

func newFileReader(file *os.File) fileReader {
	return fileReader{file}
}

func (r fileReader) ReadByteWithTimeout(timeout time.Duration) (byte, error) {
	for {
		ready, err := sys.WaitForRead(timeout, r.file)
		if err != nil {
			if err == syscall.EINTR {
				continue
			}
			return 0, err
		}
		if !ready[0] {
			return 0, errTimeout
		}
		var b [1]byte
		nr, err := r.file.Read(b[:])
		if err != nil {
			return 0, err
		}
		if nr != 1 {
			return 0, io.ErrNoProgress
		}
		return b[0], nil
	}
}
