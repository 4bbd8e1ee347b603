//go:build unix

package progtest

import (
	"testing"

	"github.com/creack/pty"

	"src.lned.sh/pkg/sys/eunix"
)

// SetupInteractive sets up a test fixture whose standard input is the slave
// side of a pseudo-terminal; FeedIn writes to the master side. The terminal is
// put in raw mode up front, so that input fed before the program starts is
// not subject to line editing by the terminal driver.
func SetupInteractive(t *testing.T) *Fixture {
	t.Helper()
	ptm, tty, err := pty.Open()
	if err != nil {
		t.Skip("no pseudo-terminal:", err)
	}
	t.Cleanup(func() {
		ptm.Close()
		tty.Close()
	})
	if _, err := eunix.MakeRaw(int(tty.Fd())); err != nil {
		t.Fatal(err)
	}
	return &Fixture{tty, ptm, false, [2]*pipe{makePipe(t), makePipe(t)}}
}
