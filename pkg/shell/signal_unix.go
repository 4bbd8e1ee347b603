//go:build unix

package shell

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"src.lned.sh/pkg/sys"
)

// Starts handling signals, and returns a function that stops it.
func handleSignals(stderr io.Writer) func() {
	sigCh := sys.NotifySignals()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for sig := range sigCh {
			logger.Println("signal", sig)
			handleSignal(sig, stderr)
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(sigCh)
		<-done
	}
}

func handleSignal(sig os.Signal, stderr io.Writer) {
	switch sig {
	case syscall.SIGUSR1:
		fmt.Fprint(stderr, sys.DumpStack())
	}
	// SIGINT and SIGQUIT are swallowed; the line is ended with Ctrl-D.
}
