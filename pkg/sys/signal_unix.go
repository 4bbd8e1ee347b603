//go:build unix

package sys

import (
	"os"
	"os/signal"
	"syscall"
)

// NotifySignals returns a channel on which the signals handled while a
// terminal is being edited get delivered: SIGUSR1, SIGINT and SIGQUIT. Stop
// the delivery with signal.Stop.
func NotifySignals() chan os.Signal {
	sigCh := make(chan os.Signal, sigsChanBufferSize)
	signal.Notify(sigCh, syscall.SIGUSR1, syscall.SIGINT, syscall.SIGQUIT)
	return sigCh
}
