// Package shell is the entry point for the line editor of lned.
package shell

import (
	"fmt"
	"os"

	"src.lned.sh/pkg/cli"
	"src.lned.sh/pkg/cli/term"
	"src.lned.sh/pkg/config"
	"src.lned.sh/pkg/logutil"
	"src.lned.sh/pkg/prog"
	"src.lned.sh/pkg/sys"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram. It reads command lines from the terminal,
// or from a dofile, until the end of input, and writes the editor output to
// the standard output.
type Program struct {
	// Callbacks called with each line read.
	AfterReadline []func(string)
}

func (p Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	dofile := f.Dofile
	switch {
	case len(args) > 1:
		return prog.BadUsage("at most one dofile may be given")
	case len(args) == 1 && dofile != "":
		return prog.BadUsage("dofile given both with -dofile and as an argument")
	case len(args) == 1:
		dofile = args[0]
	}

	cfg, err := config.Load(f.Config)
	if err != nil {
		return err
	}

	keys, cleanup, err := openKeys(fds[0], fds[2], dofile)
	if err != nil {
		return err
	}
	defer cleanup()

	lr, err := cli.NewLineReader(cli.LineReaderSpec{
		Keys:   keys,
		Out:    term.NewWriter(fds[1]),
		Config: cfg,
		AfterReadline: append([]func(string){
			func(line string) { logger.Printf("read line %q", line) },
		}, p.AfterReadline...),
	})
	if err != nil {
		return err
	}
	return lr.ReadCmds()
}

// Picks the key source: the dofile if there is one, the terminal in raw mode
// if the input is one, and the input as a batch otherwise.
func openKeys(in, stderr *os.File, dofile string) (cli.KeyReader, func(), error) {
	if dofile != "" {
		file, err := os.Open(dofile)
		if err != nil {
			return nil, nil, fmt.Errorf("open dofile: %w", err)
		}
		logger.Println("reading keys from", dofile)
		return term.NewBatchReader(file), func() { file.Close() }, nil
	}
	if !sys.IsATTY(in) {
		logger.Println("input is not a terminal; reading keys in batch")
		return term.NewBatchReader(in), func() {}, nil
	}
	restore, err := term.SetupRaw(in)
	if err != nil {
		return nil, nil, fmt.Errorf("set up terminal: %w", err)
	}
	stopSignals := handleSignals(stderr)
	return term.NewReader(in), func() {
		stopSignals()
		if err := restore(); err != nil {
			logger.Println("failed to restore terminal:", err)
		}
	}, nil
}
