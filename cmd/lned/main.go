// Lned is an interactive line editor for command shells. It reads command
// lines from the terminal, with cursor movement, tab stops and a history that
// keeps the line being edited while earlier lines are browsed.
package main

import (
	"os"

	"src.lned.sh/pkg/buildinfo"
	"src.lned.sh/pkg/prog"
	"src.lned.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program, shell.Program{})))
}
