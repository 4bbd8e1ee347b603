// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X src.lned.sh/pkg/buildinfo.Var=value" to "go build".
package buildinfo

import (
	"fmt"
	"os"
	"runtime"

	"src.lned.sh/pkg/prog"
)

// Version identifies the version of lned. On development commits, it
// identifies the next release.
const Version = "v0.1.0"

// VersionSuffix is appended to Version in the output of "lned -version" to
// build the full version string.
var VersionSuffix = "-dev.unknown"

// Program is the buildinfo subprogram. It runs when -version is given.
var Program prog.Program = program{}

type program struct{}

func (program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	if !f.Version {
		return prog.ErrNotSuitable
	}
	fmt.Fprintln(fds[1], Version+VersionSuffix)
	fmt.Fprintln(fds[1], "Go version:", runtime.Version())
	return nil
}
