// Package progtest contains utilities for testing subprograms.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"src.lned.sh/pkg/prog"
)

// Fixture is a test fixture suitable for testing programs. The standard output
// and error are pipes drained in the background; the standard input is a pipe
// or, with SetupInteractive, a pseudo-terminal.
type Fixture struct {
	in, inW *os.File
	// Whether FeedIn closes the writing end of the input.
	closeIn bool
	pipes   [2]*pipe
}

// Setup sets up a test fixture whose standard input is a pipe. Everything is
// closed when the test finishes.
func Setup(t *testing.T) *Fixture {
	t.Helper()
	r, w := mustPipe(t)
	return &Fixture{r, w, true, [2]*pipe{makePipe(t), makePipe(t)}}
}

// Fds returns the file descriptors in the fixture.
func (f *Fixture) Fds() [3]*os.File {
	return [3]*os.File{f.in, f.pipes[0].w, f.pipes[1].w}
}

// FeedIn writes s to the standard input. Pipe input is closed afterwards, so
// that the program sees the end of it.
func (f *Fixture) FeedIn(t *testing.T, s string) {
	t.Helper()
	if _, err := f.inW.WriteString(s); err != nil {
		t.Fatal(err)
	}
	if f.closeIn {
		f.inW.Close()
	}
}

// Run runs the program with the given arguments, not including the program
// name. It returns the exit status.
func (f *Fixture) Run(p prog.Program, args ...string) int {
	return prog.Run(f.Fds(), append([]string{"lned"}, args...), p)
}

// TestOut checks that the output on the given fd (1 or 2) is exactly want.
// It must only be called after the program has finished.
func (f *Fixture) TestOut(t *testing.T, fd int, want string) {
	t.Helper()
	if got := f.pipes[fd-1].get(); got != want {
		t.Errorf("got fd%d output %q, want %q", fd, got, want)
	}
}

// TestOutSnippet checks that the output on the given fd (1 or 2) contains
// wantSnippet. It must only be called after the program has finished.
func (f *Fixture) TestOutSnippet(t *testing.T, fd int, wantSnippet string) {
	t.Helper()
	if got := f.pipes[fd-1].get(); !strings.Contains(got, wantSnippet) {
		t.Errorf("got fd%d output %q, want it to contain %q", fd, got, wantSnippet)
	}
}

type pipe struct {
	w      *os.File
	done   chan struct{}
	output string
}

func makePipe(t *testing.T) *pipe {
	r, w := mustPipe(t)
	p := &pipe{w: w, done: make(chan struct{})}
	go func() {
		b, _ := io.ReadAll(r)
		p.output = string(b)
		close(p.done)
	}()
	return p
}

func (p *pipe) get() string {
	p.w.Close()
	<-p.done
	return p.output
}

func mustPipe(t *testing.T) (*os.File, *os.File) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return r, w
}
