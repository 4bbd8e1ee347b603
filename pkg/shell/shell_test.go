package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.lned.sh/pkg/prog/progtest"
)

func TestProgram_BatchInput(t *testing.T) {
	f := progtest.Setup(t)
	f.FeedIn(t, "ls\n\x7f\x7fpwd\n")
	if exit := f.Run(Program{}); exit != 0 {
		t.Errorf("exit %d, want 0", exit)
	}
	// Backspace at the start of the line rings the bell.
	f.TestOut(t, 1, "cmd> ls\ncmd> \a\apwd\ncmd> \n")
	f.TestOut(t, 2, "")
}

func TestProgram_Dofile(t *testing.T) {
	dir := t.TempDir()
	dofile := filepath.Join(dir, "do")
	writeFile(t, dofile, "  echo hi  \n\x1b[A\x1b[D\x1b[Dx\n")

	for _, args := range [][]string{{dofile}, {"-dofile", dofile}} {
		var lines []string
		p := Program{AfterReadline: []func(string){
			func(s string) { lines = append(lines, s) }}}
		f := progtest.Setup(t)
		if exit := f.Run(p, args...); exit != 0 {
			t.Errorf("%v: exit %d, want 0", args, exit)
		}
		if diff := cmp.Diff([]string{"  echo hi  ", "echo xhi"}, lines); diff != "" {
			t.Errorf("%v: lines (-want +got):\n%s", args, diff)
		}
	}
}

func TestProgram_DofileCRLF(t *testing.T) {
	dofile := filepath.Join(t.TempDir(), "do")
	writeFile(t, dofile, "ls\r\npwd\r\n")

	var lines []string
	p := Program{AfterReadline: []func(string){
		func(s string) { lines = append(lines, s) }}}
	f := progtest.Setup(t)
	if exit := f.Run(p, dofile); exit != 0 {
		t.Errorf("exit %d, want 0", exit)
	}
	if diff := cmp.Diff([]string{"ls", "pwd"}, lines); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}
	f.TestOut(t, 1, "cmd> ls\ncmd> pwd\ncmd> \n")
}

func TestProgram_Config(t *testing.T) {
	dir := t.TempDir()
	rc := filepath.Join(dir, "lned.yaml")
	writeFile(t, rc, "prompt: \"> \"\ntab_position: 4\n")

	f := progtest.Setup(t)
	f.FeedIn(t, "a\tb\n")
	if exit := f.Run(Program{}, "-config", rc); exit != 0 {
		t.Errorf("exit %d, want 0", exit)
	}
	f.TestOut(t, 1, "> a   b\n> \n")
}

var errorTests = []struct {
	name        string
	args        func(dir string) []string
	wantSnippet string
}{
	{"bad config",
		func(dir string) []string {
			rc := filepath.Join(dir, "bad.yaml")
			os.WriteFile(rc, []byte("read_buf_size: 1\n"), 0644)
			return []string{"-config", rc}
		},
		"read_buf_size must be at least 2"},
	{"missing config",
		func(dir string) []string { return []string{"-config", filepath.Join(dir, "nope")} },
		"no such file or directory"},
	{"missing dofile",
		func(dir string) []string { return []string{filepath.Join(dir, "nope")} },
		"open dofile: "},
	{"two dofiles",
		func(string) []string { return []string{"a", "b"} },
		"at most one dofile may be given\nUsage:"},
	{"dofile flag and argument",
		func(string) []string { return []string{"-dofile", "a", "b"} },
		"dofile given both with -dofile and as an argument\nUsage:"},
}

func TestProgram_Errors(t *testing.T) {
	for _, test := range errorTests {
		t.Run(test.name, func(t *testing.T) {
			f := progtest.Setup(t)
			f.FeedIn(t, "")
			if exit := f.Run(Program{}, test.args(t.TempDir())...); exit != 2 {
				t.Errorf("exit %d, want 2", exit)
			}
			f.TestOutSnippet(t, 2, test.wantSnippet)
		})
	}
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
