package histutil

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.lned.sh/pkg/cli/clitest"
	"src.lned.sh/pkg/cli/linebuf"
)

type fixture struct {
	h    *History
	buf  *linebuf.Buffer
	term *clitest.FakeTerm
}

func setup(line string, entries ...string) fixture {
	term := clitest.NewFakeTerm()
	buf := linebuf.New(64, term)
	buf.Replace(line)
	term.ResetOutput()
	return fixture{New(buf, term, entries...), buf, term}
}

type state struct {
	Entries    []string
	Index      int
	TempStored bool
	Line       string
}

func (f fixture) state() state {
	return state{f.h.Entries(), f.h.Index(), f.h.TempStored(), f.buf.String()}
}

func (f fixture) check(t *testing.T, want state) {
	t.Helper()
	if diff := cmp.Diff(want, f.state()); diff != "" {
		t.Errorf("state (-want +got):\n%s", diff)
	}
	raw := f.term.RawLine()
	if len(raw) < f.buf.End() || raw[:f.buf.End()] != f.buf.String() ||
		strings.Trim(raw[f.buf.End():], " ") != "" {
		t.Errorf("terminal shows %q, buffer has %q", raw, f.buf.String())
	}
	if f.term.Col() != f.buf.Cursor() {
		t.Errorf("terminal cursor %d, buffer cursor %d", f.term.Col(), f.buf.Cursor())
	}
}

var addTests = []struct {
	name        string
	text        string
	wantAdded   bool
	wantEntries []string
}{
	{"empty", "", false, []string{"a"}},
	{"spaces", "   ", false, []string{"a"}},
	{"whitespace", " \t\v\f\r\n", false, []string{"a"}},
	{"trimmed", "  foo  ", true, []string{"a", "foo"}},
	{"inner spaces kept", "\techo  hi \n", true, []string{"a", "echo  hi"}},
	{"duplicates kept", "a", true, []string{"a", "a"}},
}

func TestAdd(t *testing.T) {
	for _, test := range addTests {
		t.Run(test.name, func(t *testing.T) {
			f := setup("", "a")
			added := f.h.Add(test.text)
			if added != test.wantAdded {
				t.Errorf("Add(%q) -> %v, want %v", test.text, added, test.wantAdded)
			}
			if diff := cmp.Diff(test.wantEntries, f.h.Entries()); diff != "" {
				t.Errorf("entries (-want +got):\n%s", diff)
			}
			if f.h.Index() != len(test.wantEntries) || f.h.TempStored() {
				t.Errorf("index %d, temp %v", f.h.Index(), f.h.TempStored())
			}
		})
	}
}

func TestAdd_WhileBrowsing(t *testing.T) {
	f := setup("draft", "a", "b")
	f.h.Prev(1)
	// Whitespace-only lines leave the browsing state alone.
	if f.h.Add("  ") {
		t.Errorf("Add of blank line -> true")
	}
	f.check(t, state{[]string{"a", "b", "draft"}, 1, true, "b"})

	// Submitting drops the temporary entry.
	f.h.Add(" b edited ")
	f.check(t, state{[]string{"a", "b", "b edited"}, 3, false, "b"})
}

func TestTempEntryLifecycle(t *testing.T) {
	f := setup("  current  ", "a", "b")

	if !f.h.MoveTo(1) {
		t.Errorf("MoveTo(1) -> false")
	}
	// The snapshot is taken verbatim.
	f.check(t, state{[]string{"a", "b", "  current  "}, 1, true, "b"})

	if !f.h.MoveTo(2) {
		t.Errorf("MoveTo(2) -> false")
	}
	f.check(t, state{[]string{"a", "b"}, 2, false, "  current  "})
	if f.term.Alerts() != 0 {
		t.Errorf("%d alerts, want 0", f.term.Alerts())
	}
}

func TestBoundaryAlerts(t *testing.T) {
	// Empty history.
	f := setup("x")
	if f.h.Prev(1) || f.h.Next(1) {
		t.Errorf("moving in empty history -> true")
	}
	f.check(t, state{nil, 0, false, "x"})
	if f.term.Alerts() != 2 {
		t.Errorf("%d alerts, want 2", f.term.Alerts())
	}

	// Past the bottom without browsing.
	f = setup("x", "a")
	if f.h.Next(1) {
		t.Errorf("Next at bottom -> true")
	}
	f.check(t, state{[]string{"a"}, 1, false, "x"})

	// Past the top while browsing.
	f = setup("x", "a", "b")
	f.h.MoveTo(0)
	f.term.ResetOutput()
	if f.h.Prev(1) {
		t.Errorf("Prev at top -> true")
	}
	if f.h.Prev(10) {
		t.Errorf("page up at top -> true")
	}
	f.check(t, state{[]string{"a", "b", "x"}, 0, true, "a"})
	if f.term.Alerts() != 2 || f.term.Output() != "" {
		t.Errorf("at top: %d alerts, output %q", f.term.Alerts(), f.term.Output())
	}
}

func TestMoveTo_SameIndex(t *testing.T) {
	f := setup("x", "a")
	if f.h.MoveTo(1) {
		t.Errorf("MoveTo(current) -> true")
	}
	f.check(t, state{[]string{"a"}, 1, false, "x"})
	if f.term.Alerts() != 0 {
		t.Errorf("MoveTo(current) alerted")
	}
}

func TestPageNavigation(t *testing.T) {
	f := setup("draft", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11")

	// Page up from the bottom.
	f.h.Prev(10)
	f.check(t, state{
		[]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "draft"},
		2, true, "2"})
	// Clamped to the top.
	f.h.Prev(10)
	if f.h.Index() != 0 || f.buf.String() != "0" {
		t.Errorf("after second page up: index %d, line %q", f.h.Index(), f.buf.String())
	}
	// Page down in the middle.
	f.h.Next(10)
	if f.h.Index() != 10 || f.buf.String() != "10" {
		t.Errorf("after page down: index %d, line %q", f.h.Index(), f.buf.String())
	}
	// Page down past the bottom restores the draft.
	f.h.Next(10)
	f.check(t, state{
		[]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"},
		12, false, "draft"})

	// Page up with fewer entries than a page clamps to the top.
	f = setup("", "a", "b")
	f.h.Prev(10)
	f.check(t, state{[]string{"a", "b", ""}, 0, true, "a"})
	if f.term.Alerts() != 0 {
		t.Errorf("clamped page up alerted")
	}
}

func TestWalk(t *testing.T) {
	f := setup("ls", "echo a", "ls -l", "echo b")
	steps := []struct {
		f         func(int) bool
		wantOK    bool
		wantIndex int
		wantLine  string
	}{
		{f.h.Prev, true, 2, "echo b"},
		{f.h.Prev, true, 1, "ls -l"},
		{f.h.Prev, true, 0, "echo a"},
		{f.h.Prev, false, 0, "echo a"},
		{f.h.Next, true, 1, "ls -l"},
		{f.h.Next, true, 2, "echo b"},
		{f.h.Next, true, 3, "ls"},
		{f.h.Next, false, 3, "ls"},
		{f.h.Prev, true, 2, "echo b"},
	}
	for i, step := range steps {
		ok := step.f(1)
		if ok != step.wantOK || f.h.Index() != step.wantIndex || f.buf.String() != step.wantLine {
			t.Errorf("step %d: got (%v, %d, %q), want (%v, %d, %q)", i,
				ok, f.h.Index(), f.buf.String(), step.wantOK, step.wantIndex, step.wantLine)
		}
	}
	// The draft is still the temporary entry.
	if got := f.h.Entries(); got[len(got)-1] != "ls" || !f.h.TempStored() {
		t.Errorf("entries %q, temp %v", got, f.h.TempStored())
	}
}

func TestMoveTo_BadState(t *testing.T) {
	f := setup("x", "a")
	// Corrupt the state the way no sequence of calls can.
	f.h.tempStored = true
	if f.h.MoveTo(0) {
		t.Errorf("MoveTo in bad state -> true")
	}
	if f.term.Alerts() != 1 {
		t.Errorf("%d alerts, want 1", f.term.Alerts())
	}
	if diff := cmp.Diff([]string{"a"}, f.h.Entries()); diff != "" {
		t.Errorf("entries changed (-want +got):\n%s", diff)
	}
}
