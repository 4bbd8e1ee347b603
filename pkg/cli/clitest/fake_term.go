// Package clitest provides utilities for testing the line editor.
package clitest

import (
	"strings"

	"src.lned.sh/pkg/cli/term"
	"src.lned.sh/pkg/ui"
)

// FakeTerm is a Terminal that records everything written to it and keeps a
// model of the single line it would show. Printable bytes overwrite the cell
// under the cursor and move it right; backspace moves it left.
type FakeTerm struct {
	output []byte
	alerts int
	cells  []byte
	col    int
}

// NewFakeTerm creates a FakeTerm with an empty line.
func NewFakeTerm() *FakeTerm { return &FakeTerm{} }

// Emit implements Emit of the Terminal interface.
func (t *FakeTerm) Emit(b byte) {
	t.output = append(t.output, b)
	switch b {
	case term.BackspaceByte:
		if t.col > 0 {
			t.col--
		}
	case term.BellByte:
		// The bell is not visible.
	case '\n':
		t.cells = t.cells[:0]
		t.col = 0
	default:
		if t.col == len(t.cells) {
			t.cells = append(t.cells, b)
		} else {
			t.cells[t.col] = b
		}
		t.col++
	}
}

// Alert implements Alert of the Terminal interface.
func (t *FakeTerm) Alert() { t.alerts++ }

// WriteString writes each byte of s with Emit.
func (t *FakeTerm) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		t.Emit(s[i])
	}
}

// Flush implements Flush of the cli.Output interface; it does nothing.
func (t *FakeTerm) Flush() error { return nil }

// Output returns everything emitted since the last call to ResetOutput.
func (t *FakeTerm) Output() string { return string(t.output) }

// ResetOutput forgets recorded output and alerts, but not the line.
func (t *FakeTerm) ResetOutput() {
	t.output = nil
	t.alerts = 0
}

// Alerts returns the number of alerts since the last call to ResetOutput.
func (t *FakeTerm) Alerts() int { return t.alerts }

// Line returns the visible content of the current line, with trailing
// blanks removed.
func (t *FakeTerm) Line() string {
	return strings.TrimRight(string(t.cells), " ")
}

// RawLine returns all the cells of the current line that were ever written.
func (t *FakeTerm) RawLine() string { return string(t.cells) }

// Col returns the column of the terminal cursor.
func (t *FakeTerm) Col() int { return t.col }

// FakeKeys is a key source that returns the given keys in order, then
// EndOfInput forever.
type FakeKeys struct {
	keys []ui.Key
	end  ui.Key
}

// NewFakeKeys creates a FakeKeys. End is the key returned after the given
// keys are exhausted.
func NewFakeKeys(end ui.Key, keys ...ui.Key) *FakeKeys {
	return &FakeKeys{keys, end}
}

// ReadKey returns the next key.
func (k *FakeKeys) ReadKey() (ui.Key, error) {
	if len(k.keys) == 0 {
		return k.end, nil
	}
	key := k.keys[0]
	k.keys = k.keys[1:]
	return key, nil
}

// Keys converts the bytes of s into unmodified keys.
func Keys(s string) []ui.Key {
	keys := make([]ui.Key, len(s))
	for i := 0; i < len(s); i++ {
		keys[i] = ui.K(rune(s[i]))
	}
	return keys
}
