// Package linebuf implements the line buffer of the line editor.
//
// A Buffer keeps a fixed-capacity byte array mirroring the text shown after
// the prompt, together with the cursor and the end of the text. Every
// operation writes the matching redraw to a Terminal, using only single
// bytes: printable characters, backspaces that move the terminal cursor one
// column to the left, and spaces for erasing. The terminal line therefore
// always shows content[0:end], with the terminal cursor at the logical
// cursor.
package linebuf

import (
	"fmt"

	"src.lned.sh/pkg/cli/term"
	"src.lned.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[linebuf] ")

// Terminal is the output side of a Buffer.
type Terminal interface {
	// Emit writes one byte to the terminal.
	Emit(b byte)
	// Alert signals a rejected operation to the user.
	Alert()
}

// Buffer is a line buffer. The zero value is not usable; use New.
type Buffer struct {
	// content[end] is always 0; len(content) is the capacity.
	content []byte
	// 0 <= cursor <= end < len(content).
	cursor int
	end    int
	term   Terminal
}

// New creates an empty Buffer with the given capacity, which includes the
// terminating zero byte. It panics if size is smaller than 1.
func New(size int, t Terminal) *Buffer {
	if size < 1 {
		panic(fmt.Sprintf("linebuf: bad size %d", size))
	}
	return &Buffer{content: make([]byte, size), term: t}
}

// String returns the text in the buffer.
func (b *Buffer) String() string { return string(b.content[:b.end]) }

// Cursor returns the cursor position.
func (b *Buffer) Cursor() int { return b.cursor }

// End returns the length of the text in the buffer.
func (b *Buffer) End() int { return b.end }

// Cap returns the capacity of the buffer, including the terminating byte.
func (b *Buffer) Cap() int { return len(b.content) }

// Reset empties the buffer without touching the terminal. It is used when a
// new prompt starts on a fresh line.
func (b *Buffer) Reset() {
	clear(b.content)
	b.cursor, b.end = 0, 0
}

// MoveCursor moves the cursor to target, which must be within [0, End()].
// Otherwise it alerts and returns false without doing anything.
func (b *Buffer) MoveCursor(target int) bool {
	if target < 0 || target > b.end {
		logger.Printf("cursor target %d out of [0, %d]", target, b.end)
		b.term.Alert()
		return false
	}
	for b.cursor > target {
		b.term.Emit(term.BackspaceByte)
		b.cursor--
	}
	for b.cursor < target {
		b.term.Emit(b.content[b.cursor])
		b.cursor++
	}
	return true
}

// Insert inserts repeat copies of ch at the cursor, and moves the cursor past
// them. If they don't all fit, it alerts and inserts as many as fit. It
// returns the number of copies inserted. It panics if repeat < 1.
func (b *Buffer) Insert(ch byte, repeat int) int {
	if repeat < 1 {
		panic(fmt.Sprintf("linebuf: bad repeat %d", repeat))
	}
	remaining := len(b.content) - b.end - 1
	if repeat > remaining {
		logger.Printf("inserting %d bytes with room for %d", repeat, remaining)
		b.term.Alert()
		repeat = remaining
		if repeat == 0 {
			return 0
		}
	}

	// Redraw: the new bytes, then the old suffix shifted right, then back to
	// where the cursor ends up.
	suffix := b.content[b.cursor:b.end]
	for i := 0; i < repeat; i++ {
		b.term.Emit(ch)
	}
	for _, c := range suffix {
		b.term.Emit(c)
	}
	for range suffix {
		b.term.Emit(term.BackspaceByte)
	}

	copy(b.content[b.cursor+repeat:], suffix)
	for i := 0; i < repeat; i++ {
		b.content[b.cursor+i] = ch
	}
	b.cursor += repeat
	b.end += repeat
	b.content[b.end] = 0
	return repeat
}

// InsertTab inserts spaces up to the next multiple of tabPosition. If the
// cursor is already at a multiple, a full run of tabPosition spaces is
// inserted. It returns the number of spaces inserted.
func (b *Buffer) InsertTab(tabPosition int) int {
	return b.Insert(' ', tabPosition-b.cursor%tabPosition)
}

// DeleteAtCursor deletes the byte at the cursor; the cursor does not move. If
// the cursor is at the end, it alerts and returns false.
func (b *Buffer) DeleteAtCursor() bool {
	if b.cursor == b.end {
		logger.Printf("nothing to delete at %d", b.cursor)
		b.term.Alert()
		return false
	}
	copy(b.content[b.cursor:], b.content[b.cursor+1:b.end])
	b.end--
	b.content[b.end] = 0

	suffix := b.content[b.cursor:b.end]
	for _, c := range suffix {
		b.term.Emit(c)
	}
	// Erase the stale last character.
	b.term.Emit(' ')
	b.term.Emit(term.BackspaceByte)
	for range suffix {
		b.term.Emit(term.BackspaceByte)
	}
	return true
}

// ClearLine erases the line from the terminal and empties the buffer.
func (b *Buffer) ClearLine() {
	b.MoveCursor(0)
	for i := 0; i <= b.end; i++ {
		b.term.Emit(' ')
	}
	for i := 0; i <= b.end; i++ {
		b.term.Emit(term.BackspaceByte)
	}
	b.Reset()
}

// Replace replaces the line with text and puts the cursor at its end. Text
// that does not fit is truncated with an alert.
func (b *Buffer) Replace(text string) {
	b.ClearLine()
	if limit := len(b.content) - 1; len(text) > limit {
		logger.Printf("truncating %d bytes to %d", len(text), limit)
		b.term.Alert()
		text = text[:limit]
	}
	n := copy(b.content, text)
	for _, c := range b.content[:n] {
		b.term.Emit(c)
	}
	b.cursor, b.end = n, n
}
