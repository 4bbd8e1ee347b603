// Package histutil implements navigation of the command history.
//
// The history is a list of submitted lines. While the user browses it, the
// line being edited before browsing started is kept as a temporary entry at
// the end of the list, so that coming back to the bottom restores it. The
// temporary entry is dropped when it is restored or when a line is
// submitted.
package histutil

import (
	"fmt"
	"strings"

	"src.lned.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[histutil] ")

// Line is the line being edited, as seen by the history.
type Line interface {
	// String returns the current text of the line.
	String() string
	// Replace replaces the text of the line and redraws it.
	Replace(text string)
}

// Alerter signals a rejected operation to the user.
type Alerter interface {
	Alert()
}

// History keeps the command history and the browsing state.
type History struct {
	line    Line
	alerter Alerter

	entries []string
	// Index of the displayed entry; len(entries) when not browsing.
	index int
	// Whether the last element of entries is the temporary entry.
	tempStored bool
}

// New creates a History that displays entries on line. The initial entries,
// if any, are taken as submitted lines.
func New(line Line, alerter Alerter, entries ...string) *History {
	entries = append([]string(nil), entries...)
	return &History{line: line, alerter: alerter, entries: entries, index: len(entries)}
}

// Entries returns a copy of the history, including the temporary entry if
// there is one.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Len returns the number of entries, including the temporary entry if there
// is one.
func (h *History) Len() int { return len(h.entries) }

// Index returns the index of the displayed entry, or Len() when not browsing.
func (h *History) Index() int { return h.index }

// TempStored returns whether the last entry is the temporary entry.
func (h *History) TempStored() bool { return h.tempStored }

// Add submits a line. Leading and trailing whitespace is removed; if nothing
// is left the history is not touched and false is returned. Otherwise the
// temporary entry, if any, is dropped, the line is appended and browsing
// ends.
func (h *History) Add(text string) bool {
	trimmed := strings.TrimFunc(text, isSpace)
	if trimmed == "" {
		return false
	}
	if h.tempStored {
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, trimmed)
	h.index = len(h.entries)
	h.tempStored = false
	logger.Printf("added entry %d: %q", h.index-1, trimmed)
	return true
}

// Prev moves step entries towards older entries.
func (h *History) Prev(step int) bool { return h.MoveTo(h.index - step) }

// Next moves step entries towards newer entries.
func (h *History) Next(step int) bool { return h.MoveTo(h.index + step) }

// MoveTo displays the entry at target and returns true. A target before the
// first entry is moved to the first entry, and a target at or after the
// temporary entry restores it. When nothing can be displayed, because the
// first entry is already displayed or because the history is not being
// browsed and target is after the end, it alerts and returns false.
func (h *History) MoveTo(target int) bool {
	if target == h.index {
		logger.Printf("moving to current entry %d", target)
		return false
	}
	if err := h.checkState(); err != nil {
		logger.Println(err)
		h.alerter.Alert()
		return false
	}

	if !h.tempStored {
		if target > h.index || h.index == 0 {
			// Past the bottom, or no history at all.
			h.alerter.Alert()
			return false
		}
		if target < 0 {
			target = 0
		}
		h.entries = append(h.entries, h.line.String())
		h.tempStored = true
		h.index = target
		h.retrieve()
		return true
	}

	if bottom := len(h.entries) - 1; target >= bottom {
		h.index = bottom
		h.retrieve()
		h.entries = h.entries[:bottom]
		h.tempStored = false
		return true
	}
	if h.index == 0 && target < 0 {
		h.alerter.Alert()
		return false
	}
	if target < 0 {
		target = 0
	}
	h.index = target
	h.retrieve()
	return true
}

// Displays the entry at h.index.
func (h *History) retrieve() {
	logger.Printf("retrieving entry %d of %d", h.index, len(h.entries))
	h.line.Replace(h.entries[h.index])
}

func (h *History) checkState() error {
	n := len(h.entries)
	if h.tempStored {
		if n < 2 || h.index < 0 || h.index >= n-1 {
			return fmt.Errorf("bad history state: temporary entry stored, index %d, %d entries", h.index, n)
		}
	} else if h.index != n {
		return fmt.Errorf("bad history state: not browsing, index %d, %d entries", h.index, n)
	}
	return nil
}

// The whitespace characters of the C locale.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
