// Package term is the terminal side of the line editor: it decodes bytes read
// from the terminal or a script into keys, and writes single bytes back.
package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"src.lned.sh/pkg/logutil"
	"src.lned.sh/pkg/ui"
)

var logger = logutil.GetLogger("[term] ")

// EndOfInput is the key that ends a line editing session. It is returned
// both when the user presses Ctrl-D and when the input is exhausted.
var EndOfInput = ui.K('D', ui.Ctrl)

// Reader reads keys from an input source.
type Reader struct {
	br byteReaderWithTimeout
	// Timeout for the bytes following the first byte of an escape sequence;
	// negative when the source has no notion of timing.
	seqTimeout time.Duration
}

// A source of bytes that can give up waiting after a timeout. A negative
// timeout means no timeout.
type byteReaderWithTimeout interface {
	ReadByteWithTimeout(timeout time.Duration) (byte, error)
}

// Timeout for bytes in escape sequences. Modern terminal emulators send escape
// sequences very fast, so 10ms is more than sufficient. SSH connections on a
// slow link might be problematic though.
var keySeqTimeout = 10 * time.Millisecond

var errTimeout = errors.New("timed out")

type seqError struct {
	msg string
	seq string
}

func (err seqError) Error() string {
	return fmt.Sprintf("%s: %q", err.msg, err.seq)
}

// IsReadErrorRecoverable returns whether an error returned by Reader is
// recoverable, i.e. whether it was caused by a malformed key sequence rather
// than by the input source.
func IsReadErrorRecoverable(err error) bool {
	var seqErr seqError
	return errors.As(err, &seqErr)
}

// NewReader creates a Reader on a terminal file. Escape sequences are
// assembled from bytes arriving within keySeqTimeout of each other.
func NewReader(f *os.File) *Reader {
	return &Reader{newFileReader(f), keySeqTimeout}
}

// NewBatchReader creates a Reader on a non-interactive source, such as a
// script file. Escape sequences are assembled without timeouts.
func NewBatchReader(r io.Reader) *Reader {
	return &Reader{batchReader{bufio.NewReader(r)}, -1}
}

type batchReader struct{ r *bufio.Reader }

func (br batchReader) ReadByteWithTimeout(time.Duration) (byte, error) {
	return br.r.ReadByte()
}

// In batch input, a line feed right after a carriage return is dropped, so
// that files with CRLF line endings submit each line once. Terminals in raw
// mode translate carriage returns, so interactive input needs no such care.
func (rd *Reader) skipLineFeed() {
	br, ok := rd.br.(batchReader)
	if !ok {
		return
	}
	if next, err := br.r.Peek(1); err == nil && next[0] == '\n' {
		br.r.ReadByte()
	}
}

// Used by readNext to signal end of current sequence.
const runeEndOfSeq rune = -1

// ReadKey reads a single key. When the source is exhausted it returns
// EndOfInput and a nil error. A malformed escape sequence yields
// ui.K(ui.Unknown) together with an error for which IsReadErrorRecoverable
// returns true.
func (rd *Reader) ReadKey() (key ui.Key, err error) {
	b, err := rd.br.ReadByteWithTimeout(-1)
	if err == io.EOF {
		return EndOfInput, nil
	} else if err != nil {
		return ui.Key{}, err
	}
	r := rune(b)

	currentSeq := string(r)
	// Attempts to read a byte within the sequence timeout. It returns
	// runeEndOfSeq if there is any error; the caller should terminate the
	// current sequence when it sees that value.
	readNext := func() rune {
		b, e := rd.br.ReadByteWithTimeout(rd.seqTimeout)
		if e != nil {
			return runeEndOfSeq
		}
		currentSeq += string(rune(b))
		return rune(b)
	}
	badSeq := func(msg string) {
		key = ui.K(ui.Unknown)
		err = seqError{msg, currentSeq}
		logger.Println(err)
	}

	switch r {
	case 0x1b: // ^[ Escape
		r2 := readNext()
		// rxvt and derivatives prepend another ESC to a CSI-style or G3-style
		// sequence to signal Alt.
		hasTwoLeadingESC := false
		if r2 == 0x1b {
			hasTwoLeadingESC = true
			r2 = readNext()
		}
		if r2 == runeEndOfSeq {
			// Nothing follows. Taken as a lone Escape.
			key = ui.K('[', ui.Ctrl)
			break
		}
		switch r2 {
		case '[':
			// A '[' follows. CSI style function key sequence.
			r = readNext()
			if r == runeEndOfSeq {
				key = ui.K('[', ui.Alt)
				return
			}

			nums := make([]int, 0, 2)
		CSISeq:
			for {
				switch {
				case r == ';':
					nums = append(nums, 0)
				case '0' <= r && r <= '9':
					if len(nums) == 0 {
						nums = append(nums, 0)
					}
					cur := len(nums) - 1
					nums[cur] = nums[cur]*10 + int(r-'0')
				case r == runeEndOfSeq:
					badSeq("incomplete CSI")
					return
				default: // Treat as a terminator.
					break CSISeq
				}
				r = readNext()
			}
			k := parseCSI(nums, r)
			if k == (ui.Key{}) {
				badSeq("bad CSI")
				return
			}
			if hasTwoLeadingESC {
				k.Mod |= ui.Alt
			}
			key = k
		case 'O':
			// An 'O' follows. G3 style function key sequence: read one rune.
			r = readNext()
			if r == runeEndOfSeq {
				// Nothing follows after 'O'. Taken as Alt-O.
				key = ui.K('O', ui.Alt)
				return
			}
			k, ok := g3Seq[r]
			if !ok {
				badSeq("bad G3")
				return
			}
			if hasTwoLeadingESC {
				k.Mod |= ui.Alt
			}
			key = k
		default:
			// Something other than '[' or 'O' follows. Taken as an
			// Alt-modified key, possibly also modified by Ctrl.
			k := ctrlModify(r2)
			k.Mod |= ui.Alt
			key = k
		}
	case '\r':
		key = ui.K(ui.Enter)
		rd.skipLineFeed()
	default:
		key = ctrlModify(r)
	}
	return
}

// Determines whether a rune corresponds to a Ctrl-modified key and returns the
// ui.Key the rune represents.
func ctrlModify(r rune) ui.Key {
	switch r {
	case 0x0:
		return ui.K('`', ui.Ctrl) // ^@
	case 0x1e:
		return ui.K('6', ui.Ctrl) // ^^
	case 0x1f:
		return ui.K('/', ui.Ctrl) // ^_
	case ui.Tab, ui.Enter, ui.Backspace: // ^I ^J ^?
		// Ambiguous Ctrl keys; prefer the non-Ctrl form as they are more likely.
		return ui.K(r)
	default:
		if 0x1 <= r && r <= 0x1d {
			return ui.K(r+0x40, ui.Ctrl)
		}
	}
	return ui.K(r)
}

// G3-style key sequences: \eO followed by exactly one character.
var g3Seq = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End), 'M': ui.K(ui.Insert),
	// urxvt
	'a': ui.K(ui.Up, ui.Ctrl), 'b': ui.K(ui.Down, ui.Ctrl),
	'c': ui.K(ui.Right, ui.Ctrl), 'd': ui.K(ui.Left, ui.Ctrl),
	'P': ui.K(ui.F1), 'Q': ui.K(ui.F2), 'R': ui.K(ui.F3), 'S': ui.K(ui.F4),
}

// CSI-style key sequences identified by the last rune. For instance, \e[A is
// Up. When modified, two numerical arguments are added, the first always being
// 1 and the second identifying the modifier. For instance, \e[1;5A is Ctrl-Up.
var csiSeqByLast = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	// urxvt
	'a': ui.K(ui.Up, ui.Shift), 'b': ui.K(ui.Down, ui.Shift),
	'c': ui.K(ui.Right, ui.Shift), 'd': ui.K(ui.Left, ui.Shift),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
	'Z': ui.K(ui.Tab, ui.Shift),
}

// CSI-style key sequences ending with '~' with by one or two numerical
// arguments. The first argument identifies the key, and the optional second
// argument identifies the modifier. For instance, \e[3~ is Delete, and \e[3;5~
// is Ctrl-Delete.
var csiSeqTilde = map[int]rune{
	1: ui.Home, 4: ui.End,
	2: ui.Insert,
	3: ui.Delete,
	5: ui.PageUp, 6: ui.PageDown,
	// urxvt
	7: ui.Home, 8: ui.End,
	11: ui.F1, 12: ui.F2, 13: ui.F3, 14: ui.F4,
	15: ui.F5, 17: ui.F6, 18: ui.F7, 19: ui.F8,
	20: ui.F9, 21: ui.F10, 23: ui.F11, 24: ui.F12,
}

// parseCSI parses a CSI-style key sequence. It returns the zero Key if the
// sequence is not recognized.
func parseCSI(nums []int, last rune) ui.Key {
	if k, ok := csiSeqByLast[last]; ok {
		if len(nums) == 0 {
			// Unmodified: \e[A (Up)
			return k
		} else if len(nums) == 2 && nums[0] == 1 {
			// Modified: \e[1;5A (Ctrl-Up)
			return xtermModify(k, nums[1])
		}
		return ui.Key{}
	}

	switch last {
	case '~':
		if len(nums) == 1 || len(nums) == 2 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				k := ui.K(r)
				if len(nums) == 1 {
					return k
				}
				return xtermModify(k, nums[1])
			}
		}
	case '$', '^', '@':
		// Modified by urxvt: '$' for Shift, '^' for Ctrl and '@' for both.
		if len(nums) == 1 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				var mod ui.Mod
				switch last {
				case '$':
					mod = ui.Shift
				case '^':
					mod = ui.Ctrl
				case '@':
					mod = ui.Shift | ui.Ctrl
				}
				return ui.K(r, mod)
			}
		}
	}
	return ui.Key{}
}

func xtermModify(k ui.Key, mod int) ui.Key {
	if mod < 0 || mod > 16 {
		// Out of range
		return ui.Key{}
	}
	if mod == 0 {
		return k
	}
	modFlags := mod - 1
	if modFlags&0x1 != 0 {
		k.Mod |= ui.Shift
	}
	if modFlags&0x2 != 0 {
		k.Mod |= ui.Alt
	}
	if modFlags&0x4 != 0 {
		k.Mod |= ui.Ctrl
	}
	if modFlags&0x8 != 0 {
		// This should be Meta, but we conflate Meta and Alt.
		k.Mod |= ui.Alt
	}
	return k
}
