//go:build unix

package term

import (
	"os"
	"testing"
	"time"

	"src.lned.sh/pkg/ui"
)

func TestReader_Interactive(t *testing.T) {
	r, w := setupReader(t)

	w.WriteString("\033[A")
	if key, err := r.ReadKey(); key != ui.K(ui.Up) || err != nil {
		t.Errorf("got (%v, %v), want (Up, nil)", key, err)
	}

	// A lone Escape is resolved once the sequence timeout expires.
	w.WriteString("\033")
	if key, err := r.ReadKey(); key != ui.K('[', ui.Ctrl) || err != nil {
		t.Errorf("got (%v, %v), want (Ctrl-[, nil)", key, err)
	}

	// An escape sequence interrupted by a pause falls apart.
	w.WriteString("\033[")
	time.Sleep(3 * keySeqTimeout)
	if key, err := r.ReadKey(); key != ui.K('[', ui.Alt) || err != nil {
		t.Errorf("got (%v, %v), want (Alt-[, nil)", key, err)
	}

	w.Close()
	if key, err := r.ReadKey(); key != EndOfInput || err != nil {
		t.Errorf("after close got (%v, %v), want (EndOfInput, nil)", key, err)
	}
}

func setupReader(t *testing.T) (*Reader, *os.File) {
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		pr.Close()
		pw.Close()
	})
	return NewReader(pr), pw
}
