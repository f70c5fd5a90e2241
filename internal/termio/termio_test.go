package termio

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"golang.org/x/term"
)

func TestReadInput(t *testing.T) {
	data := []byte{0x03, 'a', 0x7f, '\r', 0x1b, '[', 'A', 0x1b, '[', 'B', 0x1b, '[', 'C', 0x1b, '[', 'D', 0x1b}
	r := bytes.NewReader(data)
	ch := make(chan InputEvent, 16)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		ReadInput(r, ch, stop)
		close(done)
	}()
	<-done
	close(ch)

	var kinds []KeyKind
	for ev := range ch {
		kinds = append(kinds, ev.Kind)
	}
	want := []KeyKind{KeyCtrlC, KeyRune, KeyBackspace, KeyEnter, KeyUp, KeyDown, KeyRight, KeyLeft, KeyEsc}
	if len(kinds) != len(want) {
		t.Fatalf("got %v want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d: got %v want %v", i, kinds[i], want[i])
		}
	}
}

func TestIsQuit(t *testing.T) {
	if !IsQuit(InputEvent{Kind: KeyRune, Ch: 'q'}) || !IsQuit(InputEvent{Kind: KeyCtrlC}) {
		t.Fatalf("expected quit keys")
	}
	if IsQuit(InputEvent{Kind: KeyRune, Ch: 'x'}) {
		t.Fatalf("unexpected quit")
	}
}

func TestEnterRaw(t *testing.T) {
	env := Env{IsTerminal: func(int) bool { return false }}.WithDefaults()
	if _, err := env.EnterRaw(); !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("expected ErrNotTerminal, got %v", err)
	}

	restored := false
	env = Env{
		FD:         3,
		IsTerminal: func(int) bool { return true },
		MakeRaw:    func(int) (*term.State, error) { return &term.State{}, nil },
		Restore:    func(int, *term.State) error { restored = true; return nil },
		SignalCh:   make(chan os.Signal),
	}.WithDefaults()
	restore, err := env.EnterRaw()
	if err != nil {
		t.Fatalf("enter raw: %v", err)
	}
	restore()
	if !restored {
		t.Fatalf("expected restore to run")
	}
}

func TestEscapes(t *testing.T) {
	var buf bytes.Buffer
	MoveCursor(&buf, 0, 3)
	if buf.String() != "\x1b[1;3H" {
		t.Fatalf("unexpected move: %q", buf.String())
	}
}
