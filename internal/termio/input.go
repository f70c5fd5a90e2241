package termio

import (
	"bufio"
	"io"
)

type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyEnter
	KeyBackspace
	KeyEsc
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyUnknown
)

type InputEvent struct {
	Kind KeyKind
	Ch   rune
}

// ReadInput decodes raw-mode key presses from r until it fails or stop is
// closed.
func ReadInput(r io.Reader, ch chan<- InputEvent, stop <-chan struct{}) {
	reader := bufio.NewReader(r)
	for {
		select {
		case <-stop:
			return
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch b {
		case 0x03:
			ch <- InputEvent{Kind: KeyCtrlC}
		case '\r', '\n':
			ch <- InputEvent{Kind: KeyEnter}
		case 0x7f, 0x08:
			ch <- InputEvent{Kind: KeyBackspace}
		case 0x1b:
			next, err := reader.ReadByte()
			if err != nil {
				ch <- InputEvent{Kind: KeyEsc}
				continue
			}
			if next == '[' {
				third, _ := reader.ReadByte()
				switch third {
				case 'A':
					ch <- InputEvent{Kind: KeyUp}
				case 'B':
					ch <- InputEvent{Kind: KeyDown}
				case 'C':
					ch <- InputEvent{Kind: KeyRight}
				case 'D':
					ch <- InputEvent{Kind: KeyLeft}
				default:
					ch <- InputEvent{Kind: KeyUnknown}
				}
			} else {
				_ = reader.UnreadByte()
				ch <- InputEvent{Kind: KeyEsc}
			}
		default:
			if b >= 0x20 && b < 0x7f {
				ch <- InputEvent{Kind: KeyRune, Ch: rune(b)}
			}
		}
	}
}

// IsQuit reports whether ev ends a full-screen loop.
func IsQuit(ev InputEvent) bool {
	return ev.Kind == KeyCtrlC || (ev.Kind == KeyRune && ev.Ch == 'q')
}
