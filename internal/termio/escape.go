package termio

import (
	"fmt"
	"io"
)

func MoveCursor(out io.Writer, row, col int) {
	if row < 1 {
		row = 1
	}
	if col < 1 {
		col = 1
	}
	_, _ = fmt.Fprintf(out, "\x1b[%d;%dH", row, col)
}

func SaveCursor(out io.Writer) {
	_, _ = fmt.Fprint(out, "\x1b7")
}

func RestoreCursor(out io.Writer) {
	_, _ = fmt.Fprint(out, "\x1b8")
}

func HideCursor(out io.Writer) {
	_, _ = fmt.Fprint(out, "\x1b[?25l")
}

func ShowCursor(out io.Writer) {
	_, _ = fmt.Fprint(out, "\x1b[?25h")
}

func ClearScreen(out io.Writer) {
	_, _ = fmt.Fprint(out, "\x1b[2J")
}

// ClearImages deletes every kitty graphics image. Other terminals ignore it.
func ClearImages(out io.Writer) {
	_, _ = fmt.Fprint(out, "\x1b_Ga=d,q=2\x1b\\")
}

// EnterAltScreen switches to the alternate buffer so the shell's scrollback
// survives the session.
func EnterAltScreen(out io.Writer) {
	_, _ = fmt.Fprint(out, "\x1b[?1049h")
}

func LeaveAltScreen(out io.Writer) {
	_, _ = fmt.Fprint(out, "\x1b[?1049l")
}
