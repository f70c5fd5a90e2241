package tui

import (
	"bufio"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Arknight38/Gif-Engine/internal/termio"
)

func writeLineAt(out *bufio.Writer, row, col int, text string, width int) {
	termio.MoveCursor(out, row, col)
	if width <= 0 {
		_, _ = fmt.Fprint(out, "\x1b[K")
		return
	}
	_, _ = fmt.Fprint(out, truncateANSI(text, width))
	_, _ = fmt.Fprint(out, "\x1b[K")
}

func styleIf(enabled bool, text string, codes ...string) string {
	if !enabled || text == "" || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + "\x1b[0m"
}

// truncateANSI cuts text to width visible runes. Escape sequences pass through
// untouched and a reset is appended when the cut dropped one.
func truncateANSI(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	visible := 0
	styled := false
	for i := 0; i < len(text); {
		if text[i] == 0x1b {
			end := escapeEnd(text, i)
			b.WriteString(text[i:end])
			styled = true
			i = end
			continue
		}
		if visible == width {
			if styled {
				b.WriteString("\x1b[0m")
			}
			return b.String()
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		b.WriteRune(r)
		visible++
		i += size
	}
	return b.String()
}

// escapeEnd returns the index just past the CSI sequence starting at i.
func escapeEnd(text string, i int) int {
	j := i + 1
	if j < len(text) && text[j] == '[' {
		j++
		for j < len(text) && (text[j] < 0x40 || text[j] > 0x7e) {
			j++
		}
		if j < len(text) {
			j++
		}
		return j
	}
	return min(j+1, len(text))
}
