package player

import (
	"fmt"
	"io"
	"strings"

	"github.com/Arknight38/Gif-Engine/internal/paint"
	"github.com/Arknight38/Gif-Engine/internal/termcaps"
)

type SurfaceKind string

const (
	SurfaceAuto   SurfaceKind = "auto"
	SurfaceBlocks SurfaceKind = "blocks"
	SurfaceKitty  SurfaceKind = "kitty"
	SurfaceIterm  SurfaceKind = "iterm"
)

var detectInline = termcaps.DetectInlineRobust

func ParseSurface(s string) (SurfaceKind, error) {
	k := SurfaceKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "":
		return SurfaceAuto, nil
	case SurfaceAuto, SurfaceBlocks, SurfaceKitty, SurfaceIterm:
		return k, nil
	}
	return "", fmt.Errorf("unknown surface %q", s)
}

// ResolveSurface turns auto into a concrete surface for this terminal.
func ResolveSurface(kind SurfaceKind, getenv func(string) string) SurfaceKind {
	if kind != SurfaceAuto && kind != "" {
		return kind
	}
	switch detectInline(getenv) {
	case termcaps.InlineKitty:
		return SurfaceKitty
	case termcaps.InlineIterm:
		return SurfaceIterm
	default:
		return SurfaceBlocks
	}
}

// imageID is the kitty image id the player and preview draw under.
const imageID = 1

// NewSurface builds the surface for kind at the layout's position.
func NewSurface(kind SurfaceKind, out io.Writer, l Layout) paint.Surface {
	switch kind {
	case SurfaceKitty:
		return paint.NewKittySurface(out, imageID, l.Row, l.Col, l.Cols, l.Rows)
	case SurfaceIterm:
		return paint.NewItermSurface(out, l.Row, l.Col, l.Cols, l.Rows)
	default:
		return paint.NewBlockSurface(out, l.Row, l.Col)
	}
}

// ReleaseSurface clears whatever the surface left on screen that the normal
// screen clear does not remove.
func ReleaseSurface(s paint.Surface) {
	if k, ok := s.(*paint.KittySurface); ok {
		_ = k.Delete()
	}
}
