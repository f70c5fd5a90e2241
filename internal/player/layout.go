package player

import (
	"fmt"
	"math"
	"strings"

	"github.com/Arknight38/Gif-Engine/animdecode"
)

// Align picks the screen corner the animation is anchored to.
type Align string

const (
	AlignTopLeft     Align = "top-left"
	AlignTopRight    Align = "top-right"
	AlignBottomLeft  Align = "bottom-left"
	AlignBottomRight Align = "bottom-right"
	AlignCenter      Align = "center"
	AlignCustom      Align = "custom"
)

func ParseAlign(s string) (Align, error) {
	a := Align(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case "":
		return AlignCenter, nil
	case AlignTopLeft, AlignTopRight, AlignBottomLeft, AlignBottomRight, AlignCenter, AlignCustom:
		return a, nil
	}
	return "", fmt.Errorf("unknown alignment %q", s)
}

// Pixel-protocol surfaces do not report the cell size in pixels; these are
// the usual monospace proportions.
const (
	cellWidthPx  = 8
	cellHeightPx = 16
)

// Layout is where and how big the animation is drawn.
type Layout struct {
	// Width and Height are the frame size in pixels after scaling.
	Width  int
	Height int
	// Cols and Rows are the footprint in terminal cells.
	Cols int
	Rows int
	// Row and Col are the 1-based top-left cell.
	Row int
	Col int
}

// ComputeLayout scales the canvas by scale, shrinks it to fit the terminal
// and anchors it per align. x and y are cell offsets from the top-left corner
// for AlignCustom and ignored otherwise.
func ComputeLayout(kind SurfaceKind, canvasW, canvasH int, scale float64, termCols, termRows int, align Align, x, y int) Layout {
	if scale <= 0 {
		scale = 1
	}
	w := max(1, int(math.Round(float64(canvasW)*scale)))
	h := max(1, int(math.Round(float64(canvasH)*scale)))

	maxW, maxH := pixelBox(kind, termCols, termRows)
	w, h = animdecode.FitWithin(w, h, maxW, maxH)

	var l Layout
	l.Width, l.Height = w, h
	l.Cols, l.Rows = footprint(kind, w, h)
	l.Row, l.Col = Place(align, termCols, termRows, l.Cols, l.Rows, x, y)
	return l
}

func pixelBox(kind SurfaceKind, cols, rows int) (int, int) {
	cols, rows = max(1, cols), max(1, rows)
	if kind == SurfaceBlocks {
		return cols, rows * 2
	}
	return cols * cellWidthPx, rows * cellHeightPx
}

func footprint(kind SurfaceKind, w, h int) (int, int) {
	if kind == SurfaceBlocks {
		return w, (h + 1) / 2
	}
	return (w + cellWidthPx - 1) / cellWidthPx, (h + cellHeightPx - 1) / cellHeightPx
}

// Place returns the 1-based top-left cell for a box of boxCols x boxRows.
func Place(align Align, termCols, termRows, boxCols, boxRows, x, y int) (row, col int) {
	right := max(1, termCols-boxCols+1)
	bottom := max(1, termRows-boxRows+1)
	switch align {
	case AlignTopLeft:
		return 1, 1
	case AlignTopRight:
		return 1, right
	case AlignBottomLeft:
		return bottom, 1
	case AlignBottomRight:
		return bottom, right
	case AlignCustom:
		return clamp(1+y, 1, bottom), clamp(1+x, 1, right)
	default:
		return 1 + (bottom-1)/2, 1 + (right-1)/2
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
