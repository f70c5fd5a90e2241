// Package stills pulls single frames and contact sheets out of a decoded
// animation and encodes them as PNG or WebP.
package stills

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/Arknight38/Gif-Engine/animdecode"
	"github.com/deepteams/webp"
	"golang.org/x/image/draw"
)

// Format is an output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

var ErrUnknownFormat = errors.New("unknown output format")

// FormatFor picks the encoding from an output path. Stdout ("-") and paths
// without an extension get PNG.
func FormatFor(path string) (Format, error) {
	if path == "" || path == "-" {
		return FormatPNG, nil
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "", "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// EncodeOptions tune WebP output; PNG ignores them.
type EncodeOptions struct {
	Quality  float32
	Lossless bool
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format Format, opts EncodeOptions) error {
	switch format {
	case FormatPNG, "":
		return png.Encode(w, img)
	case FormatWebP:
		wo := webp.DefaultOptions()
		wo.Lossless = opts.Lossless
		if opts.Quality > 0 {
			wo.Quality = opts.Quality
		}
		return webp.Encode(w, img, wo)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// FrameAt returns the frame on screen at offset at, and its index.
func FrameAt(frames []animdecode.Frame, at time.Duration) (*image.NRGBA, int, error) {
	idx := animdecode.FrameAt(frames, at)
	if idx < 0 {
		return nil, -1, animdecode.ErrNoFrames
	}
	return frames[idx].Image(), idx, nil
}

// FrameAtBytes encodes the frame at offset at.
func FrameAtBytes(frames []animdecode.Frame, at time.Duration, format Format, opts EncodeOptions) ([]byte, int, error) {
	img, idx, err := FrameAt(frames, at)
	if err != nil {
		return nil, -1, err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, opts); err != nil {
		return nil, idx, err
	}
	return buf.Bytes(), idx, nil
}

type SheetOptions struct {
	// Count is how many frames to sample, evenly spaced.
	Count int
	// Columns is the grid width; 0 picks a roughly square grid.
	Columns int
	// Padding is the gap between tiles in pixels.
	Padding int
	// MaxTile caps the longer tile side in pixels; 0 keeps the canvas size.
	MaxTile    int
	Background color.Color
}

// SampleIndices picks count frame indices spread evenly over n frames,
// always including the first. Duplicates are dropped when count > n.
func SampleIndices(n, count int) []int {
	if n <= 0 || count <= 0 {
		return nil
	}
	if count >= n {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, i*n/count)
	}
	return out
}

// ContactSheet lays sampled frames out on a grid.
func ContactSheet(frames []animdecode.Frame, opts SheetOptions) (*image.NRGBA, error) {
	if len(frames) == 0 {
		return nil, animdecode.ErrNoFrames
	}
	if opts.Count < 1 {
		return nil, errors.New("sheet: count must be >= 1")
	}
	if opts.Columns < 0 || opts.Padding < 0 || opts.MaxTile < 0 {
		return nil, errors.New("sheet: columns, padding and max tile must be >= 0")
	}

	picks := SampleIndices(len(frames), opts.Count)
	cols := opts.Columns
	if cols == 0 {
		cols = int(math.Ceil(math.Sqrt(float64(len(picks)))))
	}
	cols = min(cols, len(picks))
	rows := (len(picks) + cols - 1) / cols

	tileW, tileH := frames[0].Width, frames[0].Height
	if opts.MaxTile > 0 {
		tileW, tileH = animdecode.FitWithin(tileW, tileH, opts.MaxTile, opts.MaxTile)
	}

	pad := opts.Padding
	sheetW := cols*tileW + (cols+1)*pad
	sheetH := rows*tileH + (rows+1)*pad
	sheet := image.NewNRGBA(image.Rect(0, 0, sheetW, sheetH))
	if opts.Background != nil {
		draw.Draw(sheet, sheet.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	for i, idx := range picks {
		col, row := i%cols, i/cols
		x := pad + col*(tileW+pad)
		y := pad + row*(tileH+pad)
		dst := image.Rect(x, y, x+tileW, y+tileH)
		src := frames[idx].Image()
		if src.Bounds().Dx() == tileW && src.Bounds().Dy() == tileH {
			draw.Draw(sheet, dst, src, image.Point{}, draw.Over)
			continue
		}
		draw.ApproxBiLinear.Scale(sheet, dst, src, src.Bounds(), draw.Over, nil)
	}
	return sheet, nil
}

// ContactSheetBytes builds and encodes a contact sheet.
func ContactSheetBytes(frames []animdecode.Frame, opts SheetOptions, format Format, eo EncodeOptions) ([]byte, error) {
	sheet, err := ContactSheet(frames, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, sheet, format, eo); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
