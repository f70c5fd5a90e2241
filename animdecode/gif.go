package animdecode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"time"
)

func decodeGIF(r io.Reader, opts Options) (Info, []Frame, error) {
	data, err := readAllLimit(r, opts.MaxBytes)
	if err != nil {
		return Info{}, nil, err
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return Info{}, nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return gifFrames(g, opts)
}

// gifFrames composites every GIF frame onto a canvas and emits a copy of the
// canvas per frame. GIF palettes carry no partial alpha (a pixel is either
// opaque or the transparent index), so the premultiplied RGBA canvas holds
// the same bytes a straight-alpha one would.
func gifFrames(g *gif.GIF, opts Options) (Info, []Frame, error) {
	if len(g.Image) == 0 {
		return Info{}, nil, ErrNoFrames
	}
	width := g.Config.Width
	height := g.Config.Height
	if width <= 0 || height <= 0 {
		b := g.Image[0].Bounds()
		width, height = b.Max.X, b.Max.Y
	}
	if width <= 0 || height <= 0 {
		return Info{}, nil, ErrInvalidSize
	}
	if exceedsPixels(width, height, opts.MaxPixels) {
		return Info{}, nil, fmt.Errorf("%w: pixels=%d limit=%d", ErrTooLarge, width*height, opts.MaxPixels)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	prev := image.NewRGBA(canvas.Bounds())
	bg := backgroundColor(g)

	limit := opts.frameLimit(len(g.Image))
	frames := make([]Frame, 0, limit)

	for i := 0; i < limit; i++ {
		frame := g.Image[i]
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			copy(prev.Pix, canvas.Pix)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, frameFromCanvas(canvas.Pix, width, height, gifDelay(g, i)))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, prev.Pix)
		}
	}

	return infoFor(frames, width, height), frames, nil
}

// gifDelay is the authored delay, hundredths of a second, unclamped.
func gifDelay(g *gif.GIF, idx int) time.Duration {
	if idx >= len(g.Delay) || g.Delay[idx] < 0 {
		return 0
	}
	return time.Duration(g.Delay[idx]) * 10 * time.Millisecond
}

func backgroundColor(g *gif.GIF) color.Color {
	pal, ok := g.Config.ColorModel.(color.Palette)
	if !ok || len(pal) == 0 {
		return color.Transparent
	}
	idx := int(g.BackgroundIndex)
	if idx < 0 || idx >= len(pal) {
		return color.Transparent
	}
	return pal[idx]
}
