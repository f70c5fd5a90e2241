package animdecode

import (
	"fmt"
	"image"
	"time"
)

// DisposeOp says what happens to a frame's region before the next frame is
// drawn.
type DisposeOp uint8

const (
	DisposeNone DisposeOp = iota
	DisposeBackground
	DisposePrevious
)

func (d DisposeOp) String() string {
	switch d {
	case DisposeNone:
		return "none"
	case DisposeBackground:
		return "background"
	case DisposePrevious:
		return "previous"
	default:
		return fmt.Sprintf("DisposeOp(%d)", uint8(d))
	}
}

// BlendOp says how a frame's pixels combine with the canvas.
type BlendOp uint8

const (
	BlendSource BlendOp = iota
	BlendOver
)

func (b BlendOp) String() string {
	switch b {
	case BlendSource:
		return "source"
	case BlendOver:
		return "over"
	default:
		return fmt.Sprintf("BlendOp(%d)", uint8(b))
	}
}

func parseDisposeOp(v uint8) (DisposeOp, error) {
	if d := DisposeOp(v); d <= DisposePrevious {
		return d, nil
	}
	return 0, fmt.Errorf("%w: dispose_op %d", ErrDecode, v)
}

func parseBlendOp(v uint8) (BlendOp, error) {
	if b := BlendOp(v); b <= BlendOver {
		return b, nil
	}
	return 0, fmt.Errorf("%w: blend_op %d", ErrDecode, v)
}

// frameControl is one fcTL record.
type frameControl struct {
	X, Y          int
	Width, Height int
	DelayNum      uint16
	DelayDen      uint16
	Dispose       DisposeOp
	Blend         BlendOp
}

func (fc frameControl) rect() image.Rectangle {
	return image.Rect(fc.X, fc.Y, fc.X+fc.Width, fc.Y+fc.Height)
}

// delay converts delay_num/delay_den seconds to a duration. A zero
// denominator means hundredths.
func (fc frameControl) delay() time.Duration {
	den := fc.DelayDen
	if den == 0 {
		den = 100
	}
	return time.Duration(fc.DelayNum) * time.Second / time.Duration(den)
}

// compositor owns the canvas for one decode call. Nothing it holds is handed
// out; emitted frames are copies.
type compositor struct {
	width    int
	height   int
	canvas   []uint8
	previous []uint8
	last     *frameControl
}

func newCompositor(width, height int) *compositor {
	return &compositor{
		width:  width,
		height: height,
		canvas: make([]uint8, width*height*4),
	}
}

// step applies one frame: dispose the previous frame, snapshot if this frame
// will restore, blend src into fc's rectangle, emit a copy of the canvas.
// src is fc.Width*fc.Height RGBA pixels.
func (c *compositor) step(fc frameControl, src []uint8) Frame {
	if c.last != nil {
		switch c.last.Dispose {
		case DisposeNone:
		case DisposeBackground:
			c.clearRect(c.last.rect())
		case DisposePrevious:
			if c.previous != nil {
				copy(c.canvas, c.previous)
			}
		}
	}

	if fc.Dispose == DisposePrevious {
		if c.previous == nil {
			c.previous = make([]uint8, len(c.canvas))
		}
		copy(c.previous, c.canvas)
	}

	c.blend(fc, src)

	out := frameFromCanvas(c.canvas, c.width, c.height, fc.delay())
	last := fc
	c.last = &last
	return out
}

func (c *compositor) bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

func (c *compositor) clearRect(r image.Rectangle) {
	r = r.Intersect(c.bounds())
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := (y*c.width + r.Min.X) * 4
		end := (y*c.width + r.Max.X) * 4
		clear(c.canvas[start:end])
	}
}

func (c *compositor) blend(fc frameControl, src []uint8) {
	r := fc.rect().Intersect(c.bounds())
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		srcRow := ((y-fc.Y)*fc.Width + (r.Min.X - fc.X)) * 4
		dstRow := (y*c.width + r.Min.X) * 4
		n := (r.Max.X - r.Min.X) * 4
		s := src[srcRow : srcRow+n]
		d := c.canvas[dstRow : dstRow+n]
		switch fc.Blend {
		case BlendSource:
			copy(d, s)
		case BlendOver:
			blendOver(d, s)
		}
	}
}

// blendOver composites straight-alpha src over straight-alpha dst in place.
// Integer arithmetic, scaled by 255*255, truncating.
func blendOver(dst, src []uint8) {
	for i := 0; i+3 < len(src); i += 4 {
		sa := uint32(src[i+3])
		if sa == 0 {
			continue
		}
		if sa == 255 {
			copy(dst[i:i+4], src[i:i+4])
			continue
		}
		da := uint32(dst[i+3])
		// out_a, scaled by 255*255.
		outA := sa*255 + da*(255-sa)
		if outA == 0 {
			continue
		}
		dw := da * (255 - sa)
		for ch := 0; ch < 3; ch++ {
			num := uint32(src[i+ch])*sa*255 + uint32(dst[i+ch])*dw
			dst[i+ch] = uint8(num / outA)
		}
		dst[i+3] = uint8(outA / 255)
	}
}
