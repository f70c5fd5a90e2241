// Package paint turns decoded frames into premultiplied ARGB pixels and hands
// them to a presentation surface.
package paint

import (
	"errors"
	"fmt"

	"github.com/Arknight38/Gif-Engine/animdecode"
)

var ErrBadSize = errors.New("bad surface size")

// Surface is a presentation target holding one premultiplied 0xAARRGGBB word
// per pixel.
type Surface interface {
	// Resize reallocates the buffer for width x height pixels.
	Resize(width, height int) error
	// Buffer is the pixel store, row-major, width*height long.
	Buffer() []uint32
	// Present makes the buffer visible.
	Present() error
}

// Painter owns a surface and keeps it sized to the frames it paints.
type Painter struct {
	surface Surface
	width   int
	height  int
}

func NewPainter(s Surface) *Painter {
	return &Painter{surface: s}
}

func (p *Painter) Surface() Surface {
	return p.surface
}

// Paint writes f to the surface and presents it.
func (p *Painter) Paint(f *animdecode.Frame) error {
	if f == nil {
		return nil
	}
	if f.Width != p.width || f.Height != p.height {
		if err := p.surface.Resize(f.Width, f.Height); err != nil {
			return fmt.Errorf("resize %dx%d: %w", f.Width, f.Height, err)
		}
		p.width, p.height = f.Width, f.Height
	}
	buf := p.surface.Buffer()
	n := f.Width * f.Height
	if len(buf) < n || len(f.Pix) < n*4 {
		return fmt.Errorf("%w: buffer %d, frame %dx%d", ErrBadSize, len(buf), f.Width, f.Height)
	}
	for i := 0; i < n; i++ {
		px := f.Pix[i*4 : i*4+4 : i*4+4]
		buf[i] = Premultiply(px[0], px[1], px[2], px[3])
	}
	return p.surface.Present()
}

// Premultiply packs straight RGBA as premultiplied 0xAARRGGBB.
func Premultiply(r, g, b, a uint8) uint32 {
	a32 := uint32(a)
	return a32<<24 |
		(uint32(r)*a32/255)<<16 |
		(uint32(g)*a32/255)<<8 |
		uint32(b)*a32/255
}

// Unpack splits a word back into its premultiplied channels.
func Unpack(w uint32) (r, g, b, a uint8) {
	return uint8(w >> 16), uint8(w >> 8), uint8(w), uint8(w >> 24)
}

// pixels is the buffer shared by the concrete surfaces.
type pixels struct {
	width  int
	height int
	buf    []uint32
}

func (p *pixels) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadSize, width, height)
	}
	p.width, p.height = width, height
	if cap(p.buf) >= width*height {
		p.buf = p.buf[:width*height]
		clear(p.buf)
		return nil
	}
	p.buf = make([]uint32, width*height)
	return nil
}

func (p *pixels) Buffer() []uint32 {
	return p.buf
}

// Size is the current buffer size in pixels.
func (p *pixels) Size() (int, int) {
	return p.width, p.height
}

// MemorySurface keeps pixels in memory and counts presents.
type MemorySurface struct {
	pixels
	Presents int
}

func (m *MemorySurface) Present() error {
	m.Presents++
	return nil
}

// At returns the premultiplied word at (x, y).
func (m *MemorySurface) At(x, y int) uint32 {
	return m.buf[y*m.width+x]
}
