package animdecode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/kettek/apng"
	"github.com/yumland/pngchunks"
)

// PNG color types from IHDR.
const (
	colorTypeRGB  = 2
	colorTypeRGBA = 6
)

type pngHeader struct {
	Width     int
	Height    int
	BitDepth  uint8
	ColorType uint8
}

// pngLayout is what the chunk scan learns before any pixel is decoded.
type pngLayout struct {
	header    pngHeader
	animated  bool
	numFrames int
	controls  []frameControl
}

func decodeAPNG(r io.Reader, opts Options) (Info, []Frame, error) {
	data, err := readAllLimit(r, opts.MaxBytes)
	if err != nil {
		return Info{}, nil, err
	}
	layout, err := scanPNG(bytes.NewReader(data))
	if err != nil {
		return Info{}, nil, err
	}
	if !layout.animated {
		return Info{}, nil, ErrNotAnimated
	}
	hdr := layout.header
	if hdr.Width <= 0 || hdr.Height <= 0 {
		return Info{}, nil, ErrInvalidSize
	}
	if exceedsPixels(hdr.Width, hdr.Height, opts.MaxPixels) {
		return Info{}, nil, fmt.Errorf("%w: pixels=%d limit=%d", ErrTooLarge, hdr.Width*hdr.Height, opts.MaxPixels)
	}
	if hdr.BitDepth != 8 || (hdr.ColorType != colorTypeRGB && hdr.ColorType != colorTypeRGBA) {
		return Info{}, nil, fmt.Errorf("%w: color type %d, bit depth %d", ErrUnsupportedColorType, hdr.ColorType, hdr.BitDepth)
	}
	if layout.numFrames == 0 || len(layout.controls) == 0 {
		return Info{}, nil, ErrNoFrames
	}

	decoded, err := apng.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return Info{}, nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	images := make([]image.Image, 0, len(decoded.Frames))
	for _, f := range decoded.Frames {
		if f.IsDefault {
			continue
		}
		images = append(images, f.Image)
	}

	n := min(layout.numFrames, len(layout.controls), len(images))
	n = opts.frameLimit(n)
	if n == 0 {
		return Info{}, nil, ErrNoFrames
	}

	comp := newCompositor(hdr.Width, hdr.Height)
	frames := make([]Frame, 0, n)
	for i := 0; i < n; i++ {
		fc := layout.controls[i]
		src, err := toRGBA(images[i], fc.Width, fc.Height)
		if err != nil {
			return Info{}, nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, comp.step(fc, src))
	}
	return infoFor(frames, hdr.Width, hdr.Height), frames, nil
}

// scanPNG walks the chunk list and collects IHDR, acTL and every fcTL in file
// order. Pixel data is left to the frame decoder.
func scanPNG(r io.Reader) (pngLayout, error) {
	var layout pngLayout
	pngr, err := pngchunks.NewReader(r)
	if err != nil {
		return layout, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	seenIHDR := false
	for {
		chunk, err := pngr.NextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return layout, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		typ := string(chunk.Type())
		switch typ {
		case "IHDR", "acTL", "fcTL":
			buf, err := io.ReadAll(chunk)
			if err != nil {
				return layout, fmt.Errorf("%w: %s: %w", ErrDecode, typ, err)
			}
			if err := layout.apply(typ, buf); err != nil {
				return layout, err
			}
			if typ == "IHDR" {
				seenIHDR = true
			}
		default:
			if _, err := io.Copy(io.Discard, chunk); err != nil {
				return layout, fmt.Errorf("%w: %s: %w", ErrDecode, typ, err)
			}
		}
		if typ == "IEND" {
			break
		}
	}
	if !seenIHDR {
		return layout, fmt.Errorf("%w: missing IHDR", ErrDecode)
	}
	return layout, nil
}

func (l *pngLayout) apply(typ string, buf []byte) error {
	switch typ {
	case "IHDR":
		if len(buf) < 13 {
			return fmt.Errorf("%w: short IHDR", ErrDecode)
		}
		l.header = pngHeader{
			Width:     int(binary.BigEndian.Uint32(buf[0:4])),
			Height:    int(binary.BigEndian.Uint32(buf[4:8])),
			BitDepth:  buf[8],
			ColorType: buf[9],
		}
	case "acTL":
		if len(buf) < 8 {
			return fmt.Errorf("%w: short acTL", ErrDecode)
		}
		l.animated = true
		l.numFrames = int(binary.BigEndian.Uint32(buf[0:4]))
	case "fcTL":
		fc, err := parseFrameControl(buf)
		if err != nil {
			return err
		}
		l.controls = append(l.controls, fc)
	}
	return nil
}

// parseFrameControl reads a 26-byte fcTL body:
// seq, width, height, x, y (uint32), delay_num, delay_den (uint16),
// dispose_op, blend_op (uint8).
func parseFrameControl(buf []byte) (frameControl, error) {
	if len(buf) < 26 {
		return frameControl{}, fmt.Errorf("%w: short fcTL", ErrDecode)
	}
	dispose, err := parseDisposeOp(buf[24])
	if err != nil {
		return frameControl{}, err
	}
	blend, err := parseBlendOp(buf[25])
	if err != nil {
		return frameControl{}, err
	}
	return frameControl{
		Width:    int(binary.BigEndian.Uint32(buf[4:8])),
		Height:   int(binary.BigEndian.Uint32(buf[8:12])),
		X:        int(binary.BigEndian.Uint32(buf[12:16])),
		Y:        int(binary.BigEndian.Uint32(buf[16:20])),
		DelayNum: binary.BigEndian.Uint16(buf[20:22]),
		DelayDen: binary.BigEndian.Uint16(buf[22:24]),
		Dispose:  dispose,
		Blend:    blend,
	}, nil
}

// toRGBA flattens a decoded frame region to width*height RGBA bytes. 8-bit
// RGBA is copied as is; 8-bit RGB (which the PNG decoder hands back as an
// opaque *image.RGBA) gets alpha 255.
func toRGBA(img image.Image, width, height int) ([]uint8, error) {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return nil, fmt.Errorf("%w: frame is %dx%d, fcTL says %dx%d", ErrDecode, b.Dx(), b.Dy(), width, height)
	}
	out := make([]uint8, width*height*4)
	switch m := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			off := m.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out[y*width*4:(y+1)*width*4], m.Pix[off:off+width*4])
		}
	case *image.RGBA:
		for y := 0; y < height; y++ {
			off := m.PixOffset(b.Min.X, b.Min.Y+y)
			row := out[y*width*4 : (y+1)*width*4]
			for x := 0; x < width; x++ {
				row[x*4+0] = m.Pix[off+x*4+0]
				row[x*4+1] = m.Pix[off+x*4+1]
				row[x*4+2] = m.Pix[off+x*4+2]
				row[x*4+3] = 0xff
			}
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedColorType, img)
	}
	return out, nil
}
