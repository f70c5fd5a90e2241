package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"
)

// FakeTransport serves fixture bytes for any request under example.test.
type FakeTransport struct {
	Files map[string][]byte
}

func (t *FakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Host != "example.test" {
		return &http.Response{
			StatusCode: 502,
			Body:       io.NopCloser(strings.NewReader("unexpected host")),
			Request:    req,
		}, nil
	}
	data, ok := t.Files[req.URL.Path]
	if !ok {
		return &http.Response{
			StatusCode: 404,
			Body:       io.NopCloser(strings.NewReader("not found")),
			Request:    req,
		}, nil
	}
	return &http.Response{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": []string{"application/octet-stream"}},
		Body:       io.NopCloser(bytes.NewReader(data)),
		Request:    req,
	}, nil
}

func WithTransport(t *testing.T, rt http.RoundTripper, fn func()) {
	t.Helper()
	prev := http.DefaultTransport
	http.DefaultTransport = rt
	t.Cleanup(func() {
		http.DefaultTransport = prev
	})
	fn()
}

// MakeTestGIF is a 2x2, two frame GIF: a white pixel at (0,0) for 50ms, then
// a white pixel at (1,1) for 70ms. The second frame disposes to background.
func MakeTestGIF() []byte {
	pal := color.Palette{color.Black, color.White}
	frame1 := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	frame2 := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	frame1.SetColorIndex(0, 0, 1)
	frame2.SetColorIndex(1, 1, 1)

	g := &gif.GIF{
		Image:    []*image.Paletted{frame1, frame2},
		Delay:    []int{5, 7},
		Disposal: []byte{gif.DisposalNone, gif.DisposalBackground},
		Config: image.Config{
			Width:      2,
			Height:     2,
			ColorModel: pal,
		},
	}
	var buf bytes.Buffer
	_ = gif.EncodeAll(&buf, g)
	return buf.Bytes()
}

// MakeTestPNG is a plain, single image 2x2 PNG.
func MakeTestPNG() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// APNGFrame is one fcTL plus its pixel data. Pix is always RGBA, Width*Height
// pixels; the writer drops the alpha byte for RGB images.
type APNGFrame struct {
	X, Y          int
	Width, Height int
	DelayNum      uint16
	DelayDen      uint16
	Dispose       uint8
	Blend         uint8
	Pix           []uint8
}

// APNG describes an animated PNG to be written by Encode.
type APNG struct {
	Width     int
	Height    int
	ColorType uint8 // 2 or 6; anything else is written as-is with RGBA-sized rows
	BitDepth  uint8 // 0 means 8
	// NumFrames overrides the acTL frame count. 0 means len(Frames).
	NumFrames int
	// HiddenDefault writes Default as an IDAT image outside the animation
	// and carries every frame in fdAT chunks.
	HiddenDefault bool
	Default       []uint8
	Frames        []APNGFrame
}

// Solid returns w*h RGBA pixels of one colour.
func Solid(w, h int, c color.NRGBA) []uint8 {
	pix := make([]uint8, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
	return pix
}

// Encode writes the APNG. Frame 0's fcTL precedes IDAT unless HiddenDefault
// is set.
func (a APNG) Encode() []byte {
	depth := a.BitDepth
	if depth == 0 {
		depth = 8
	}
	numFrames := a.NumFrames
	if numFrames == 0 {
		numFrames = len(a.Frames)
	}

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(a.Width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(a.Height))
	ihdr[8] = depth
	ihdr[9] = a.ColorType
	writeChunk(&buf, "IHDR", ihdr)

	actl := make([]byte, 8)
	binary.BigEndian.PutUint32(actl[0:4], uint32(numFrames))
	writeChunk(&buf, "acTL", actl)

	seq := uint32(0)
	frames := a.Frames
	if a.HiddenDefault {
		writeChunk(&buf, "IDAT", a.imageData(a.Width, a.Height, a.Default))
	} else if len(frames) > 0 {
		writeChunk(&buf, "fcTL", frameControl(seq, frames[0]))
		seq++
		writeChunk(&buf, "IDAT", a.imageData(frames[0].Width, frames[0].Height, frames[0].Pix))
		frames = frames[1:]
	}
	for _, f := range frames {
		writeChunk(&buf, "fcTL", frameControl(seq, f))
		seq++
		body := make([]byte, 4)
		binary.BigEndian.PutUint32(body, seq)
		seq++
		body = append(body, a.imageData(f.Width, f.Height, f.Pix)...)
		writeChunk(&buf, "fdAT", body)
	}
	writeChunk(&buf, "IEND", nil)
	return buf.Bytes()
}

func (a APNG) imageData(w, h int, pix []uint8) []byte {
	bpp := 4
	if a.ColorType == 2 {
		bpp = 3
	}
	raw := make([]byte, 0, h*(1+w*bpp))
	for y := 0; y < h; y++ {
		raw = append(raw, 0) // filter: none
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			var px [4]uint8
			if i+3 < len(pix) {
				copy(px[:], pix[i:i+4])
			}
			raw = append(raw, px[:bpp]...)
		}
	}
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	_, _ = zw.Write(raw)
	_ = zw.Close()
	return z.Bytes()
}

func frameControl(seq uint32, f APNGFrame) []byte {
	b := make([]byte, 26)
	binary.BigEndian.PutUint32(b[0:4], seq)
	binary.BigEndian.PutUint32(b[4:8], uint32(f.Width))
	binary.BigEndian.PutUint32(b[8:12], uint32(f.Height))
	binary.BigEndian.PutUint32(b[12:16], uint32(f.X))
	binary.BigEndian.PutUint32(b[16:20], uint32(f.Y))
	binary.BigEndian.PutUint16(b[20:22], f.DelayNum)
	binary.BigEndian.PutUint16(b[22:24], f.DelayDen)
	b[24] = f.Dispose
	b[25] = f.Blend
	return b
}

func writeChunk(w *bytes.Buffer, typ string, data []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(data)))
	w.Write(n[:])
	crc := crc32.NewIEEE()
	_, _ = io.WriteString(crc, typ)
	_, _ = crc.Write(data)
	w.WriteString(typ)
	w.Write(data)
	binary.BigEndian.PutUint32(n[:], crc.Sum32())
	w.Write(n[:])
}
