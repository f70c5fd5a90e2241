package paint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
)

const kittyChunk = 4096

// BlockSurface draws on a truecolor terminal with the upper half block: each
// cell shows the top pixel as foreground and the one below as background, so
// a frame H pixels tall takes (H+1)/2 rows. The premultiplied colour is the
// pixel composited over black, which is what a dark terminal shows anyway.
type BlockSurface struct {
	pixels
	Out io.Writer
	// Row and Col are the 1-based cell of the top-left corner.
	Row int
	Col int
}

// NewBlockSurface places the surface's top-left corner at row, col.
func NewBlockSurface(out io.Writer, row, col int) *BlockSurface {
	return &BlockSurface{Out: out, Row: row, Col: col}
}

// Cells is the size of the drawn area in terminal cells.
func (s *BlockSurface) Cells() (cols, rows int) {
	return s.width, (s.height + 1) / 2
}

func (s *BlockSurface) Present() error {
	if s.Out == nil || len(s.buf) == 0 {
		return nil
	}
	var b bytes.Buffer
	rows := (s.height + 1) / 2
	b.Grow(rows * s.width * 24)
	for cy := 0; cy < rows; cy++ {
		cursorTo(&b, s.Row+cy, s.Col)
		lastFG, lastBG := ^uint32(0), ^uint32(0)
		top := s.buf[2*cy*s.width : (2*cy+1)*s.width]
		var bottom []uint32
		if 2*cy+1 < s.height {
			bottom = s.buf[(2*cy+1)*s.width : (2*cy+2)*s.width]
		}
		for x := 0; x < s.width; x++ {
			fg := top[x] & 0xffffff
			bg := uint32(0)
			if bottom != nil {
				bg = bottom[x] & 0xffffff
			}
			if fg != lastFG {
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm", fg>>16, (fg>>8)&0xff, fg&0xff)
				lastFG = fg
			}
			if bg != lastBG {
				fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm", bg>>16, (bg>>8)&0xff, bg&0xff)
				lastBG = bg
			}
			b.WriteString("▀")
		}
		b.WriteString("\x1b[0m")
	}
	_, err := s.Out.Write(b.Bytes())
	return err
}

// KittySurface sends frames with the kitty graphics protocol. Every present
// retransmits the image under the same id, which replaces the previous one
// in place.
type KittySurface struct {
	pixels
	Out io.Writer
	ID  uint32
	// Row and Col are the 1-based cell of the top-left corner.
	Row int
	Col int
	// Cols and Rows size the placement in cells. Zero keeps the image's
	// native size.
	Cols int
	Rows int
}

func NewKittySurface(out io.Writer, id uint32, row, col, cols, rows int) *KittySurface {
	return &KittySurface{Out: out, ID: id, Row: row, Col: col, Cols: cols, Rows: rows}
}

func (s *KittySurface) Present() error {
	if s.Out == nil || len(s.buf) == 0 {
		return nil
	}
	rgb := make([]byte, 0, len(s.buf)*3)
	for _, w := range s.buf {
		rgb = append(rgb, byte(w>>16), byte(w>>8), byte(w))
	}
	payload := base64.StdEncoding.EncodeToString(rgb)

	var b bytes.Buffer
	b.Grow(len(payload) + 64 + len(payload)/kittyChunk*8)
	cursorTo(&b, s.Row, s.Col)
	header := fmt.Sprintf("a=T,f=24,s=%d,v=%d,i=%d,q=2,C=1", s.width, s.height, s.ID)
	if s.Cols > 0 && s.Rows > 0 {
		header += fmt.Sprintf(",c=%d,r=%d", s.Cols, s.Rows)
	}
	for i := 0; i < len(payload); i += kittyChunk {
		end := min(i+kittyChunk, len(payload))
		more := 0
		if end < len(payload) {
			more = 1
		}
		if i == 0 {
			fmt.Fprintf(&b, "\x1b_G%s,m=%d;%s\x1b\\", header, more, payload[i:end])
		} else {
			fmt.Fprintf(&b, "\x1b_Gm=%d;%s\x1b\\", more, payload[i:end])
		}
	}
	_, err := s.Out.Write(b.Bytes())
	return err
}

// Delete removes the image and its placements from the terminal.
func (s *KittySurface) Delete() error {
	if s.Out == nil {
		return nil
	}
	_, err := fmt.Fprintf(s.Out, "\x1b_Ga=d,d=I,i=%d,q=2\x1b\\", s.ID)
	return err
}

func cursorTo(b *bytes.Buffer, row, col int) {
	if row < 1 {
		row = 1
	}
	if col < 1 {
		col = 1
	}
	fmt.Fprintf(b, "\x1b[%d;%dH", row, col)
}

// ItermSurface sends each present as an inline PNG with the iTerm2 file
// escape. The words are already premultiplied, which is exactly the layout
// of image.RGBA.
type ItermSurface struct {
	pixels
	Out io.Writer
	// Row and Col are the 1-based cell of the top-left corner.
	Row int
	Col int
	// Cols and Rows size the image in cells. Zero keeps the native size.
	Cols int
	Rows int
}

func NewItermSurface(out io.Writer, row, col, cols, rows int) *ItermSurface {
	return &ItermSurface{Out: out, Row: row, Col: col, Cols: cols, Rows: rows}
}

func (s *ItermSurface) Present() error {
	if s.Out == nil || len(s.buf) == 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for i, w := range s.buf {
		r, g, b, a := Unpack(w)
		img.Pix[i*4+0] = r
		img.Pix[i*4+1] = g
		img.Pix[i*4+2] = b
		img.Pix[i*4+3] = a
	}
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		return err
	}

	var b bytes.Buffer
	cursorTo(&b, s.Row, s.Col)
	fmt.Fprintf(&b, "\x1b]1337;File=inline=1;size=%d;preserveAspectRatio=1", encoded.Len())
	if s.Cols > 0 && s.Rows > 0 {
		fmt.Fprintf(&b, ";width=%d;height=%d", s.Cols, s.Rows)
	}
	b.WriteString(":")
	b.WriteString(base64.StdEncoding.EncodeToString(encoded.Bytes()))
	b.WriteString("\a")
	_, err := s.Out.Write(b.Bytes())
	return err
}
