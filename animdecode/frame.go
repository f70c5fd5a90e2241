// Package animdecode turns animated GIF and APNG files into a flat sequence of
// fully composited RGBA frames.
//
// Every decoder produces the same Frame shape: a straight-alpha RGBA buffer
// covering the whole canvas plus the time the frame stays on screen. Playback
// code never needs to know which format a frame came from.
package animdecode

import (
	"image"
	"time"
)

// Frame is one composited image of an animation.
type Frame struct {
	// Pix holds Width*Height RGBA quadruplets, row-major, not premultiplied.
	Pix    []uint8
	Width  int
	Height int
	Delay  time.Duration
}

// Info summarises a decoded animation.
type Info struct {
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	FrameCount int           `json:"frame_count"`
	Duration   time.Duration `json:"duration"`
}

// Image wraps the frame buffer as an *image.NRGBA. The pixels are shared, not
// copied.
func (f *Frame) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// FPS is the average frame rate implied by the summed delays, or 0 when the
// animation has no duration.
func (i Info) FPS() float64 {
	if i.Duration <= 0 {
		return 0
	}
	return float64(i.FrameCount) / i.Duration.Seconds()
}

func infoFor(frames []Frame, width, height int) Info {
	var total time.Duration
	for i := range frames {
		total += frames[i].Delay
	}
	return Info{
		Width:      width,
		Height:     height,
		FrameCount: len(frames),
		Duration:   total,
	}
}

func frameFromCanvas(canvas []uint8, width, height int, delay time.Duration) Frame {
	pix := make([]uint8, len(canvas))
	copy(pix, canvas)
	return Frame{Pix: pix, Width: width, Height: height, Delay: delay}
}
