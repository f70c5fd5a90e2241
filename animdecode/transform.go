package animdecode

import (
	"image"
	"math"
	"time"

	"golang.org/x/image/draw"
)

// Resize returns a copy of f scaled to width x height. The delay is kept.
func Resize(f Frame, width, height int) Frame {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	src := f.Image()
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return Frame{Pix: dst.Pix, Width: width, Height: height, Delay: f.Delay}
}

// Scale resizes every frame by factor. A factor of 1 (or anything that rounds
// to the current size) returns frames unchanged.
func Scale(frames []Frame, factor float64) []Frame {
	if len(frames) == 0 || factor <= 0 {
		return frames
	}
	w := int(math.Round(float64(frames[0].Width) * factor))
	h := int(math.Round(float64(frames[0].Height) * factor))
	return Fit(frames, w, h)
}

// Fit resizes every frame to exactly width x height.
func Fit(frames []Frame, width, height int) []Frame {
	if len(frames) == 0 {
		return frames
	}
	if frames[0].Width == width && frames[0].Height == height {
		return frames
	}
	out := make([]Frame, len(frames))
	for i := range frames {
		out[i] = Resize(frames[i], width, height)
	}
	return out
}

// FitWithin returns the largest size with the aspect ratio of width x height
// that fits inside maxW x maxH. Sizes that already fit are returned as is.
func FitWithin(width, height, maxW, maxH int) (int, int) {
	if width <= 0 || height <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	if width <= maxW && height <= maxH {
		return width, height
	}
	scale := math.Min(float64(maxW)/float64(width), float64(maxH)/float64(height))
	w := max(1, int(float64(width)*scale))
	h := max(1, int(float64(height)*scale))
	return w, h
}

// FrameAt returns the index of the frame on screen at offset at, looping the
// animation when at runs past its total duration.
func FrameAt(frames []Frame, at time.Duration) int {
	if len(frames) == 0 {
		return -1
	}
	var total time.Duration
	for i := range frames {
		total += frames[i].Delay
	}
	if total <= 0 || at <= 0 {
		return 0
	}
	at %= total
	var acc time.Duration
	for i := range frames {
		acc += frames[i].Delay
		if at < acc {
			return i
		}
	}
	return len(frames) - 1
}
