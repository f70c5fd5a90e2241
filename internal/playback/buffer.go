// Package playback owns the timing side of an animation: a cyclic frame
// buffer, a drift-corrected clock, and an async loader that moves decoding
// off the loop goroutine.
package playback

import (
	"time"

	"github.com/Arknight38/Gif-Engine/animdecode"
)

// Buffer cycles through a decoded frame sequence. It is not safe for
// concurrent use; one loop owns it.
type Buffer struct {
	frames  []animdecode.Frame
	cursor  int
	current *animdecode.Frame
}

// NewBuffer takes ownership of frames.
func NewBuffer(frames []animdecode.Frame) *Buffer {
	return &Buffer{frames: frames}
}

// Next returns the frame at the cursor and advances it, wrapping at the end.
// Decoders never return an empty sequence without an error, so calling Next
// on an empty buffer panics.
func (b *Buffer) Next() *animdecode.Frame {
	if len(b.frames) == 0 {
		panic("playback: Next on empty buffer")
	}
	f := &b.frames[b.cursor]
	b.cursor = (b.cursor + 1) % len(b.frames)
	b.current = f
	return f
}

// Current is the frame most recently returned by Next, or nil.
func (b *Buffer) Current() *animdecode.Frame {
	return b.current
}

// Index is the position of Current in the sequence, or -1 before the first
// Next.
func (b *Buffer) Index() int {
	if b.current == nil {
		return -1
	}
	return (b.cursor - 1 + len(b.frames)) % len(b.frames)
}

// OverrideDelay sets every frame's delay to d.
func (b *Buffer) OverrideDelay(d time.Duration) {
	for i := range b.frames {
		b.frames[i].Delay = d
	}
}

func (b *Buffer) Len() int {
	return len(b.frames)
}

// Frames exposes the underlying sequence, for callers that re-encode or
// sample it.
func (b *Buffer) Frames() []animdecode.Frame {
	return b.frames
}

// FrameDelayForFPS converts a target frame rate to a per-frame delay.
// Non-positive rates yield 0.
func FrameDelayForFPS(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
