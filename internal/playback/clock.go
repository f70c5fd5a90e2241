package playback

import (
	"time"

	"github.com/Arknight38/Gif-Engine/animdecode"
)

// DefaultQuantum is the shortest wait Step ever asks for.
const DefaultQuantum = 10 * time.Millisecond

// Clock decides when the buffer advances. The advance time moves by the
// frame's delay rather than to "now" so rounding in the caller's timer does
// not accumulate; after a stall longer than a frame it snaps to now instead of
// replaying the missed frames.
type Clock struct {
	buf     *Buffer
	quantum time.Duration
	last    time.Time
	started bool
	loops   int
}

func NewClock(buf *Buffer, quantum time.Duration) *Clock {
	if quantum <= 0 {
		quantum = DefaultQuantum
	}
	return &Clock{buf: buf, quantum: quantum}
}

// Step runs one scheduling tick at now. It returns the frame to paint, or nil
// when the current frame is still due, and how long the caller should wait
// before the next tick.
func (c *Clock) Step(now time.Time) (*animdecode.Frame, time.Duration) {
	if !c.started {
		c.started = true
		c.last = now
		f := c.buf.Next()
		return f, c.wait(f.Delay, now)
	}

	cur := c.buf.Current()
	delay := cur.Delay
	if now.Sub(c.last) < delay {
		return nil, c.wait(delay, now)
	}

	f := c.buf.Next()
	if f == &c.buf.frames[0] {
		c.loops++
	}
	c.last = c.last.Add(delay)
	if now.Sub(c.last) > delay {
		c.last = now
	}
	return f, c.wait(f.Delay, now)
}

// Loops counts how many times playback wrapped back to the first frame.
func (c *Clock) Loops() int {
	return c.loops
}

// Reset makes the next Step show the buffer's next frame immediately.
func (c *Clock) Reset() {
	c.started = false
	c.last = time.Time{}
}

func (c *Clock) wait(delay time.Duration, now time.Time) time.Duration {
	remaining := c.last.Add(delay).Sub(now)
	if remaining < c.quantum {
		return c.quantum
	}
	return remaining
}
