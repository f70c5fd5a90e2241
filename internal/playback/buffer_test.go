package playback

import (
	"testing"
	"time"

	"github.com/Arknight38/Gif-Engine/animdecode"
)

func makeFrames(delays ...time.Duration) []animdecode.Frame {
	frames := make([]animdecode.Frame, len(delays))
	for i, d := range delays {
		frames[i] = animdecode.Frame{Pix: []uint8{uint8(i), 0, 0, 255}, Width: 1, Height: 1, Delay: d}
	}
	return frames
}

func TestBufferWraps(t *testing.T) {
	buf := NewBuffer(makeFrames(10*time.Millisecond, 20*time.Millisecond, 30*time.Millisecond))
	first := buf.Next()
	for i := 1; i < buf.Len(); i++ {
		buf.Next()
	}
	if again := buf.Next(); again != first {
		t.Fatalf("expected call N+1 to return the first frame")
	}
	if buf.Current() != first {
		t.Fatalf("current should track the last returned frame")
	}
}

func TestBufferOverrideDelay(t *testing.T) {
	buf := NewBuffer(makeFrames(10*time.Millisecond, 20*time.Millisecond))
	buf.OverrideDelay(40 * time.Millisecond)
	buf.OverrideDelay(40 * time.Millisecond)
	for i := 0; i < buf.Len(); i++ {
		if d := buf.Next().Delay; d != 40*time.Millisecond {
			t.Fatalf("frame %d delay = %v", i, d)
		}
	}
}

func TestBufferEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewBuffer(nil).Next()
}

func TestFrameDelayForFPS(t *testing.T) {
	if d := FrameDelayForFPS(25); d != 40*time.Millisecond {
		t.Fatalf("unexpected delay %v", d)
	}
	if d := FrameDelayForFPS(0); d != 0 {
		t.Fatalf("unexpected delay %v", d)
	}
}

func TestBufferIndex(t *testing.T) {
	buf := NewBuffer(makeFrames(time.Millisecond, time.Millisecond, time.Millisecond))
	if buf.Index() != -1 {
		t.Fatalf("expected -1 before Next")
	}
	want := []int{0, 1, 2, 0}
	for i, w := range want {
		buf.Next()
		if got := buf.Index(); got != w {
			t.Fatalf("step %d: index %d want %d", i, got, w)
		}
	}
}
