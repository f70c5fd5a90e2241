package playback

import (
	"testing"
	"time"
)

func TestClockFirstStepShowsFirstFrame(t *testing.T) {
	buf := NewBuffer(makeFrames(100*time.Millisecond, 100*time.Millisecond))
	clock := NewClock(buf, 0)
	now := time.Unix(0, 0)
	f, wait := clock.Step(now)
	if f == nil || f.Pix[0] != 0 {
		t.Fatalf("expected frame 0")
	}
	if wait != 100*time.Millisecond {
		t.Fatalf("unexpected wait %v", wait)
	}
}

func TestClockWaitsUntilDue(t *testing.T) {
	buf := NewBuffer(makeFrames(100*time.Millisecond, 100*time.Millisecond))
	clock := NewClock(buf, 0)
	start := time.Unix(0, 0)
	clock.Step(start)
	f, wait := clock.Step(start.Add(60 * time.Millisecond))
	if f != nil {
		t.Fatalf("advanced too early")
	}
	if wait != 40*time.Millisecond {
		t.Fatalf("unexpected wait %v", wait)
	}
	f, _ = clock.Step(start.Add(100 * time.Millisecond))
	if f == nil || f.Pix[0] != 1 {
		t.Fatalf("expected frame 1 at 100ms")
	}
}

func TestClockDoesNotDrift(t *testing.T) {
	buf := NewBuffer(makeFrames(100*time.Millisecond, 100*time.Millisecond))
	clock := NewClock(buf, 0)
	start := time.Unix(0, 0)
	clock.Step(start)
	// Late by 15ms: the next frame is still due at 200ms, not 215ms.
	if f, _ := clock.Step(start.Add(115 * time.Millisecond)); f == nil {
		t.Fatalf("expected advance")
	}
	f, wait := clock.Step(start.Add(190 * time.Millisecond))
	if f != nil {
		t.Fatalf("advanced too early")
	}
	if wait != 10*time.Millisecond {
		t.Fatalf("unexpected wait %v", wait)
	}
	if f, _ := clock.Step(start.Add(200 * time.Millisecond)); f == nil {
		t.Fatalf("expected advance at 200ms")
	}
}

func TestClockResetsAfterStall(t *testing.T) {
	buf := NewBuffer(makeFrames(100*time.Millisecond, 100*time.Millisecond, 100*time.Millisecond))
	clock := NewClock(buf, 0)
	start := time.Unix(0, 0)
	clock.Step(start)
	stalled := start.Add(5 * time.Second)
	if f, _ := clock.Step(stalled); f == nil || f.Pix[0] != 1 {
		t.Fatalf("expected a single advance after stall")
	}
	if f, _ := clock.Step(stalled.Add(time.Millisecond)); f != nil {
		t.Fatalf("stall caused a burst of frames")
	}
	if f, _ := clock.Step(stalled.Add(100 * time.Millisecond)); f == nil || f.Pix[0] != 2 {
		t.Fatalf("expected next frame one delay after the stall")
	}
}

func TestClockZeroDelayWaitsQuantum(t *testing.T) {
	buf := NewBuffer(makeFrames(0, 0))
	clock := NewClock(buf, 0)
	now := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		_, wait := clock.Step(now)
		if wait < DefaultQuantum {
			t.Fatalf("wait %v below quantum", wait)
		}
		now = now.Add(wait)
	}
	if clock.Loops() == 0 {
		t.Fatalf("expected playback to wrap")
	}
}

func TestClockCustomQuantum(t *testing.T) {
	buf := NewBuffer(makeFrames(time.Millisecond))
	clock := NewClock(buf, 25*time.Millisecond)
	if _, wait := clock.Step(time.Unix(0, 0)); wait != 25*time.Millisecond {
		t.Fatalf("unexpected wait %v", wait)
	}
}
