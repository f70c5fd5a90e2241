package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/Arknight38/Gif-Engine/animdecode"
)

func withDecodeFile(t *testing.T, fn func(string, animdecode.Options) (animdecode.Info, []animdecode.Frame, error)) {
	t.Helper()
	prev := decodeFile
	decodeFile = fn
	t.Cleanup(func() { decodeFile = prev })
}

func pollUntil(t *testing.T, l *Loader) Result {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if res, ok := l.Poll(); ok {
			return res
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no result")
	return Result{}
}

func TestLoaderDeliversResult(t *testing.T) {
	withDecodeFile(t, func(path string, _ animdecode.Options) (animdecode.Info, []animdecode.Frame, error) {
		return animdecode.Info{FrameCount: 2}, makeFrames(1, 2), nil
	})
	l := NewLoader(animdecode.DefaultOptions())
	if _, ok := l.Poll(); ok {
		t.Fatalf("idle loader returned a result")
	}
	l.Start("a.gif")
	if l.Pending() != "a.gif" {
		t.Fatalf("unexpected pending %q", l.Pending())
	}
	res := pollUntil(t, l)
	if res.Err != nil || res.Path != "a.gif" || len(res.Frames) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if l.Pending() != "" {
		t.Fatalf("loader should be idle after delivering")
	}
	if _, ok := l.Poll(); ok {
		t.Fatalf("result delivered twice")
	}
}

func TestLoaderDropsSupersededResult(t *testing.T) {
	release := make(chan struct{})
	withDecodeFile(t, func(path string, _ animdecode.Options) (animdecode.Info, []animdecode.Frame, error) {
		if path == "slow.gif" {
			<-release
		}
		return animdecode.Info{}, makeFrames(1), nil
	})
	l := NewLoader(animdecode.DefaultOptions())
	l.Start("slow.gif")
	l.Start("fast.gif")
	res := pollUntil(t, l)
	close(release)
	if res.Path != "fast.gif" {
		t.Fatalf("expected fast.gif, got %q", res.Path)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok := l.Poll(); ok {
		t.Fatalf("superseded result leaked through")
	}
}

func TestLoaderReportsError(t *testing.T) {
	withDecodeFile(t, func(string, animdecode.Options) (animdecode.Info, []animdecode.Frame, error) {
		return animdecode.Info{}, nil, animdecode.ErrNoFrames
	})
	l := NewLoader(animdecode.Options{})
	l.Start("x.gif")
	res := pollUntil(t, l)
	if !errors.Is(res.Err, animdecode.ErrNoFrames) {
		t.Fatalf("expected ErrNoFrames, got %v", res.Err)
	}
}

func TestLoaderCancel(t *testing.T) {
	withDecodeFile(t, func(string, animdecode.Options) (animdecode.Info, []animdecode.Frame, error) {
		return animdecode.Info{}, makeFrames(1), nil
	})
	l := NewLoader(animdecode.Options{})
	l.Start("x.gif")
	l.Cancel()
	time.Sleep(10 * time.Millisecond)
	if _, ok := l.Poll(); ok {
		t.Fatalf("cancelled result delivered")
	}
}
