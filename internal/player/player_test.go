package player

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Arknight38/Gif-Engine/animdecode"
	"github.com/Arknight38/Gif-Engine/internal/model"
	"github.com/Arknight38/Gif-Engine/internal/paint"
	"github.com/Arknight38/Gif-Engine/internal/termcaps"
	"github.com/Arknight38/Gif-Engine/internal/termio"
	"golang.org/x/term"
)

func testAnim(delays ...time.Duration) Animation {
	frames := make([]animdecode.Frame, len(delays))
	var total time.Duration
	for i, d := range delays {
		pix := make([]uint8, 4*4*4)
		for j := 0; j < len(pix); j += 4 {
			pix[j] = uint8(50 * (i + 1))
			pix[j+3] = 255
		}
		frames[i] = animdecode.Frame{Pix: pix, Width: 4, Height: 4, Delay: d}
		total += d
	}
	return Animation{
		Name:   "test.gif",
		Info:   animdecode.Info{Width: 4, Height: 4, FrameCount: len(frames), Duration: total},
		Frames: frames,
	}
}

func testEnv(in io.Reader, out io.Writer) termio.Env {
	return termio.Env{
		In:         in,
		Out:        out,
		Err:        io.Discard,
		FD:         1,
		IsTerminal: func(int) bool { return true },
		MakeRaw:    func(int) (*term.State, error) { return nil, nil },
		GetSize:    func(int) (int, int, error) { return 40, 20, nil },
		SignalCh:   make(chan os.Signal),
		Getenv:     func(string) string { return "" },
	}
}

func TestRunWithNotTerminal(t *testing.T) {
	env := testEnv(strings.NewReader(""), io.Discard)
	env.IsTerminal = func(int) bool { return false }
	if err := RunWith(env, testAnim(10*time.Millisecond), Options{}); !errors.Is(err, termio.ErrNotTerminal) {
		t.Fatalf("expected ErrNotTerminal, got %v", err)
	}
}

func TestRunWithNoFrames(t *testing.T) {
	env := testEnv(strings.NewReader(""), io.Discard)
	if err := RunWith(env, Animation{}, Options{}); !errors.Is(err, animdecode.ErrNoFrames) {
		t.Fatalf("expected ErrNoFrames, got %v", err)
	}
}

func TestRunWithPlaysLoopsAndStops(t *testing.T) {
	var out bytes.Buffer
	env := testEnv(strings.NewReader(""), &out)
	anim := testAnim(10*time.Millisecond, 10*time.Millisecond)
	done := make(chan error, 1)
	go func() {
		done <- RunWith(env, anim, Options{Surface: SurfaceBlocks, Loops: 2, Align: AlignTopLeft})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("player did not stop after its loop budget")
	}
	text := out.String()
	if strings.Count(text, "\x1b[38;2;50;0;0m") < 2 || !strings.Contains(text, "\x1b[38;2;100;0;0m") {
		t.Fatalf("expected both frames painted: %q", text)
	}
	if !strings.HasSuffix(text, "\x1b[?1049l") {
		t.Fatalf("expected alt screen to be left last")
	}
	if anim.Frames[0].Delay != 10*time.Millisecond {
		t.Fatalf("caller frames mutated")
	}
}

func TestRunWithQuitKey(t *testing.T) {
	var out bytes.Buffer
	env := testEnv(strings.NewReader("q"), &out)
	done := make(chan error, 1)
	go func() {
		done <- RunWith(env, testAnim(time.Hour), Options{Surface: SurfaceKitty, FPS: 1})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("player ignored q")
	}
	if !strings.Contains(out.String(), "a=d,d=I,i=1") {
		t.Fatalf("expected kitty image to be deleted on exit")
	}
}

func TestRunWithSignal(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	sigs <- os.Interrupt
	env := testEnv(strings.NewReader(""), io.Discard)
	env.SignalCh = sigs
	if err := RunWith(env, testAnim(time.Hour), Options{Surface: SurfaceBlocks}); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestPaintFailedLogsOnce(t *testing.T) {
	var errOut bytes.Buffer
	s := &session{env: termio.Env{Err: &errOut}}
	s.paintFailed(paint.ErrBadSize)
	s.paintFailed(paint.ErrBadSize)
	if strings.Count(errOut.String(), "paint:") != 1 {
		t.Fatalf("unexpected log: %q", errOut.String())
	}
	s.opts.Quiet = true
	s.paintFailed(errors.New("other"))
	if strings.Contains(errOut.String(), "other") {
		t.Fatalf("quiet should suppress logs")
	}
}

func TestResolveSurface(t *testing.T) {
	prev := detectInline
	t.Cleanup(func() { detectInline = prev })
	detectInline = func(func(string) string) termcaps.InlineProtocol { return termcaps.InlineKitty }
	if got := ResolveSurface(SurfaceAuto, nil); got != SurfaceKitty {
		t.Fatalf("got %s", got)
	}
	detectInline = func(func(string) string) termcaps.InlineProtocol { return termcaps.InlineNone }
	if got := ResolveSurface(SurfaceAuto, nil); got != SurfaceBlocks {
		t.Fatalf("got %s", got)
	}
	if got := ResolveSurface(SurfaceIterm, nil); got != SurfaceIterm {
		t.Fatalf("explicit surface overridden: %s", got)
	}
	if _, err := ParseSurface("sixel"); err == nil {
		t.Fatalf("expected error for unknown surface")
	}
}

func TestOptionsFrom(t *testing.T) {
	opts, err := OptionsFrom(model.Options{FPS: 12, Align: "bottom-left", Surface: "kitty", Loops: 3, X: 2})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Align != AlignBottomLeft || opts.Surface != SurfaceKitty || opts.FPS != 12 || opts.Loops != 3 || opts.X != 2 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts, err := OptionsFrom(model.Options{}); err != nil || opts.Align != AlignCenter || opts.Surface != SurfaceAuto {
		t.Fatalf("defaults: %+v %v", opts, err)
	}
	if _, err := OptionsFrom(model.Options{Align: "middle"}); err == nil {
		t.Fatalf("expected align error")
	}
	if _, err := OptionsFrom(model.Options{FPS: -1}); err == nil {
		t.Fatalf("expected fps error")
	}
}
