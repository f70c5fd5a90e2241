// Package player is the standalone playback process: one animation, full
// screen, anchored where the caller asked, until the user quits or the loop
// budget runs out.
package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Arknight38/Gif-Engine/animdecode"
	"github.com/Arknight38/Gif-Engine/internal/model"
	"github.com/Arknight38/Gif-Engine/internal/paint"
	"github.com/Arknight38/Gif-Engine/internal/playback"
	"github.com/Arknight38/Gif-Engine/internal/termio"
)

// Options are the playback overrides accepted on the command line.
type Options struct {
	// FPS forces a uniform frame rate. 0 keeps the authored delays.
	FPS   float64
	Scale float64
	Align Align
	// X and Y are cell offsets used with AlignCustom.
	X       int
	Y       int
	Surface SurfaceKind
	// Loops stops playback after that many full passes. 0 loops forever.
	Loops   int
	Verbose int
	Quiet   bool
}

// Animation is a decoded file ready to play.
type Animation struct {
	Name   string
	Info   animdecode.Info
	Frames []animdecode.Frame
}

func Run(anim Animation, opts Options) error {
	return RunWith(termio.DefaultEnv(), anim, opts)
}

// RunWith plays anim on env, reading keys from env.In.
func RunWith(env termio.Env, anim Animation, opts Options) error {
	env = env.WithDefaults()
	if len(anim.Frames) == 0 {
		return animdecode.ErrNoFrames
	}
	if !env.IsTerminal(env.FD) {
		return termio.ErrNotTerminal
	}
	inputCh := make(chan termio.InputEvent, 16)
	stopCh := make(chan struct{})
	defer close(stopCh)
	go termio.ReadInput(env.In, inputCh, stopCh)
	return Play(env, anim, opts, inputCh)
}

// Play is RunWith for a caller that already owns the key reader, such as the
// library browser handing its input over for a full-screen session.
func Play(env termio.Env, anim Animation, opts Options, inputCh <-chan termio.InputEvent) error {
	env = env.WithDefaults()
	if len(anim.Frames) == 0 {
		return animdecode.ErrNoFrames
	}
	restore, err := env.EnterRaw()
	if err != nil {
		return err
	}
	defer restore()

	out := bufio.NewWriter(env.Out)
	termio.EnterAltScreen(out)
	termio.HideCursor(out)
	termio.ClearScreen(out)

	s := &session{
		env:  env,
		out:  out,
		anim: anim,
		opts: opts,
		kind: ResolveSurface(opts.Surface, env.Getenv),
	}
	defer func() {
		if s.painter != nil {
			ReleaseSurface(s.painter.Surface())
		}
		termio.ShowCursor(out)
		termio.LeaveAltScreen(out)
		_ = out.Flush()
	}()

	s.relayout(s.termSize())

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-env.SignalCh:
			return nil
		case ev := <-inputCh:
			if termio.IsQuit(ev) || ev.Kind == termio.KeyEsc {
				return nil
			}
			continue
		case <-timer.C:
		}

		if cols, rows := s.termSize(); cols != s.cols || rows != s.rows {
			termio.ClearScreen(out)
			s.relayout(cols, rows)
		}

		frame, wait := s.clock.Step(time.Now())
		if opts.Loops > 0 && s.loopsDone+s.clock.Loops() >= opts.Loops {
			return nil
		}
		if frame != nil {
			if err := s.painter.Paint(frame); err != nil {
				s.paintFailed(err)
			}
			_ = out.Flush()
		}
		timer.Reset(wait)
	}
}

type session struct {
	env  termio.Env
	out  *bufio.Writer
	anim Animation
	opts Options
	kind SurfaceKind

	cols      int
	rows      int
	layout    Layout
	painter   *paint.Painter
	clock     *playback.Clock
	loopsDone int
	lastErr   string
}

func (s *session) termSize() (int, int) {
	cols, rows, err := s.env.GetSize(s.env.FD)
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}

// relayout rescales the frames for a new terminal size and restarts the
// clock on a fresh buffer.
func (s *session) relayout(cols, rows int) {
	if s.painter != nil {
		ReleaseSurface(s.painter.Surface())
	}
	if s.clock != nil {
		s.loopsDone += s.clock.Loops()
	}
	s.cols, s.rows = cols, rows
	info := s.anim.Info
	if info.Width <= 0 || info.Height <= 0 {
		info.Width, info.Height = s.anim.Frames[0].Width, s.anim.Frames[0].Height
	}
	s.layout = ComputeLayout(s.kind, info.Width, info.Height, s.opts.Scale, cols, rows, s.opts.Align, s.opts.X, s.opts.Y)

	frames := animdecode.Fit(s.anim.Frames, s.layout.Width, s.layout.Height)
	owned := make([]animdecode.Frame, len(frames))
	copy(owned, frames)
	buf := playback.NewBuffer(owned)
	if s.opts.FPS > 0 {
		buf.OverrideDelay(playback.FrameDelayForFPS(s.opts.FPS))
	}
	s.clock = playback.NewClock(buf, playback.DefaultQuantum)
	s.painter = paint.NewPainter(NewSurface(s.kind, s.out, s.layout))

	s.logf(1, "surface=%s size=%dx%d cells=%dx%d at=%d,%d\n",
		s.kind, s.layout.Width, s.layout.Height, s.layout.Cols, s.layout.Rows, s.layout.Row, s.layout.Col)
}

// paintFailed logs a painter error once per distinct message; playback keeps
// going.
func (s *session) paintFailed(err error) {
	if err.Error() == s.lastErr {
		return
	}
	s.lastErr = err.Error()
	s.logf(0, "paint: %v\n", err)
}

func (s *session) logf(level int, format string, args ...any) {
	logf(s.env.Err, s.opts.Verbose, s.opts.Quiet, level, format, args...)
}

func logf(w io.Writer, verbose int, quiet bool, level int, format string, args ...any) {
	if quiet || verbose < level || w == nil {
		return
	}
	_, _ = fmt.Fprintf(w, format, args...)
}

// OptionsFrom validates the playback flags carried on the command line.
func OptionsFrom(o model.Options) (Options, error) {
	align, err := ParseAlign(o.Align)
	if err != nil {
		return Options{}, err
	}
	kind, err := ParseSurface(o.Surface)
	if err != nil {
		return Options{}, err
	}
	if o.FPS < 0 {
		return Options{}, errors.New("bad args: --fps must be >= 0")
	}
	if o.Scale < 0 {
		return Options{}, errors.New("bad args: --scale must be >= 0")
	}
	if o.Loops < 0 {
		return Options{}, errors.New("bad args: --loops must be >= 0")
	}
	return Options{
		FPS:     o.FPS,
		Scale:   o.Scale,
		Align:   align,
		X:       o.X,
		Y:       o.Y,
		Surface: kind,
		Loops:   o.Loops,
		Verbose: o.Verbose,
		Quiet:   o.Quiet,
	}, nil
}
