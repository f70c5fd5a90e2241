// Package termio holds the terminal plumbing shared by the player and the
// library browser: an injectable environment, raw key decoding, and the few
// escape sequences both of them emit.
package termio

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("stdin is not a tty")

// Env is everything a full-screen loop touches. Tests fill in fakes; zero
// fields get the real terminal.
type Env struct {
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
	FD         int
	IsTerminal func(int) bool
	MakeRaw    func(int) (*term.State, error)
	Restore    func(int, *term.State) error
	GetSize    func(int) (int, int, error)
	SignalCh   <-chan os.Signal
	Getenv     func(string) string
}

// DefaultEnv is the real terminal with SIGINT/SIGTERM routed to SignalCh.
func DefaultEnv() Env {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	return Env{SignalCh: sigs}.WithDefaults()
}

func (e Env) WithDefaults() Env {
	if e.In == nil {
		e.In = os.Stdin
	}
	if e.Out == nil {
		e.Out = os.Stdout
	}
	if e.Err == nil {
		e.Err = os.Stderr
	}
	if e.IsTerminal == nil {
		e.IsTerminal = term.IsTerminal
	}
	if e.MakeRaw == nil {
		e.MakeRaw = term.MakeRaw
	}
	if e.Restore == nil {
		e.Restore = term.Restore
	}
	if e.GetSize == nil {
		e.GetSize = term.GetSize
	}
	if e.FD == 0 {
		e.FD = int(os.Stdin.Fd())
	}
	if e.SignalCh == nil {
		e.SignalCh = make(chan os.Signal)
	}
	if e.Getenv == nil {
		e.Getenv = os.Getenv
	}
	return e
}

// EnterRaw checks for a tty and switches it to raw mode. The returned func
// restores the previous state.
func (e Env) EnterRaw() (func(), error) {
	if !e.IsTerminal(e.FD) {
		return nil, ErrNotTerminal
	}
	oldState, err := e.MakeRaw(e.FD)
	if err != nil {
		return nil, err
	}
	return func() {
		if oldState != nil {
			_ = e.Restore(e.FD, oldState)
		}
	}, nil
}
