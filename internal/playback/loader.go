package playback

import (
	"github.com/Arknight38/Gif-Engine/animdecode"
)

// Result is what one decode produced.
type Result struct {
	Path   string
	Info   animdecode.Info
	Frames []animdecode.Frame
	Err    error
}

var decodeFile = animdecode.DecodeFile

// Loader runs decodes on a worker goroutine and hands the result back through
// a one-shot channel. Starting a new decode drops interest in the previous
// one; that goroutine still runs to completion and its result is discarded.
// Start and Poll must be called from the same goroutine.
type Loader struct {
	opts animdecode.Options
	ch   chan Result
	path string
}

func NewLoader(opts animdecode.Options) *Loader {
	return &Loader{opts: opts}
}

// Start begins decoding path.
func (l *Loader) Start(path string) {
	ch := make(chan Result, 1)
	l.ch = ch
	l.path = path
	opts := l.opts
	decode := decodeFile
	go func() {
		info, frames, err := decode(path, opts)
		ch <- Result{Path: path, Info: info, Frames: frames, Err: err}
	}()
}

// Poll returns the pending result if it has arrived. It never blocks.
func (l *Loader) Poll() (Result, bool) {
	if l.ch == nil {
		return Result{}, false
	}
	select {
	case res := <-l.ch:
		l.ch = nil
		l.path = ""
		return res, true
	default:
		return Result{}, false
	}
}

// Pending reports the path being decoded, or "" when idle.
func (l *Loader) Pending() string {
	return l.path
}

// Cancel drops interest in the in-flight decode.
func (l *Loader) Cancel() {
	l.ch = nil
	l.path = ""
}
