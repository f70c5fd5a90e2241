package model

import (
	"time"

	"github.com/Arknight38/Gif-Engine/animdecode"
)

const AppName = "gifengine"

const Tagline = "Decode the frames. Keep the beat."

var Version = "0.1.0"

// Options is the resolved command line, passed by value from the CLI layer
// into whichever command runs.
type Options struct {
	Color   string
	Verbose int
	Quiet   bool
	Reveal  bool
	JSON    bool

	// Decode limits. Zero keeps the decoder defaults.
	MaxBytes  int64
	MaxFrames int

	// Playback.
	FPS     float64
	Scale   float64
	Align   string
	X       int
	Y       int
	Surface string
	Loops   int

	// Library browser.
	Dir       string
	Query     string
	Recursive bool

	// Stills and export.
	Input         string
	OutPath       string
	StillAt       time.Duration
	StillSet      bool
	StillsCount   int
	StillsCols    int
	StillsPadding int
	TileSize      int
	Quality       int
	Lossless      bool
}

// DecodeOptions applies the decode limits on top of the decoder defaults.
func (o Options) DecodeOptions() animdecode.Options {
	d := animdecode.DefaultOptions()
	if o.MaxBytes > 0 {
		d.MaxBytes = o.MaxBytes
	}
	if o.MaxFrames > 0 {
		d.MaxFrames = o.MaxFrames
	}
	return d
}
