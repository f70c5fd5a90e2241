package tui

import (
	"github.com/Arknight38/Gif-Engine/internal/library"
	"github.com/Arknight38/Gif-Engine/internal/model"
	"github.com/Arknight38/Gif-Engine/internal/paint"
	"github.com/Arknight38/Gif-Engine/internal/playback"
	"github.com/Arknight38/Gif-Engine/internal/player"
	"github.com/Arknight38/Gif-Engine/internal/termio"
)

type mode int

const (
	modeBrowse mode = iota
	modeQuery
)

// box is a region of the screen in cells, 1-based.
type box struct {
	row, col   int
	cols, rows int
}

type appState struct {
	root     string
	all      []library.Entry
	entries  []library.Entry
	query    string
	selected int
	scroll   int
	mode     mode
	status   string

	renderDirty bool
	lastRows    int
	lastCols    int
	useColor    bool
	opts        model.Options
	playOpts    player.Options
	kind        player.SurfaceKind

	env   termio.Env
	input <-chan termio.InputEvent

	loader  *playback.Loader
	cache   map[string]playback.Result
	current *playback.Result
	// fps overrides the authored delays when > 0.
	fps float64

	previewBox   box
	layout       player.Layout
	clock        *playback.Clock
	buffer       *playback.Buffer
	painter      *paint.Painter
	previewDirty bool

	lastSavedPath string
}
