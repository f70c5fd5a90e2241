package app

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Arknight38/Gif-Engine/internal/model"
	"github.com/Arknight38/Gif-Engine/internal/player"
	"github.com/Arknight38/Gif-Engine/internal/reveal"
	"github.com/Arknight38/Gif-Engine/internal/tui"
	"github.com/alecthomas/kong"
)

var (
	playFn   = player.Run
	tuiFn    = tui.Run
	revealFn = reveal.Reveal
)

type CLI struct {
	Globals Globals `embed:""`

	Play   PlayCmd   `cmd:"" help:"Play an animation in the terminal."`
	TUI    TUICmd    `cmd:"" help:"Browse a directory of animations with a live preview."`
	Info   InfoCmd   `cmd:"" help:"Print size, frame count and timing."`
	Still  StillCmd  `cmd:"" help:"Extract a single frame as PNG or WebP."`
	Sheet  SheetCmd  `cmd:"" help:"Generate a contact sheet of sampled frames."`
	Export ExportCmd `cmd:"" help:"Re-encode as animated PNG or animated WebP."`
}

type Globals struct {
	Color     string           `help:"Color output." enum:"auto,always,never" default:"auto"`
	NoColor   bool             `help:"Disable color output."`
	Reveal    bool             `help:"Reveal output file in file manager."`
	Verbose   int              `help:"Verbose stderr logs (-vv for more)." short:"v" type:"counter"`
	Quiet     bool             `help:"Suppress non-essential stderr output." short:"q"`
	MaxBytes  int64            `help:"Refuse inputs larger than this many bytes (0 = default)." name:"max-bytes" default:"0"`
	MaxFrames int              `help:"Decode at most this many frames (0 = all)." name:"max-frames" default:"0"`
	Version   kong.VersionFlag `help:"Show version."`
}

func (g Globals) toOptions() model.Options {
	color := g.Color
	if g.NoColor {
		color = "never"
	}
	return model.Options{
		Color:     color,
		Reveal:    g.Reveal,
		Verbose:   g.Verbose,
		Quiet:     g.Quiet,
		MaxBytes:  g.MaxBytes,
		MaxFrames: g.MaxFrames,
	}
}

// PlaybackFlags are shared by play and tui.
type PlaybackFlags struct {
	FPS     float64 `help:"Force a frame rate (0 = authored delays)." name:"fps" default:"0"`
	Surface string  `help:"Drawing surface." enum:"auto,blocks,kitty,iterm" default:"auto"`
}

type PlayCmd struct {
	PlaybackFlags `embed:""`

	Scale float64 `help:"Scale factor applied before fitting to the terminal." default:"1"`
	Align string  `help:"Anchor." enum:"top-left,top-right,bottom-left,bottom-right,center,custom" default:"center"`
	X     int     `help:"Column offset for --align custom." name:"x" default:"0"`
	Y     int     `help:"Row offset for --align custom." name:"y" default:"0"`
	Loops int     `help:"Stop after N loops (0 = forever)." default:"0"`

	Input string `arg:"" name:"input" help:"Animation path or URL."`
}

func (c *PlayCmd) Run(ctx *kong.Context, cli *CLI) error {
	opts := cli.Globals.toOptions()
	opts.Input = c.Input
	opts.FPS = c.FPS
	opts.Surface = c.Surface
	opts.Scale = c.Scale
	opts.Align = c.Align
	opts.X = c.X
	opts.Y = c.Y
	opts.Loops = c.Loops
	return runPlay(ctx.Stderr, opts)
}

type TUICmd struct {
	PlaybackFlags `embed:""`

	Recursive bool   `help:"Include subdirectories." short:"r"`
	Query     string `help:"Initial filter."`

	Dir string `arg:"" optional:"" name:"dir" help:"Directory to browse (default: current)."`
}

func (c *TUICmd) Run(_ *kong.Context, cli *CLI) error {
	opts := cli.Globals.toOptions()
	opts.Dir = c.Dir
	opts.FPS = c.FPS
	opts.Surface = c.Surface
	opts.Recursive = c.Recursive
	opts.Query = strings.TrimSpace(c.Query)
	return tuiFn(opts)
}

type InfoCmd struct {
	JSON   bool   `help:"Emit a JSON array."`
	Format string `help:"Output format." enum:"auto,plain,tsv,json" default:"auto"`

	Inputs []string `arg:"" name:"input" help:"Animation paths or URLs."`
}

func (c *InfoCmd) Run(ctx *kong.Context, cli *CLI) error {
	opts := cli.Globals.toOptions()
	opts.JSON = c.JSON
	return runInfo(ctx.Stdout, ctx.Stderr, opts, c.Format, c.Inputs)
}

type StillCmd struct {
	At       DurationValue `help:"Timestamp (e.g. 1.5s or 1.5)." name:"at" required:""`
	Output   string        `help:"Output path (.png or .webp) or '-' for stdout." name:"output" short:"o" default:"still.png"`
	Quality  int           `help:"WebP quality 1-100." default:"90"`
	Lossless bool          `help:"Lossless WebP."`

	Input string `arg:"" name:"input" help:"Animation path or URL."`
}

func (c *StillCmd) Run(ctx *kong.Context, cli *CLI) error {
	opts := cli.Globals.toOptions()
	opts.Input = c.Input
	opts.StillSet = true
	opts.StillAt = time.Duration(c.At)
	opts.OutPath = c.Output
	opts.Quality = c.Quality
	opts.Lossless = c.Lossless
	return finish(opts, runExtract(ctx.Stdout, opts))
}

type SheetCmd struct {
	Frames   int    `help:"Number of frames to sample." name:"frames" default:"12"`
	Cols     int    `help:"Columns (0 = auto)." name:"cols" default:"0"`
	Padding  int    `help:"Padding between frames (px)." name:"padding" default:"2"`
	Tile     int    `help:"Longest tile side in px (0 = original size)." name:"tile" default:"0"`
	Output   string `help:"Output path (.png or .webp) or '-' for stdout." name:"output" short:"o" default:"sheet.png"`
	Quality  int    `help:"WebP quality 1-100." default:"90"`
	Lossless bool   `help:"Lossless WebP."`

	Input string `arg:"" name:"input" help:"Animation path or URL."`
}

func (c *SheetCmd) Run(ctx *kong.Context, cli *CLI) error {
	opts := cli.Globals.toOptions()
	opts.Input = c.Input
	opts.StillsCount = c.Frames
	opts.StillsCols = c.Cols
	opts.StillsPadding = c.Padding
	opts.TileSize = c.Tile
	opts.OutPath = c.Output
	opts.Quality = c.Quality
	opts.Lossless = c.Lossless
	return finish(opts, runExtract(ctx.Stdout, opts))
}

type ExportCmd struct {
	Output   string  `help:"Output path (.png, .apng or .webp)." name:"output" short:"o" required:""`
	Format   string  `help:"Output format (auto = from the output extension)." enum:"auto,apng,webp" default:"auto"`
	FPS      float64 `help:"Force a frame rate (0 = keep delays)." name:"fps" default:"0"`
	Loops    int     `help:"Loop count written to the file (0 = forever)." default:"0"`
	Quality  int     `help:"WebP quality 1-100." default:"75"`
	Lossless bool    `help:"Lossless WebP."`

	Input string `arg:"" name:"input" help:"Animation path or URL."`
}

func (c *ExportCmd) Run(ctx *kong.Context, cli *CLI) error {
	opts := cli.Globals.toOptions()
	opts.Input = c.Input
	opts.OutPath = c.Output
	opts.FPS = c.FPS
	opts.Loops = c.Loops
	opts.Quality = c.Quality
	opts.Lossless = c.Lossless
	return finish(opts, runExport(ctx.Stdout, ctx.Stderr, opts, c.Format))
}

// finish reveals the written file when --reveal was given.
func finish(opts model.Options, err error) error {
	if err != nil {
		return err
	}
	if opts.Reveal && opts.OutPath != "-" {
		return revealFn(opts.OutPath)
	}
	return nil
}

// DurationValue accepts Go durations ("1.5s", "200ms") or bare seconds.
type DurationValue time.Duration

func (d *DurationValue) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		return errors.New("empty duration")
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if secs < 0 {
			return fmt.Errorf("negative duration %q", s)
		}
		*d = DurationValue(time.Duration(secs * float64(time.Second)))
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("bad duration %q", s)
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", s)
	}
	*d = DurationValue(v)
	return nil
}

func logf(w io.Writer, opts model.Options, level int, format string, args ...any) {
	if opts.Quiet || opts.Verbose < level || w == nil {
		return
	}
	_, _ = fmt.Fprintf(w, format, args...)
}
