package app

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Arknight38/Gif-Engine/internal/export"
	"github.com/Arknight38/Gif-Engine/internal/model"
	"github.com/Arknight38/Gif-Engine/internal/player"
	"github.com/Arknight38/Gif-Engine/internal/stills"
)

func runPlay(stderr io.Writer, opts model.Options) error {
	playOpts, err := player.OptionsFrom(opts)
	if err != nil {
		return err
	}
	info, frames, err := decodeInput(opts.Input, opts)
	if err != nil {
		return err
	}
	logf(stderr, opts, 1, "%s: %dx%d, %d frames, %s\n",
		inputName(opts.Input), info.Width, info.Height, info.FrameCount, info.Duration)
	return playFn(player.Animation{
		Name:   inputName(opts.Input),
		Info:   info,
		Frames: frames,
	}, playOpts)
}

func runInfo(out io.Writer, stderr io.Writer, opts model.Options, format string, inputs []string) error {
	if len(inputs) == 0 {
		return errors.New("missing input")
	}
	records := make([]infoRecord, 0, len(inputs))
	var failed int
	for _, input := range inputs {
		info, _, err := decodeInput(input, opts)
		if err != nil {
			failed++
			if !opts.Quiet {
				_, _ = fmt.Fprintf(stderr, "%s: %v\n", inputName(input), err)
			}
			continue
		}
		records = append(records, newInfoRecord(input, info))
	}

	w := bufio.NewWriter(out)
	switch resolveOutputFormat(opts.JSON, format, out) {
	case formatJSON:
		if err := renderJSON(w, records); err != nil {
			return err
		}
	case formatTSV:
		renderTSV(w, records)
	default:
		renderPlain(w, shouldUseColor(opts, out), records)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(inputs))
	}
	return nil
}

// runExtract writes a still (StillSet) or a contact sheet.
func runExtract(out io.Writer, opts model.Options) error {
	if opts.StillSet {
		if opts.StillsCount > 0 {
			return errors.New("use still or sheet, not both")
		}
	} else {
		if opts.StillsCount < 1 {
			return errors.New("bad args: --frames must be >= 1")
		}
		if opts.StillsCols < 0 {
			return errors.New("bad args: --cols must be >= 0")
		}
		if opts.StillsPadding < 0 {
			return errors.New("bad args: --padding must be >= 0")
		}
		if opts.TileSize < 0 {
			return errors.New("bad args: --tile must be >= 0")
		}
	}
	if opts.Quality < 0 || opts.Quality > 100 {
		return errors.New("bad args: --quality must be 0-100")
	}
	format, err := stills.FormatFor(opts.OutPath)
	if err != nil {
		return err
	}

	// Stills and sheets need every frame.
	opts.MaxFrames = 0
	_, frames, err := decodeInput(opts.Input, opts)
	if err != nil {
		return err
	}

	eo := stills.EncodeOptions{Quality: float32(opts.Quality), Lossless: opts.Lossless}
	var data []byte
	if opts.StillSet {
		data, _, err = stills.FrameAtBytes(frames, opts.StillAt, format, eo)
	} else {
		data, err = stills.ContactSheetBytes(frames, stills.SheetOptions{
			Count:   opts.StillsCount,
			Columns: opts.StillsCols,
			Padding: opts.StillsPadding,
			MaxTile: opts.TileSize,
		}, format, eo)
	}
	if err != nil {
		return err
	}
	return writeOutput(out, opts.OutPath, data)
}

func runExport(out, stderr io.Writer, opts model.Options, format string) error {
	if opts.OutPath == "" {
		return errors.New("missing output path")
	}
	if opts.FPS < 0 {
		return errors.New("bad args: --fps must be >= 0")
	}
	if opts.Loops < 0 {
		return errors.New("bad args: --loops must be >= 0")
	}
	if opts.Quality < 0 || opts.Quality > 100 {
		return errors.New("bad args: --quality must be 0-100")
	}
	var f export.Format
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto":
		var err error
		if f, err = export.FormatFor(opts.OutPath); err != nil {
			return err
		}
	case "apng":
		f = export.FormatAPNG
	case "webp":
		f = export.FormatWebP
	default:
		return fmt.Errorf("%w: %q", export.ErrUnknownFormat, format)
	}

	info, frames, err := decodeInput(opts.Input, opts)
	if err != nil {
		return err
	}
	logf(stderr, opts, 1, "export %s -> %s (%s, %d frames)\n", inputName(opts.Input), opts.OutPath, f, info.FrameCount)

	var buf bytes.Buffer
	if err := export.Write(&buf, frames, export.Options{
		Format:   f,
		FPS:      opts.FPS,
		Loops:    opts.Loops,
		Quality:  opts.Quality,
		Lossless: opts.Lossless,
	}); err != nil {
		return err
	}
	logf(stderr, opts, 2, "wrote %d bytes\n", buf.Len())
	return writeOutput(out, opts.OutPath, buf.Bytes())
}
