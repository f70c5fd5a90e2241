// Package export re-encodes decoded frames as an animated PNG or an animated
// WebP.
package export

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Arknight38/Gif-Engine/animdecode"
	"github.com/cia-rana/goapng"
	_ "github.com/deepteams/webp" // registers the VP8/VP8L frame codecs
	"github.com/deepteams/webp/animation"
)

type Format string

const (
	FormatAPNG Format = "apng"
	FormatWebP Format = "webp"
)

var (
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrMixedAlpha means some frames are opaque and others are not, which the
	// APNG writer cannot express in a single colour type.
	ErrMixedAlpha = errors.New("frames mix opaque and transparent images")
)

// FormatFor picks the encoding from the output path: .png and .apng give
// APNG, .webp gives animated WebP.
func FormatFor(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "apng":
		return FormatAPNG, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

type Options struct {
	Format Format
	// FPS forces a uniform frame rate. 0 keeps the decoded delays.
	FPS float64
	// Loops is the loop count written to the file. 0 loops forever.
	Loops int
	// Quality and Lossless tune WebP output.
	Quality  int
	Lossless bool
}

// Write encodes frames to w.
func Write(w io.Writer, frames []animdecode.Frame, opts Options) error {
	if len(frames) == 0 {
		return animdecode.ErrNoFrames
	}
	switch opts.Format {
	case FormatAPNG:
		return writeAPNG(w, frames, opts)
	case FormatWebP:
		return writeWebP(w, frames, opts)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
}

func frameDelay(f animdecode.Frame, fps float64) time.Duration {
	if fps > 0 {
		return time.Duration(float64(time.Second) / fps)
	}
	return f.Delay
}

// centiseconds rounds d to the APNG delay unit, saturating at the uint16 range.
func centiseconds(d time.Duration) uint16 {
	cs := (d + 5*time.Millisecond) / (10 * time.Millisecond)
	if cs < 0 {
		return 0
	}
	if cs > 0xffff {
		return 0xffff
	}
	return uint16(cs)
}

func writeAPNG(w io.Writer, frames []animdecode.Frame, opts Options) error {
	out := &goapng.APNG{LoopCount: uint32(max(0, opts.Loops))}
	opaque := frames[0].Image().Opaque()
	for i := range frames {
		img := image.Image(frames[i].Image())
		if frames[i].Image().Opaque() != opaque {
			return fmt.Errorf("apng: %w (frame %d); export to .webp instead", ErrMixedAlpha, i)
		}
		out.Image = append(out.Image, &img)
		out.Delay = append(out.Delay, centiseconds(frameDelay(frames[i], opts.FPS)))
	}
	return goapng.EncodeAll(w, out)
}

func writeWebP(w io.Writer, frames []animdecode.Frame, opts Options) error {
	quality := opts.Quality
	if quality <= 0 {
		quality = 75
	}
	enc := animation.NewEncoder(w, frames[0].Width, frames[0].Height, &animation.EncodeOptions{
		LoopCount: max(0, opts.Loops),
		Quality:   quality,
		Lossless:  opts.Lossless,
	})
	for i := range frames {
		if err := enc.AddFrame(frames[i].Image(), frameDelay(frames[i], opts.FPS)); err != nil {
			return fmt.Errorf("webp: frame %d: %w", i, err)
		}
	}
	return enc.Close()
}
