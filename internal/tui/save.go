package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Arknight38/Gif-Engine/internal/reveal"
	"github.com/Arknight38/Gif-Engine/internal/stills"
)

var (
	revealFn    = reveal.Reveal
	writeFileFn = os.WriteFile
)

// saveStill writes the frame currently on screen, at full size, next to the
// source file.
func saveStill(state *appState) {
	if state.current == nil || state.buffer == nil || state.buffer.Index() < 0 {
		state.status = "Nothing to save"
		state.renderDirty = true
		return
	}
	idx := state.buffer.Index()
	res := state.current
	name := stillFilename(res.Path, idx)
	path, err := uniqueFilePath(filepath.Dir(res.Path), name)
	if err != nil {
		state.status = "Save error: " + err.Error()
		state.renderDirty = true
		return
	}
	data, _, err := stills.FrameAtBytes(res.Frames[idx:idx+1], 0, stills.FormatPNG, stills.EncodeOptions{})
	if err == nil {
		err = writeFileFn(path, data, 0o644)
	}
	if err != nil {
		state.status = "Save error: " + err.Error()
		state.renderDirty = true
		return
	}
	state.lastSavedPath = path
	state.status = "Saved " + path
	if state.opts.Reveal {
		if err := revealFn(path); err != nil {
			state.status += " (reveal failed)"
		} else {
			state.status += " (revealed)"
		}
	}
	state.renderDirty = true
}

func revealLast(state *appState) {
	if state.lastSavedPath == "" {
		state.status = "Nothing saved yet"
		state.renderDirty = true
		return
	}
	if err := revealFn(state.lastSavedPath); err != nil {
		state.status = "Reveal error: " + err.Error()
	} else {
		state.status = "Revealed " + state.lastSavedPath
	}
	state.renderDirty = true
}

func stillFilename(source string, frame int) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	name := sanitizeFilename(base)
	const maxBase = 64
	if len(name) > maxBase {
		name = name[:maxBase]
	}
	return fmt.Sprintf("%s-frame%03d.png", name, frame)
}

func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r > unicode.MaxASCII:
			b.WriteRune('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._-")
	if out == "" {
		return "frame"
	}
	return out
}

func uniqueFilePath(dir, filename string) (string, error) {
	path := filepath.Join(dir, filename)
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return path, nil
	}
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	ext := filepath.Ext(filename)
	for i := 1; i < 1000; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, i, ext))
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
	}
	return "", errors.New("could not pick filename")
}
