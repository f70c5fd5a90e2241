// Package reveal shows a written file in the desktop file manager.
package reveal

import (
	"errors"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
)

var (
	execCommand = exec.Command
	lookPath    = exec.LookPath
)

var ErrNoOpener = errors.New("no file manager opener found")

// Reveal selects path in the file manager, or opens its directory when the
// platform tool cannot select a single file. Stdout ("-") is never revealed.
func Reveal(path string) error {
	if path == "" || path == "-" {
		return errors.New("nothing to reveal")
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	name, args, err := commandFor(runtime.GOOS, path)
	if err != nil {
		return err
	}
	c := execCommand(name, args...)
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c.Run()
}

// linuxSelectors can highlight the file itself; the openers below them only
// open the containing directory.
var linuxSelectors = []string{"nautilus", "dolphin", "nemo"}

func commandFor(goos, path string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{"-R", path}, nil
	case "windows":
		return "explorer.exe", []string{"/select," + filepath.Clean(path)}, nil
	}
	for _, fm := range linuxSelectors {
		if _, err := lookPath(fm); err == nil {
			return fm, []string{"--select", path}, nil
		}
	}
	dir := filepath.Dir(path)
	if _, err := lookPath("xdg-open"); err == nil {
		return "xdg-open", []string{dir}, nil
	}
	if _, err := lookPath("gio"); err == nil {
		return "gio", []string{"open", dir}, nil
	}
	return "", nil, ErrNoOpener
}
