// Package library finds the animations in a directory and filters them by a
// free-text query.
package library

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Arknight38/Gif-Engine/animdecode"
)

// Entry is one playable file.
type Entry struct {
	Path string `json:"path"`
	// Rel is Path relative to the scanned directory, slash separated.
	Rel     string    `json:"rel"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

type ScanOptions struct {
	// Recursive descends into subdirectories. Hidden directories are skipped.
	Recursive bool
	// Limit caps the number of entries; 0 means no cap.
	Limit int
}

var ErrNotDirectory = errors.New("not a directory")

// Scan lists the files under dir whose extension the decoder dispatches on,
// sorted by name. Unreadable subdirectories are skipped.
func Scan(dir string, opts ScanOptions) ([]Entry, error) {
	if dir == "" {
		dir = "."
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, ErrNotDirectory
	}

	var out []Entry
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == dir {
				return nil
			}
			if !opts.Recursive || strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !animdecode.Supported(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = d.Name()
		}
		out = append(out, Entry{
			Path:    path,
			Rel:     filepath.ToSlash(rel),
			Name:    d.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].Rel < out[j].Rel
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Filter keeps the entries whose relative path contains every word of query,
// ignoring case. An empty query keeps everything.
func Filter(entries []Entry, query string) []Entry {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		hay := strings.ToLower(e.Label())
		match := true
		for _, w := range words {
			if !strings.Contains(hay, w) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}

// Label is the display name for an entry.
func (e Entry) Label() string {
	if e.Rel != "" {
		return e.Rel
	}
	return e.Name
}
