package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func labels(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Label()
	}
	return out
}

func TestScanFlat(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "b.gif", "A.png", "c.apng", "notes.txt", "clip.webm", "sub/d.gif")
	entries, err := Scan(root, ScanOptions{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	got := labels(entries)
	want := []string{"A.png", "b.gif", "c.apng"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if entries[0].Size != 1 {
		t.Fatalf("unexpected size %d", entries[0].Size)
	}
}

func TestScanRecursiveSkipsHidden(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "top.gif", "sub/deep/x.gif", ".cache/y.gif")
	entries, err := Scan(root, ScanOptions{Recursive: true})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	got := labels(entries)
	if len(got) != 2 || got[0] != "top.gif" || got[1] != "sub/deep/x.gif" {
		t.Fatalf("unexpected entries %v", got)
	}
}

func TestScanLimit(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "1.gif", "2.gif", "3.gif")
	entries, err := Scan(root, ScanOptions{Limit: 2})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestScanErrors(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "file.gif")
	if _, err := Scan(filepath.Join(root, "file.gif"), ScanOptions{}); !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("expected ErrNotDirectory, got %v", err)
	}
	if _, err := Scan(filepath.Join(root, "missing"), ScanOptions{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestFilter(t *testing.T) {
	entries := []Entry{
		{Path: "/lib/cats/Happy Cat.gif", Rel: "cats/Happy Cat.gif", Name: "Happy Cat.gif"},
		{Path: "/lib/dogs/happy.png", Rel: "dogs/happy.png", Name: "happy.png"},
		{Path: "/lib/cats/sad.gif", Rel: "cats/sad.gif", Name: "sad.gif"},
		{Path: "/lib/birds.gif", Name: "birds.gif"},
	}
	if got := Filter(entries, "  "); len(got) != 4 {
		t.Fatalf("empty query should keep all, got %d", len(got))
	}
	got := Filter(entries, "HAPPY cats")
	if len(got) != 1 || got[0].Name != "Happy Cat.gif" {
		t.Fatalf("unexpected filter result %v", got)
	}
	if got := Filter(entries, "lib"); len(got) != 0 {
		t.Fatalf("the scan root is not part of the match, got %v", got)
	}
	if got := Filter(entries, "bird"); len(got) != 1 {
		t.Fatalf("entries without Rel match on Name, got %v", got)
	}
}
