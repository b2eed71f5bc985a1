// Package testutil builds fixtures shared by package tests: in-memory
// Unihan archives and throwaway store handles.
package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/unihan/internal/store"
)

// Member is one file inside a test archive.
type Member struct {
	Name string
	Data []byte
}

// Lines creates a member whose content is lines joined by "\n", with a
// trailing newline.
func Lines(name string, lines ...string) Member {
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	return Member{Name: name, Data: []byte(content)}
}

// ArchiveBytes builds a zip archive containing members in the given order.
func ArchiveBytes(t *testing.T, members ...Member) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Create(m.Name)
		if err != nil {
			t.Fatalf("create member %s: %v", m.Name, err)
		}
		if _, err := w.Write(m.Data); err != nil {
			t.Fatalf("write member %s: %v", m.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

// Archive builds a zip archive and returns it as a seekable reader.
func Archive(t *testing.T, members ...Member) *bytes.Reader {
	t.Helper()
	return bytes.NewReader(ArchiveBytes(t, members...))
}

// WriteArchive builds a zip archive into a temp dir and returns its path.
func WriteArchive(t *testing.T, members ...Member) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Unihan.zip")
	if err := os.WriteFile(path, ArchiveBytes(t, members...), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

// NewHandle creates a store handle on a fresh database in a temp dir and
// closes it when the test ends.
func NewHandle(t *testing.T, opts ...store.Option) *store.Handle {
	t.Helper()
	h := store.New(filepath.Join(t.TempDir(), "unihan.db"), opts...)
	t.Cleanup(func() { _ = h.Close() })
	return h
}
