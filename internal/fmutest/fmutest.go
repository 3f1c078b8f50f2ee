// Package fmutest builds FMU archives on disk for tests.
package fmutest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

// Entry is one file written into a test archive, in order.
type Entry struct {
	Name string
	Body string
}

// WriteArchive writes entries into a new zip file under t.TempDir and
// returns its path.
func WriteArchive(t testing.TB, name string, entries ...Entry) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("create entry %s: %v", e.Name, err)
		}
		if _, err := w.Write([]byte(e.Body)); err != nil {
			t.Fatalf("write entry %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}

	return path
}

// WriteFMU writes an archive whose root holds modelDescription.xml with the
// given descriptor, followed by the extra entries.
func WriteFMU(t testing.TB, descriptor string, extra ...Entry) string {
	t.Helper()
	entries := append([]Entry{{Name: "modelDescription.xml", Body: descriptor}}, extra...)
	return WriteArchive(t, "model.fmu", entries...)
}

// WriteFile writes raw bytes that are not a zip container.
func WriteFile(t testing.TB, name string, body []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}
