// Package archive gives read access to FMU containers: entry listing and
// single-entry extraction without decompressing the rest of the archive.
package archive

import (
	"bytes"
	"fmt"
	"io"

	fmierrors "github.com/halentin/FMI-Viewer/internal/errors"
	"github.com/klauspost/compress/zip"
)

// Archive is an open FMU container. Only the central directory is loaded on
// Open; entry payloads are decompressed on demand.
type Archive struct {
	path   string
	rc     *zip.ReadCloser
	byName map[string]*zip.File
}

// Open reads the central directory of the archive at path.
func Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmierrors.ArchiveError(err, path)
	}

	byName := make(map[string]*zip.File, len(rc.File))
	for _, f := range rc.File {
		// First occurrence wins for duplicated names.
		if _, ok := byName[f.Name]; !ok {
			byName[f.Name] = f
		}
	}

	return &Archive{path: path, rc: rc, byName: byName}, nil
}

// Path returns the filesystem path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Entries returns every entry name in central-directory order.
func (a *Archive) Entries() []string {
	names := make([]string, 0, len(a.rc.File))
	for _, f := range a.rc.File {
		names = append(names, f.Name)
	}
	return names
}

// ReadEntry decompresses the named entry into memory. The boolean is false
// when no such entry exists.
func (a *Archive) ReadEntry(name string) ([]byte, bool, error) {
	f, ok := a.byName[name]
	if !ok {
		return nil, false, nil
	}

	r, err := f.Open()
	if err != nil {
		return nil, true, fmierrors.ArchiveError(fmt.Errorf("open entry %s: %w", name, err), a.path)
	}
	defer r.Close()

	var buf bytes.Buffer
	if f.UncompressedSize64 > 0 && f.UncompressedSize64 < 1<<30 {
		buf.Grow(int(f.UncompressedSize64))
	}
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, true, fmierrors.ArchiveError(fmt.Errorf("read entry %s: %w", name, err), a.path)
	}

	return buf.Bytes(), true, nil
}

// Close releases the underlying file handle.
func (a *Archive) Close() error {
	return a.rc.Close()
}
