package storage

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// Static asset sources selectable with APP_STATIC.
const (
	SourceEmbed = "embed"
	SourceDisk  = "disk"
)

// NewStaticFs returns a read-only filesystem rooted at the static assets.
// With SourceEmbed the assets come from the "static" directory of embedded,
// otherwise they are read from diskRoot so edits show up without a rebuild.
func NewStaticFs(source string, embedded fs.FS, diskRoot string) (afero.Fs, error) {
	switch source {
	case SourceEmbed:
		sub, err := fs.Sub(embedded, "static")
		if err != nil {
			return nil, fmt.Errorf("open embedded static assets: %w", err)
		}
		return afero.NewReadOnlyFs(afero.FromIOFS{FS: sub}), nil
	case SourceDisk:
		if _, err := os.Stat(diskRoot); err != nil {
			return nil, fmt.Errorf("open static directory: %w", err)
		}
		return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), diskRoot)), nil
	default:
		return nil, fmt.Errorf("unknown static source %q", source)
	}
}

// AferoStore serves files out of an afero filesystem.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore creates a new AferoStore.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// Open opens a file for reading.
func (s *AferoStore) Open(path string) (io.ReadCloser, error) {
	return s.fs.OpenFile(path, os.O_RDONLY, 0)
}

// Exists reports whether path names a regular file.
func (s *AferoStore) Exists(path string) bool {
	info, err := s.fs.Stat(path)
	return err == nil && !info.IsDir()
}

// FS exposes the store as an io/fs filesystem, e.g. for echo's StaticFS.
func (s *AferoStore) FS() fs.FS {
	return afero.NewIOFS(s.fs)
}
