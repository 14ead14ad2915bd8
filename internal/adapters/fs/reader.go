// Package fs provides the file system adapters: reading script content and
// discovering script files on disk.
package fs

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/zerr"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

var _ ports.ContentReader = (*Reader)(nil)

// Reader implements ports.ContentReader on the local file system.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read implements ports.ContentReader. A missing file is not an error; it is
// reported through ok so callers can treat deletion as a normal state.
func (r *Reader) Read(path string) (string, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Paths come from the editor session and the scanner
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, zerr.With(errors.Join(domain.ErrFileRead, err), "path", path)
	}
	return string(data), true, nil
}
