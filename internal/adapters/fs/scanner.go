package fs

import (
	"io/fs"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"go.scriptor.dev/stash/internal/core/ports"
)

var _ ports.Scanner = (*Scanner)(nil)

// Scanner implements ports.Scanner by walking a directory tree and matching
// file names against the configured include patterns.
type Scanner struct {
	include []string
}

// NewScanner creates a Scanner matching the given glob patterns against
// file base names.
func NewScanner(include []string) *Scanner {
	return &Scanner{include: include}
}

// Scan implements ports.Scanner. Hidden directories are skipped, which keeps
// the walk out of .git and the snapshot stash itself.
func (s *Scanner) Scan(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if s.matches(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to scan for script files"), "root", root)
	}

	return paths, nil
}

func (s *Scanner) matches(name string) bool {
	for _, pattern := range s.include {
		// Match only ever fails on a malformed pattern, which config
		// validation has already rejected.
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
